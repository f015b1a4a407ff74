package custom_error

import "net/http"

// HTTPStatus maps domain and database errors to a response status.
func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInvalidTransition(err):
		return http.StatusConflict
	case IsValidation(err):
		return http.StatusBadRequest
	case IsUniqueViolation(err):
		return http.StatusConflict
	case IsForeignKeyViolation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
