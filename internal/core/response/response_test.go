package response

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	custom_error "assetledger/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, "Unable to get asset", fmt.Errorf("load: %w", custom_error.NewNotFound("asset", 4)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Unable to get asset","details":"load: asset with id 4 not found"}`, w.Body.String())
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for value, ok := range map[string]bool{"12": true, "0": false, "-3": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: value}}

		_, got := ParamID(c, "id")
		assert.Equal(t, ok, got, value)
		if !ok {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}
