package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// SetSecret installs the HMAC key used to sign and verify tokens.
func SetSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
	return nil
}

func GenerateJWT(userID string, role string, username string, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ActorID returns the person id of the authenticated user, or nil when the
// request carries none.
func ActorID(c *gin.Context) (*int, error) {
	value, exists := c.Get("userID")
	if !exists || value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("userID is not numeric: %w", err)
		}
		return &id, nil
	case float64:
		id := int(v)
		return &id, nil
	default:
		return nil, fmt.Errorf("userID has unexpected type %T", value)
	}
}
