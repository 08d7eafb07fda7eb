package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/parsedu/payment-service/internal/api/contract"
	"github.com/parsedu/payment-service/internal/constants"
)

const UserIDKey = "userID"

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and stores the caller's user id in the
// request locals. Handlers behind it can assume an authenticated caller.
func Auth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return unauthorized(c)
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c)
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || claims.UserID == "" {
			return unauthorized(c)
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(contract.ResponseError{
		Code:    constants.ErrCodeUnauthorized,
		Message: constants.ErrMsgUnauthorized,
	})
}
