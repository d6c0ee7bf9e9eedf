package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/promodeagro/promodeagro-ecom-rider-api/responses"
)

// AuthMiddleware validates the Bearer token and pins the request to the
// rider it was issued for: the id claim must match the :id path segment.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.APIResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "No auth token, access denied",
			})
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.APIResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid authorization header format",
			})
		}

		claims := &jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(bearerToken[1], claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.APIResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Token verification failed, access denied",
			})
		}

		riderID, ok := (*claims)["id"].(string)
		if !ok || riderID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.APIResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Rider ID not found in token",
			})
		}

		if pathID := c.Params("id"); pathID != "" && pathID != riderID {
			return c.Status(fiber.StatusForbidden).JSON(responses.APIResponse{
				Status:  fiber.StatusForbidden,
				Message: "Token does not belong to this rider",
			})
		}

		c.Locals("riderId", riderID)
		return c.Next()
	}
}
