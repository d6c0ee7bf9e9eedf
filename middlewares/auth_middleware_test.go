package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/api/rider/:id/ping", AuthMiddleware(testSecret), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("riderId").(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	app := testApp()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"malformed header", "Token abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", fiber.StatusUnauthorized},
		{"wrong signing key", "Bearer " + func() string {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "rider-1"})
			signed, _ := token.SignedString([]byte("other-secret"))
			return signed
		}(), fiber.StatusUnauthorized},
		{"valid token", "Bearer " + signToken(t, jwt.MapClaims{"id": "rider-1"}), fiber.StatusOK},
		{"token for another rider", "Bearer " + signToken(t, jwt.MapClaims{"id": "rider-2"}), fiber.StatusForbidden},
		{"token without id claim", "Bearer " + signToken(t, jwt.MapClaims{"sub": "x"}), fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/rider/rider-1/ping", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
