package middleware

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"pulsefeed/pkg/auth"
)

// LocalAuthMiddleware verifies access tokens and exposes the account ID and
// the raw token to handlers. The suggestion listing scopes its ranking
// snapshot per (account, token), so the raw token is kept in request locals.
func LocalAuthMiddleware(jwtAuth *auth.LocalJWTAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		environment := os.Getenv("ENVIRONMENT")

		if jwtAuth == nil {
			// Never allow auth bypass in production
			if environment == "production" {
				log.Fatal("❌ CRITICAL SECURITY ERROR: JWT auth not configured in production environment. Authentication is required.")
			}

			if environment != "development" && environment != "testing" && environment != "" {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Authentication service unavailable",
				})
			}

			log.Println("⚠️  Auth skipped: JWT not configured (development mode)")
			c.Locals("account_id", "dev-account")
			c.Locals("access_token", "dev-token")
			return c.Next()
		}

		token := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			if extracted, err := auth.ExtractToken(authHeader); err == nil {
				token = extracted
			}
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid authorization token",
			})
		}

		account, err := jwtAuth.VerifyAccessToken(token)
		if err != nil {
			log.Printf("❌ Auth failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("account_id", account.ID)
		c.Locals("account_username", account.Username)
		c.Locals("access_token", token)

		return c.Next()
	}
}
