package serverutils

import (
	"context"
	"strings"

	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// TenantAuthenticator resolves an opaque bearer token to its tenant.
type TenantAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.Tenant, error)
}

// ApiKeyMiddleware validates the Authorization header against stored
// tenant tokens and stashes the tenant on the request context.
func ApiKeyMiddleware(auth TenantAuthenticator) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return apperr.Unauthenticated("missing token")
		}
		token := strings.TrimSpace(authHeader[7:])
		if token == "" {
			return apperr.Unauthenticated("missing token")
		}

		tenant, err := auth.Authenticate(ctx.Context(), token)
		if err != nil {
			return err
		}

		ctx.Locals("tenant_id", tenant.Id.String())
		ctx.Locals("tenant", tenant)
		return ctx.Next()
	}
}
