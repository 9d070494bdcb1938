package contract

import (
	"context"

	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/repository/specification"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	Update(ctx context.Context, tenant *entity.Tenant) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
