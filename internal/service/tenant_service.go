package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"ai-chatrelay-be/internal/dto"
	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/pkg/apperr"
	"ai-chatrelay-be/internal/pkg/logger"
	"ai-chatrelay-be/internal/repository/memory"
	"ai-chatrelay-be/internal/repository/specification"
	"ai-chatrelay-be/internal/repository/unitofwork"
	"ai-chatrelay-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ITenantService issues and validates the opaque API keys that bound
// every other read and write in the system.
type ITenantService interface {
	IssueKey(ctx context.Context, request *dto.GenerateKeyRequest) (*dto.GenerateKeyResponse, error)
	Authenticate(ctx context.Context, token string) (*entity.Tenant, error)
}

type tenantService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.TenantCache
	bus        *events.Bus
	logger     logger.ILogger
}

func NewTenantService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.TenantCache,
	bus *events.Bus,
	sysLogger logger.ILogger,
) ITenantService {
	return &tenantService{
		uowFactory: uowFactory,
		cache:      cache,
		bus:        bus,
		logger:     sysLogger,
	}
}

// generateToken returns a prefixed, URL-safe 256-bit random token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "crk_" + base64.URLEncoding.EncodeToString(b), nil
}

func (ts *tenantService) IssueKey(ctx context.Context, request *dto.GenerateKeyRequest) (*dto.GenerateKeyResponse, error) {
	uow := ts.uowFactory.NewUnitOfWork(ctx)

	// Collisions in a 256-bit space are negligible, but a unique-index
	// violation is still retryable rather than fatal.
	for attempt := 0; attempt < 3; attempt++ {
		token, err := generateToken()
		if err != nil {
			return nil, apperr.Persistence(err)
		}

		tenant := entity.Tenant{
			Id:        uuid.New(),
			Token:     token,
			Name:      request.Name,
			Active:    true,
			CreatedAt: time.Now(),
		}

		if err := uow.TenantRepository().Create(ctx, &tenant); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return nil, apperr.Persistence(err)
		}

		if err := ts.bus.Publish(events.NewKeyIssued(tenant.Id, tenant.Name)); err != nil {
			ts.logger.Warn("TENANT", "Failed to publish KEY_ISSUED event", map[string]interface{}{"error": err.Error()})
		}

		return &dto.GenerateKeyResponse{
			Id:        tenant.Id,
			Name:      tenant.Name,
			Token:     tenant.Token,
			Active:    tenant.Active,
			CreatedAt: tenant.CreatedAt,
		}, nil
	}

	return nil, apperr.Persistence(errors.New("could not allocate a unique token"))
}

func (ts *tenantService) Authenticate(ctx context.Context, token string) (*entity.Tenant, error) {
	if tenant, found := ts.cache.Get(token); found {
		return tenant, nil
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)
	tenant, err := uow.TenantRepository().FindOne(ctx,
		specification.ByToken{Token: token},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if tenant == nil {
		return nil, apperr.Unauthenticated("invalid API key")
	}

	ts.cache.Save(tenant)
	return tenant, nil
}
