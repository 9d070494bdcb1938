package mapper

import (
	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/model"
)

type TenantMapper struct{}

func NewTenantMapper() *TenantMapper {
	return &TenantMapper{}
}

func (m *TenantMapper) ToEntity(t *model.Tenant) *entity.Tenant {
	if t == nil {
		return nil
	}
	return &entity.Tenant{
		Id:        t.Id,
		Token:     t.Token,
		Name:      t.Name,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
	}
}

func (m *TenantMapper) ToModel(t *entity.Tenant) *model.Tenant {
	if t == nil {
		return nil
	}
	return &model.Tenant{
		Id:        t.Id,
		Token:     t.Token,
		Name:      t.Name,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
	}
}
