package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateKeyRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

type GenerateKeyResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
