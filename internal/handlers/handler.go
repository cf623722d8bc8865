package handlers

import (
	"github.com/medivault/medivault-api/internal/config"
	"github.com/medivault/medivault-api/internal/services"
	"github.com/medivault/medivault-api/internal/store"
	"github.com/medivault/medivault-api/internal/token"
)

// Handler bundles the collaborators every endpoint needs.
type Handler struct {
	Identities store.IdentityStore
	Treatments store.TreatmentStore
	Tokens     *token.Service
	Notifier   *services.NotificationService
	Config     *config.Config
}

// NewHandler wires the stores and services into a Handler.
func NewHandler(cfg *config.Config, ids store.IdentityStore, treatments store.TreatmentStore, tokens *token.Service, notifier *services.NotificationService) *Handler {
	return &Handler{
		Identities: ids,
		Treatments: treatments,
		Tokens:     tokens,
		Notifier:   notifier,
		Config:     cfg,
	}
}
