package store

import (
	"context"
	"errors"

	"github.com/medivault/medivault-api/internal/models"
)

// Sentinel errors shared by every implementation.
var (
	ErrNotFound        = errors.New("identity not found")
	ErrDuplicateAadhar = errors.New("aadhar number already registered")
)

// ValidationError reports a missing or malformed field at creation time.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IdentityStore is the narrow persistence contract for the two identity
// collections. The role argument selects the collection; ids are the hex
// form carried in tokens.
type IdentityStore interface {
	FindByAadhar(ctx context.Context, role models.Role, aadhar string) (*models.Identity, error)
	FindByID(ctx context.Context, role models.Role, id string) (*models.Identity, error)
	// Create validates required fields, hashes the password and persists the
	// identity. The stored document never holds the plaintext password.
	Create(ctx context.Context, role models.Role, identity *models.Identity) (*models.Identity, error)
	// SetRefreshToken overwrites the stored refresh token; an empty token
	// removes the field entirely.
	SetRefreshToken(ctx context.Context, role models.Role, id, refreshToken string) error
}

// TreatmentStore persists doctors' treatment records.
type TreatmentStore interface {
	Insert(ctx context.Context, t *models.Treatment) (*models.Treatment, error)
	FindByID(ctx context.Context, id string) (*models.Treatment, error)
	FindByPatientAadhar(ctx context.Context, aadhar string) ([]models.Treatment, error)
	// AppendFiles adds report and prescription file references to an existing
	// treatment without touching the ones already there.
	AppendFiles(ctx context.Context, id string, reports, prescriptions []models.ReportFile) error
}
