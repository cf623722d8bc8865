// Package storetest provides in-memory store implementations for tests.
package storetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medivault/medivault-api/internal/models"
	"github.com/medivault/medivault-api/internal/store"
	"github.com/medivault/medivault-api/internal/utils"
)

// IdentityStore is an in-memory store.IdentityStore with the same validation
// and hashing behavior as the Mongo implementation.
type IdentityStore struct {
	mu         sync.Mutex
	identities map[models.Role]map[string]*models.Identity // keyed by hex id
}

// NewIdentityStore returns an empty in-memory identity store.
func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		identities: map[models.Role]map[string]*models.Identity{
			models.RolePatient: {},
			models.RoleDoctor:  {},
		},
	}
}

func (s *IdentityStore) FindByAadhar(_ context.Context, role models.Role, aadhar string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.identities[role] {
		if id.AadharNumber == aadhar {
			c := *id
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *IdentityStore) FindByID(_ context.Context, role models.Role, id string) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[role][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *identity
	return &c, nil
}

func (s *IdentityStore) Create(_ context.Context, role models.Role, identity *models.Identity) (*models.Identity, error) {
	missing := identity.Name == "" ||
		identity.PhoneNumber == "" ||
		identity.Age <= 0 ||
		identity.Gender == "" ||
		identity.AadharNumber == "" ||
		identity.Password == ""
	if role == models.RoleDoctor && strings.TrimSpace(identity.ImrNumber) == "" {
		missing = true
	}
	if missing {
		return nil, &store.ValidationError{Message: "Please enter all the required details"}
	}

	gender, ok := models.NormalizeGender(identity.Gender)
	if !ok {
		return nil, &store.ValidationError{Message: "Invalid gender. Must be male, female, or other"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.identities[role] {
		if existing.AadharNumber == strings.TrimSpace(identity.AadharNumber) {
			return nil, store.ErrDuplicateAadhar
		}
	}

	hashed, err := utils.HashPassword(identity.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &models.Identity{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(identity.Name),
		PhoneNumber:  strings.TrimSpace(identity.PhoneNumber),
		Age:          identity.Age,
		Gender:       gender,
		AadharNumber: strings.TrimSpace(identity.AadharNumber),
		Password:     hashed,
		ImrNumber:    strings.TrimSpace(identity.ImrNumber),
		IsDoctor:     role.IsDoctor(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.identities[role][doc.ID.Hex()] = doc

	c := *doc
	return &c, nil
}

func (s *IdentityStore) SetRefreshToken(_ context.Context, role models.Role, id, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[role][id]
	if !ok {
		return store.ErrNotFound
	}
	identity.RefreshToken = refreshToken
	identity.UpdatedAt = time.Now().UTC()
	return nil
}

// TreatmentStore is an in-memory store.TreatmentStore.
type TreatmentStore struct {
	mu         sync.Mutex
	treatments map[string]*models.Treatment
}

// NewTreatmentStore returns an empty in-memory treatment store.
func NewTreatmentStore() *TreatmentStore {
	return &TreatmentStore{treatments: map[string]*models.Treatment{}}
}

func (s *TreatmentStore) Insert(_ context.Context, t *models.Treatment) (*models.Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = models.TreatmentOngoing
	}
	if t.Reports == nil {
		t.Reports = []models.ReportFile{}
	}
	if t.Prescriptions == nil {
		t.Prescriptions = []models.ReportFile{}
	}
	c := *t
	s.treatments[t.ID.Hex()] = &c
	return t, nil
}

func (s *TreatmentStore) FindByID(_ context.Context, id string) (*models.Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.treatments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (s *TreatmentStore) FindByPatientAadhar(_ context.Context, aadhar string) ([]models.Treatment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Treatment, 0)
	for _, t := range s.treatments {
		if t.PatientAadhar == aadhar {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *TreatmentStore) AppendFiles(_ context.Context, id string, reports, prescriptions []models.ReportFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.treatments[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Reports = append(t.Reports, reports...)
	t.Prescriptions = append(t.Prescriptions, prescriptions...)
	t.UpdatedAt = time.Now().UTC()
	return nil
}
