package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medivault/medivault-api/internal/config"
	"github.com/medivault/medivault-api/internal/models"
)

// Verification failure kinds. Expiry is reported separately from any other
// defect so the middleware can tell the client to refresh rather than re-login.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessClaims carries the profile fields a client needs to render a session,
// so protected pages don't have to fetch the user again.
type AccessClaims struct {
	UserID       string `json:"_id"`
	Name         string `json:"Name"`
	PhoneNumber  string `json:"PhoneNumber"`
	Age          int    `json:"Age"`
	Gender       string `json:"Gender"`
	AadharNumber string `json:"AadharNumber"`
	ImrNumber    string `json:"ImrNumber,omitempty"`
	IsDoctor     bool   `json:"isDoctor"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the identity id.
type RefreshClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// Service signs and verifies the two token kinds. Secrets and expiries come
// from the config passed at construction; issuance has no side effects.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewService builds a Service from the loaded configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// AccessTTL returns the configured access-token lifetime.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccessToken signs a short-lived access token for the identity.
func (s *Service) IssueAccessToken(id *models.Identity) (string, error) {
	claims := &AccessClaims{
		UserID:       id.ID.Hex(),
		Name:         id.Name,
		PhoneNumber:  id.PhoneNumber,
		Age:          id.Age,
		Gender:       id.Gender,
		AadharNumber: id.AadharNumber,
		ImrNumber:    id.ImrNumber,
		IsDoctor:     id.IsDoctor,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// IssueRefreshToken signs a long-lived refresh token holding only the id.
func (s *Service) IssueRefreshToken(id *models.Identity) (string, error) {
	claims := &RefreshClaims{
		UserID: id.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// VerifyAccess parses and validates an access token.
func (s *Service) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(tokenStr, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh parses and validates a refresh token.
func (s *Service) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.verify(tokenStr, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) verify(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
