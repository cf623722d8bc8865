package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medivault/medivault-api/internal/config"
	"github.com/medivault/medivault-api/internal/middleware"
	"github.com/medivault/medivault-api/internal/models"
	"github.com/medivault/medivault-api/internal/store/storetest"
	"github.com/medivault/medivault-api/internal/token"
	"github.com/medivault/medivault-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenTTL:     time.Hour,
		RefreshTokenTTL:    24 * time.Hour,
	}
}

type fixture struct {
	ids    *storetest.IdentityStore
	tokens *token.Service
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ids:    storetest.NewIdentityStore(),
		tokens: token.NewService(testConfig()),
	}

	f.router = gin.New()
	auth := middleware.RequireAuth(f.ids, f.tokens)
	f.router.GET("/me", auth, func(c *gin.Context) {
		identity, _ := middleware.CurrentIdentity(c)
		utils.Respond(c, http.StatusOK, "ok", identity)
	})
	f.router.GET("/doctor-only", auth, middleware.RequireDoctor(), func(c *gin.Context) {
		utils.Respond(c, http.StatusOK, "ok", nil)
	})
	f.router.GET("/patient-only", auth, middleware.RequirePatient(), func(c *gin.Context) {
		utils.Respond(c, http.StatusOK, "ok", nil)
	})
	return f
}

func (f *fixture) createIdentity(t *testing.T, role models.Role, aadhar string) *models.Identity {
	t.Helper()
	identity := &models.Identity{
		Name:         "Test User",
		PhoneNumber:  "111",
		Age:          30,
		Gender:       "male",
		AadharNumber: aadhar,
		Password:     "secret1",
		ImrNumber:    "IMR-1",
	}
	created, err := f.ids.Create(context.Background(), role, identity)
	require.NoError(t, err)
	return created
}

func (f *fixture) get(path string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env utils.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Message
}

func TestMissingToken(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token not provided", message(t, rec))
}

func TestExpiredToken(t *testing.T) {
	f := newFixture(t)
	patient := f.createIdentity(t, models.RolePatient, "999")

	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Minute
	expired, err := token.NewService(cfg).IssueAccessToken(patient)
	require.NoError(t, err)

	rec := f.get("/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+expired)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token expired", message(t, rec))
}

func TestGarbageToken(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid access token", message(t, rec))
}

func TestTokenForUnknownIdentity(t *testing.T) {
	f := newFixture(t)
	patient := f.createIdentity(t, models.RolePatient, "999")

	// Sign a token for an identity the store has never seen.
	ghost := *patient
	ghost.ID = primitive.NewObjectID()
	tok, err := f.tokens.IssueAccessToken(&ghost)
	require.NoError(t, err)

	rec := f.get("/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found. Token may be invalid", message(t, rec))
}

func TestCookieTakesPrecedenceOverHeader(t *testing.T) {
	f := newFixture(t)
	patient := f.createIdentity(t, models.RolePatient, "999")

	tok, err := f.tokens.IssueAccessToken(patient)
	require.NoError(t, err)

	rec := f.get("/me", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: tok})
		req.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolvedIdentityIsSanitized(t *testing.T) {
	f := newFixture(t)
	patient := f.createIdentity(t, models.RolePatient, "999")
	require.NoError(t, f.ids.SetRefreshToken(context.Background(), models.RolePatient, patient.ID.Hex(), "stored-refresh"))

	tok, err := f.tokens.IssueAccessToken(patient)
	require.NoError(t, err)

	rec := f.get("/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "stored-refresh")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestDoctorResolvedAfterPatientMiss(t *testing.T) {
	f := newFixture(t)
	doctor := f.createIdentity(t, models.RoleDoctor, "888")

	tok, err := f.tokens.IssueAccessToken(doctor)
	require.NoError(t, err)

	rec := f.get("/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoleGates(t *testing.T) {
	f := newFixture(t)
	patient := f.createIdentity(t, models.RolePatient, "999")
	doctor := f.createIdentity(t, models.RoleDoctor, "888")

	patientTok, err := f.tokens.IssueAccessToken(patient)
	require.NoError(t, err)
	doctorTok, err := f.tokens.IssueAccessToken(doctor)
	require.NoError(t, err)

	withToken := func(tok string) func(*http.Request) {
		return func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	rec := f.get("/doctor-only", withToken(doctorTok))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.get("/doctor-only", withToken(patientTok))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only doctors can access this resource", message(t, rec))

	rec = f.get("/patient-only", withToken(patientTok))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.get("/patient-only", withToken(doctorTok))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only patients can access this resource", message(t, rec))
}
