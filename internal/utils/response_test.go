package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRespondEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Respond(c, http.StatusCreated, "created", gin.H{"id": "1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
	assert.NotNil(t, env.Data)
}

func TestFailUsesAPIErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Fail(c, Conflict("already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "already exists", env.Message)
}

func TestFailUnknownErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Fail(c, errors.New("mongo is down"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	// Internal details are never leaked.
	assert.NotContains(t, env.Message, "mongo")
}

func TestAsAPIErrorUnwraps(t *testing.T) {
	apiErr, ok := AsAPIError(NotFound("gone"))
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, ok = AsAPIError(errors.New("plain"))
	assert.False(t, ok)
}
