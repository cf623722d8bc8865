package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medivault/medivault-api/internal/middleware"
)

func loginDoctor(t *testing.T, f *apiFixture) *http.Cookie {
	t.Helper()
	require.Equal(t, http.StatusCreated,
		f.do(http.MethodPost, "/api/v1/users/register-doctor", doctorPayload(), nil).Code)
	rec := f.do(http.MethodPost, "/api/v1/users/login-doctor", gin.H{
		"AadharNumber": "888", "password": "secret2",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	access := cookieByName(rec, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	return access
}

func createTreatment(t *testing.T, f *apiFixture, access *http.Cookie) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/v1/treatment/create-treatment", gin.H{
		"AadharNumber": "999",
		"Disease":      "Hypertension",
		"Remarks":      "Monitor weekly",
	}, func(req *http.Request) {
		req.AddCookie(access)
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	env := envelope(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)
	return id
}

func TestTreatmentRoutesRejectPatients(t *testing.T) {
	f := newAPIFixture(t)
	access, _ := loginPatient(t, f)

	rec := f.do(http.MethodPost, "/api/v1/treatment/create-treatment", gin.H{
		"AadharNumber": "999", "Disease": "Flu",
	}, func(req *http.Request) {
		req.AddCookie(access)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only doctors can access this resource", envelope(t, rec).Message)
}

func TestCreateTreatment(t *testing.T) {
	f := newAPIFixture(t)
	loginPatient(t, f)
	access := loginDoctor(t, f)

	rec := f.do(http.MethodPost, "/api/v1/treatment/create-treatment", gin.H{
		"AadharNumber": "999",
		"Disease":      "Hypertension",
		"Remarks":      "Monitor weekly",
	}, func(req *http.Request) {
		req.AddCookie(access)
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	env := envelope(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hypertension", data["disease"])
	assert.Equal(t, "A", data["patientName"])
	assert.Equal(t, "Dr. B", data["doctorName"])
	assert.Equal(t, "ongoing", data["status"])
}

func TestCreateTreatmentUnknownPatient(t *testing.T) {
	f := newAPIFixture(t)
	access := loginDoctor(t, f)

	rec := f.do(http.MethodPost, "/api/v1/treatment/create-treatment", gin.H{
		"AadharNumber": "000", "Disease": "Flu",
	}, func(req *http.Request) {
		req.AddCookie(access)
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPatientDetails(t *testing.T) {
	f := newAPIFixture(t)
	loginPatient(t, f)
	access := loginDoctor(t, f)
	createTreatment(t, f, access)

	rec := f.do(http.MethodGet, "/api/v1/treatment/get-patient-details?AadharNumber=999", nil, func(req *http.Request) {
		req.AddCookie(access)
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := envelope(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	patient, ok := data["patient"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "999", patient["AadharNumber"])
	assert.NotContains(t, rec.Body.String(), "password")

	treatments, ok := data["treatments"].([]any)
	require.True(t, ok)
	assert.Len(t, treatments, 1)
}

func TestAddReportAppends(t *testing.T) {
	f := newAPIFixture(t)
	loginPatient(t, f)
	access := loginDoctor(t, f)
	id := createTreatment(t, f, access)

	withAuth := func(req *http.Request) { req.AddCookie(access) }

	rec := f.do(http.MethodPost, "/api/v1/treatment/add-report", gin.H{
		"TreatmentId": id,
		"reports":     []gin.H{{"publicId": "r1", "url": "https://files.example/r1.pdf"}},
	}, withAuth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/treatment/add-report", gin.H{
		"TreatmentId":   id,
		"prescriptions": []gin.H{{"publicId": "p1", "url": "https://files.example/p1.pdf"}},
	}, withAuth)
	require.Equal(t, http.StatusOK, rec.Code)

	env := envelope(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Len(t, data["reports"], 1)
	assert.Len(t, data["prescriptions"], 1)
}

func TestAddReportRequiresFiles(t *testing.T) {
	f := newAPIFixture(t)
	loginPatient(t, f)
	access := loginDoctor(t, f)
	id := createTreatment(t, f, access)

	rec := f.do(http.MethodPost, "/api/v1/treatment/add-report", gin.H{
		"TreatmentId": id,
	}, func(req *http.Request) {
		req.AddCookie(access)
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTreatmentDetails(t *testing.T) {
	f := newAPIFixture(t)
	loginPatient(t, f)
	access := loginDoctor(t, f)
	id := createTreatment(t, f, access)

	withAuth := func(req *http.Request) { req.AddCookie(access) }

	rec := f.do(http.MethodGet, "/api/v1/treatment/get-treatment-details/"+id, nil, withAuth)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/treatment/get-treatment-details/unknown", nil, withAuth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
