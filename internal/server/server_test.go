package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec/api/internal/config"
	"github.com/medrec/api/internal/domain/appointment"
	"github.com/medrec/api/internal/domain/disease"
	"github.com/medrec/api/internal/domain/doctor"
	"github.com/medrec/api/internal/domain/medicalrecord"
	"github.com/medrec/api/internal/domain/medicine"
	"github.com/medrec/api/internal/domain/patient"
	"github.com/medrec/api/internal/domain/pharmacy"
	"github.com/medrec/api/internal/domain/prescription"
	"github.com/medrec/api/internal/domain/stats"
	"github.com/medrec/api/internal/domain/symptom"
	"github.com/medrec/api/internal/domain/user"
	"github.com/medrec/api/internal/platform/apitest"
	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/store/storetest"
)

// accounts resolves identities from the in-memory users table. Login is not
// exercised here, so Credentials knows no one.
type accounts struct {
	users *storetest.Memory[user.User]
}

func (a accounts) Credentials(context.Context, string) (*user.Credentials, error) {
	return nil, store.ErrNotFound
}

func (a accounts) LookupIdentity(ctx context.Context, id int64) (*auth.Profile, error) {
	u, err := a.users.FindUnique(ctx, store.ByID(id))
	if err != nil {
		return nil, err
	}
	return &auth.Profile{ID: u.ID, Email: u.Email, Role: u.Role, FirstName: u.FirstName, LastName: u.LastName}, nil
}

type fixedCounter struct{}

func (fixedCounter) Count(context.Context) (*stats.Overview, error) {
	return &stats.Overview{Patients: 2, Doctors: 1, AppointmentsByStatus: map[string]int64{}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		JWTSecret:      "server-test-secret-server-test-secret",
		JWTIssuer:      "medrec",
		JWTTTL:         time.Hour,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		BodyLimit:      "1M",
		StatsCacheTTL:  0,
	}
}

type fixture struct {
	e   *echo.Echo
	cfg *config.Config

	admin, doctor, patientA, patientB string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	users := storetest.NewMemory[user.User]()
	users.Seed(map[string]any{"email": "admin@example.com", "firstName": "A", "lastName": "Admin", "role": "ADMIN"})
	users.Seed(map[string]any{"email": "doc@example.com", "firstName": "D", "lastName": "Doctor", "role": "DOCTOR"})
	users.Seed(map[string]any{"email": "pa@example.com", "firstName": "P", "lastName": "A", "role": "PATIENT"})
	users.Seed(map[string]any{"email": "pb@example.com", "firstName": "P", "lastName": "B", "role": "PATIENT"})

	patients := storetest.NewMemory[patient.Patient]()
	patients.Seed(map[string]any{"userId": float64(3)})
	patients.Seed(map[string]any{"userId": float64(4)})

	owners := apitest.NewOwners()
	owners.Patients[1] = 3
	owners.Patients[2] = 4

	cfg := testConfig()
	e := New(Deps{
		Config: cfg,
		Logger: zerolog.Nop(),
		Stores: Stores{
			Users:          users,
			Accounts:       accounts{users: users},
			Owners:         owners,
			Patients:       patients,
			Doctors:        storetest.NewMemory[doctor.Doctor](),
			Appointments:   storetest.NewMemory[appointment.Appointment](),
			Diseases:       storetest.NewMemory[disease.Disease](),
			Symptoms:       storetest.NewMemory[symptom.Symptom](),
			Medicines:      storetest.NewMemory[medicine.Medicine](),
			Pharmacies:     storetest.NewMemory[pharmacy.Pharmacy](),
			Prescriptions:  storetest.NewMemory[prescription.Prescription](),
			MedicalRecords: storetest.NewMemory[medicalrecord.MedicalRecord](),
			Counter:        fixedCounter{},
		},
		Version: "test",
	})

	f := &fixture{e: e, cfg: cfg}
	f.admin = f.token(t, 1, auth.RoleAdmin)
	f.doctor = f.token(t, 2, auth.RoleDoctor)
	f.patientA = f.token(t, 3, auth.RolePatient)
	f.patientB = f.token(t, 4, auth.RolePatient)
	return f
}

func (f *fixture) token(t *testing.T, id int64, role auth.Role) string {
	t.Helper()
	tok, err := Tokens(f.cfg).Issue(auth.Identity{ID: id, Role: role})
	require.NoError(t, err)
	return tok
}

func (f *fixture) send(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, apitest.Envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := f.send(req)

	var env apitest.Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	f := setup(t)
	rec := f.send(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHSTSFollowsEnv(t *testing.T) {
	f := setup(t)
	rec := f.send(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))

	dev := testConfig()
	dev.Env = "development"
	e := New(Deps{Config: dev, Logger: zerolog.Nop(), Stores: Stores{Accounts: accounts{users: storetest.NewMemory[user.User]()}}})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestMetrics(t *testing.T) {
	f := setup(t)
	f.do(t, http.MethodGet, "/api/v1/diseases", "", f.admin)

	rec := f.send(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/v1/diseases",status="200"} 1`)
}

func TestCreateDisease(t *testing.T) {
	f := setup(t)

	rec, env := f.do(t, http.MethodPost, "/api/v1/diseases", `{"name":"Flu"}`, f.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var created disease.Disease
	env.Decode(t, &created)
	assert.Equal(t, "Flu", created.Name)

	rec, env = f.do(t, http.MethodGet, "/api/v1/diseases/"+itoa(created.ID), "", f.patientA)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched disease.Disease
	env.Decode(t, &fetched)
	assert.Equal(t, created, fetched)
}

func TestCreateDisease_PatientForbidden(t *testing.T) {
	f := setup(t)
	rec, env := f.do(t, http.MethodPost, "/api/v1/diseases", `{"name":"Flu"}`, f.patientA)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)
}

func TestCreateDisease_Validation(t *testing.T) {
	f := setup(t)
	rec, env := f.do(t, http.MethodPost, "/api/v1/diseases", `{"description":"no name"}`, f.admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, env.Details)
	assert.Equal(t, "name", env.Details[0].Field)
}

func TestInvalidID(t *testing.T) {
	f := setup(t)
	rec, env := f.do(t, http.MethodGet, "/api/v1/doctors/abc", "", f.admin)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, env.Error)
	assert.Empty(t, env.Data)
}

func TestMissingToken(t *testing.T) {
	f := setup(t)
	rec, env := f.do(t, http.MethodGet, "/api/v1/patients", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestTokenProblems(t *testing.T) {
	f := setup(t)

	expired, err := auth.NewTokenIssuer([]byte(f.cfg.JWTSecret), f.cfg.JWTIssuer, -time.Minute).
		Issue(auth.Identity{ID: 1, Role: auth.RoleAdmin})
	require.NoError(t, err)
	forged, err := auth.NewTokenIssuer([]byte("some-other-secret-some-other-secret"), f.cfg.JWTIssuer, time.Hour).
		Issue(auth.Identity{ID: 1, Role: auth.RoleAdmin})
	require.NoError(t, err)
	ghost := f.token(t, 99, auth.RoleAdmin)

	tests := []struct {
		name, token, want string
	}{
		{"expired", expired, "expired token"},
		{"forged", forged, "invalid token"},
		{"garbage", "not-a-jwt", "invalid token"},
		{"deleted account", ghost, "user not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := f.do(t, http.MethodGet, "/api/v1/diseases", "", tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.want, env.Error)
		})
	}
}

func TestOwnership(t *testing.T) {
	f := setup(t)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/patients/2", "", f.patientA)
	assert.Equal(t, http.StatusForbidden, rec.Code, "patient A reading patient B")

	rec, _ = f.do(t, http.MethodGet, "/api/v1/patients/1", "", f.patientA)
	assert.Equal(t, http.StatusOK, rec.Code, "patient A reading own record")

	rec, _ = f.do(t, http.MethodGet, "/api/v1/patients/2", "", f.doctor)
	assert.Equal(t, http.StatusOK, rec.Code, "doctors may read any patient")

	rec, _ = f.do(t, http.MethodGet, "/api/v1/patients", "", f.patientB)
	assert.Equal(t, http.StatusForbidden, rec.Code, "patients cannot list patients")
}

func TestDeleteMissing(t *testing.T) {
	f := setup(t)
	rec, env := f.do(t, http.MethodDelete, "/api/v1/symptoms/999999", "", f.admin)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Symptom not found", env.Error)
}

func TestRegisterThenMe(t *testing.T) {
	f := setup(t)

	rec, env := f.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"email":"new@example.com","password":"long enough","firstName":"N","lastName":"U"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	env.Decode(t, &session)
	require.NotEmpty(t, session.Token)

	rec, env = f.do(t, http.MethodGet, "/api/v1/auth/me", "", session.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me user.User
	env.Decode(t, &me)
	assert.Equal(t, "new@example.com", me.Email)
	assert.Equal(t, auth.RolePatient, me.Role)
}

func TestETag(t *testing.T) {
	f := setup(t)
	f.do(t, http.MethodPost, "/api/v1/symptoms", `{"name":"Cough"}`, f.doctor)

	rec, _ := f.do(t, http.MethodGet, "/api/v1/symptoms", "", f.patientA)
	require.Equal(t, http.StatusOK, rec.Code)
	tag := rec.Header().Get("ETag")
	require.NotEmpty(t, tag)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/symptoms", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.patientA)
	req.Header.Set("If-None-Match", tag)
	rec = f.send(req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestSanitize(t *testing.T) {
	f := setup(t)
	rec, env := f.do(t, http.MethodGet, "/api/v1/symptoms?q=%3Cscript%3Ealert(1)%3C/script%3E", "", f.admin)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "script in query parameter", env.Error)
}

func TestStats(t *testing.T) {
	f := setup(t)

	rec, env := f.do(t, http.MethodGet, "/api/v1/stats", "", f.admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var o stats.Overview
	env.Decode(t, &o)
	assert.Equal(t, int64(2), o.Patients)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/stats", "", f.doctor)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	f := setup(t)
	rec, env := f.do(t, http.MethodGet, "/api/v1/nowhere", "", f.admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
