// Package apitest runs handlers behind the real authentication guard and
// error handler so domain tests exercise routes the way clients see them.
package apitest

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

var secret = []byte("apitest-secret-apitest-secret-apitest")

// Envelope is response.Envelope with Data left raw for decoding.
type Envelope struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data"`
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Details []validation.Error `json:"details"`
}

// Decode unmarshals Data into v.
func (env Envelope) Decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

// Server is an echo instance with an authenticated /api/v1 group.
type Server struct {
	Echo   *echo.Echo
	API    *echo.Group
	Tokens *auth.TokenIssuer

	mu    sync.Mutex
	users map[int64]*auth.Profile
}

func New() *Server {
	s := &Server{
		Echo:   echo.New(),
		Tokens: auth.NewTokenIssuer(secret, "medrec", time.Hour),
		users:  make(map[int64]*auth.Profile),
	}
	s.Echo.HTTPErrorHandler = response.ErrorHandler(zerolog.Nop())
	s.API = s.Echo.Group("/api/v1")
	s.Echo.Use(auth.Authenticate(auth.GuardConfig{
		Tokens:  s.Tokens,
		Users:   s,
		Skipper: auth.AuthSkipper,
	}))
	return s
}

// Login registers an account the guard will accept and returns its token.
func (s *Server) Login(id int64, role auth.Role) string {
	s.mu.Lock()
	s.users[id] = &auth.Profile{ID: id, Email: "user@example.com", Role: role}
	s.mu.Unlock()

	token, err := s.Tokens.Issue(auth.Identity{ID: id, Role: role})
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) LookupIdentity(_ context.Context, id int64) (*auth.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

// Do sends a request. An empty token sends no Authorization header.
func (s *Server) Do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, Envelope) {
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

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	var env Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid envelope %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

// Owners is an in-memory auth.OwnershipStore.
type Owners struct {
	// Patients and Doctors map profile id to owning user id.
	Patients map[int64]int64
	Doctors  map[int64]int64
	// Appointments maps appointment id to {patient id, doctor id}.
	Appointments map[int64][2]int64
}

func NewOwners() *Owners {
	return &Owners{
		Patients:     make(map[int64]int64),
		Doctors:      make(map[int64]int64),
		Appointments: make(map[int64][2]int64),
	}
}

func (o *Owners) PatientOwner(_ context.Context, id int64) (int64, error) {
	if u, ok := o.Patients[id]; ok {
		return u, nil
	}
	return 0, store.ErrNotFound
}

func (o *Owners) DoctorOwner(_ context.Context, id int64) (int64, error) {
	if u, ok := o.Doctors[id]; ok {
		return u, nil
	}
	return 0, store.ErrNotFound
}

func (o *Owners) AppointmentParties(_ context.Context, id int64) (int64, int64, error) {
	if p, ok := o.Appointments[id]; ok {
		return p[0], p[1], nil
	}
	return 0, 0, store.ErrNotFound
}

func (o *Owners) ProfileIDs(_ context.Context, userID int64) (int64, int64, error) {
	var patientID, doctorID int64
	for id, u := range o.Patients {
		if u == userID {
			patientID = id
		}
	}
	for id, u := range o.Doctors {
		if u == userID {
			doctorID = id
		}
	}
	return patientID, doctorID, nil
}

var _ auth.OwnershipStore = (*Owners)(nil)
