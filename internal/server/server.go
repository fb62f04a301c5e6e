// Package server assembles the HTTP router: the middleware chain, the
// infrastructure endpoints and every resource under /api/v1.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

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
	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/cache"
	"github.com/medrec/api/internal/platform/middleware"
	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
)

// Accounts is the credential and identity lookup behind login and the
// authentication guard.
type Accounts interface {
	user.CredentialStore
	auth.IdentityLookup
}

// Stores holds one handle per resource. PGStores builds them all over a
// single querier; tests substitute in-memory ones.
type Stores struct {
	Users          store.Repository[user.User]
	Accounts       Accounts
	Owners         auth.OwnershipStore
	Patients       store.Repository[patient.Patient]
	Doctors        store.Repository[doctor.Doctor]
	Appointments   store.Repository[appointment.Appointment]
	Diseases       store.Repository[disease.Disease]
	DiseaseLinks   disease.LinkStore
	Symptoms       store.Repository[symptom.Symptom]
	Medicines      store.Repository[medicine.Medicine]
	Pharmacies     store.Repository[pharmacy.Pharmacy]
	Inventory      pharmacy.InventoryStore
	Prescriptions  store.Repository[prescription.Prescription]
	MedicalRecords store.Repository[medicalrecord.MedicalRecord]
	Counter        stats.Counter
}

func PGStores(q store.Querier) Stores {
	return Stores{
		Users:          user.NewRepository(q),
		Accounts:       user.NewAccounts(q),
		Owners:         auth.NewOwnershipStore(q),
		Patients:       patient.NewRepository(q),
		Doctors:        doctor.NewRepository(q),
		Appointments:   appointment.NewRepository(q),
		Diseases:       disease.NewRepository(q),
		DiseaseLinks:   disease.NewLinkStore(q),
		Symptoms:       symptom.NewRepository(q),
		Medicines:      medicine.NewRepository(q),
		Pharmacies:     pharmacy.NewRepository(q),
		Inventory:      pharmacy.NewInventoryStore(q),
		Prescriptions:  prescription.NewRepository(q),
		MedicalRecords: medicalrecord.NewRepository(q),
		Counter:        stats.NewCounter(q),
	}
}

type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Stores   Stores
	Cache    cache.Cache
	Registry *prometheus.Registry
	// DBHealth serves /health/db. Nil leaves the route unmounted.
	DBHealth echo.HandlerFunc
	Version  string
}

// Tokens builds the bearer token issuer from cfg.
func Tokens(cfg *config.Config) *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTTTL)
}

// New wires the router. Middleware order matters: metrics and the request
// logger sit outside recovery so they observe the final status, and the
// audit log sits outside the authentication guard so rejected calls are
// recorded too.
func New(d Deps) *echo.Echo {
	cfg := d.Config
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Cache == nil {
		d.Cache = cache.Nop{}
	}
	tokens := Tokens(cfg)
	metrics := middleware.NewMetrics(d.Registry)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.ErrorHandler(d.Logger)

	e.Use(middleware.RequestID())
	e.Use(metrics.Middleware())
	e.Use(middleware.Logger(d.Logger))
	e.Use(middleware.Recovery(d.Logger))
	e.Use(middleware.SecurityHeaders(securityConfig(cfg)))
	e.Use(middleware.Sanitize(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID, "If-None-Match"},
		ExposeHeaders: []string{echo.HeaderXRequestID, "ETag"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	e.Use(middleware.Audit(d.Logger))
	e.Use(auth.Authenticate(auth.GuardConfig{
		Tokens:  tokens,
		Users:   d.Stores.Accounts,
		Skipper: auth.AuthSkipper,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": d.Version})
	})
	if d.DBHealth != nil {
		e.GET("/health/db", d.DBHealth)
	}
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api/v1", middleware.ETag())
	registerRoutes(api, d, tokens)

	return e
}

// securityConfig turns HSTS off for development servers, which usually
// run over plain HTTP.
func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	if cfg.IsDev() {
		return middleware.SecurityConfig{}
	}
	return middleware.SecurityConfig{HSTSMaxAge: 365 * 24 * time.Hour}
}

func registerRoutes(api *echo.Group, d Deps, tokens *auth.TokenIssuer) {
	s := d.Stores
	user.NewHandler(s.Users, s.Accounts, tokens).RegisterRoutes(api)
	patient.NewHandler(s.Patients, s.Owners).RegisterRoutes(api)
	doctor.NewHandler(s.Doctors, s.Owners).RegisterRoutes(api)
	appointment.NewHandler(s.Appointments, s.Owners).RegisterRoutes(api)
	symptom.NewHandler(s.Symptoms).RegisterRoutes(api)
	disease.NewHandler(s.Diseases, s.DiseaseLinks).RegisterRoutes(api)
	medicine.NewHandler(s.Medicines).RegisterRoutes(api)
	pharmacy.NewHandler(s.Pharmacies, s.Inventory).RegisterRoutes(api)
	prescription.NewHandler(s.Prescriptions, s.Owners).RegisterRoutes(api)
	medicalrecord.NewHandler(s.MedicalRecords, s.Owners).RegisterRoutes(api)

	svc := stats.NewService(s.Counter, d.Cache, d.Config.StatsCacheTTL, d.Logger)
	stats.NewHandler(svc).RegisterRoutes(api)
}
