package user

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/crud"
	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

type CredentialStore interface {
	Credentials(ctx context.Context, email string) (*Credentials, error)
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type Handler struct {
	ctl    *crud.Controller[User]
	repo   store.Repository[User]
	creds  CredentialStore
	tokens TokenIssuer
}

func NewHandler(repo store.Repository[User], creds CredentialStore, tokens TokenIssuer) *Handler {
	ctl := crud.New[User](repo, "User")
	ctl.Prepare = preparePayload
	return &Handler{ctl: ctl, repo: repo, creds: creds, tokens: tokens}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := auth.RequireRole(auth.RoleAdmin)
	api.GET("/users", h.ctl.List, admin)
	api.POST("/users", h.ctl.Create, admin, validation.Request(CreateSchema))
	api.GET("/users/:id", h.ctl.Get, admin)
	api.PUT("/users/:id", h.ctl.Update, admin, validation.Request(UpdateSchema))
	api.DELETE("/users/:id", h.ctl.Delete, admin)

	api.POST("/auth/register", h.Register, validation.Request(RegisterSchema))
	api.POST("/auth/login", h.Login, validation.Request(LoginSchema))
	api.GET("/auth/me", h.Me)
}

type session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (h *Handler) Register(c echo.Context) error {
	var in NewAccount
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.Role = auth.RolePatient

	u, err := CreateAccount(c.Request().Context(), h.repo, in)
	var verrs validation.Errors
	switch {
	case errors.Is(err, ErrEmailTaken):
		return response.BadRequest(err.Error())
	case errors.As(err, &verrs):
		return verrs
	case err != nil:
		return crud.StoreError(err, "User")
	}

	token, err := h.tokens.Issue(u.Identity())
	if err != nil {
		return response.Internal(err)
	}
	return response.Created(c, session{User: u, Token: token}, "Registration successful")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	bad := response.Unauthorized("invalid email or password")

	cr, err := h.creds.Credentials(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		return bad
	}
	if err != nil {
		return response.Internal(err)
	}
	if err := auth.CheckPassword(cr.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return bad
		}
		return response.Internal(err)
	}

	u, err := h.repo.FindUnique(ctx, store.ByID(cr.ID))
	if err != nil {
		return crud.StoreError(err, "User")
	}
	token, err := h.tokens.Issue(u.Identity())
	if err != nil {
		return response.Internal(err)
	}
	return c.JSON(http.StatusOK, response.Envelope{
		Success: true,
		Data:    session{User: u, Token: token},
		Message: "Login successful",
	})
}

// Me returns the caller's own account.
func (h *Handler) Me(c echo.Context) error {
	caller, ok := auth.Caller(c)
	if !ok {
		return response.Unauthorized("authentication required")
	}
	u, err := h.repo.FindUnique(c.Request().Context(), store.ByID(caller.ID))
	if err != nil {
		return crud.StoreError(err, "User")
	}
	return response.OK(c, u)
}
