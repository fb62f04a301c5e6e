// Package crud implements the five generic resource operations over any
// store.Repository.
package crud

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/pkg/pagination"
)

// PrepareFunc rewrites a create or update payload before it reaches the
// repository. Returning an error aborts the request with that error.
type PrepareFunc func(c echo.Context, data map[string]any) error

// Controller serves list, get, create, update and delete for one resource.
type Controller[T any] struct {
	Repo store.Repository[T]
	// Name is the singular display name used in messages, e.g. "Patient".
	Name string
	// Include lists relations loaded on list and get.
	Include []string
	// Prepare, when set, runs on create and update payloads.
	Prepare PrepareFunc
}

func New[T any](repo store.Repository[T], name string, include ...string) *Controller[T] {
	return &Controller[T]{Repo: repo, Name: name, Include: include}
}

func (ctl *Controller[T]) List(c echo.Context) error {
	return ctl.list(c, nil)
}

// ListBy lists items whose field equals the numeric path parameter param.
func (ctl *Controller[T]) ListBy(param, field string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := ParseID(c, param)
		if err != nil {
			return err
		}
		return ctl.list(c, store.Filter{field: id})
	}
}

func (ctl *Controller[T]) list(c echo.Context, where store.Filter) error {
	p := pagination.FromContext(c)
	ctx := c.Request().Context()

	var (
		items []*T
		total int
		g     errgroup.Group
	)
	g.Go(func() error {
		var err error
		items, err = ctl.Repo.FindMany(ctx, where, p.Skip(), p.Take(), ctl.Include...)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = ctl.Repo.Count(ctx, where)
		return err
	})
	if err := g.Wait(); err != nil {
		return ctl.fail(err)
	}

	return response.OK(c, pagination.NewResult(items, total, p))
}

func (ctl *Controller[T]) Get(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	item, err := ctl.Repo.FindUnique(c.Request().Context(), store.ByID(id), ctl.Include...)
	if err != nil {
		return ctl.fail(err)
	}
	return response.OK(c, item)
}

func (ctl *Controller[T]) Create(c echo.Context) error {
	data, err := DecodeBody(c)
	if err != nil {
		return err
	}
	if ctl.Prepare != nil {
		if err := ctl.Prepare(c, data); err != nil {
			return err
		}
	}

	item, err := ctl.Repo.Create(c.Request().Context(), data)
	if err != nil {
		return ctl.fail(err)
	}
	return response.Created(c, item, fmt.Sprintf("%s created successfully", ctl.Name))
}

func (ctl *Controller[T]) Update(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}
	data, err := DecodeBody(c)
	if err != nil {
		return err
	}
	if ctl.Prepare != nil {
		if err := ctl.Prepare(c, data); err != nil {
			return err
		}
	}

	item, err := ctl.Repo.Update(c.Request().Context(), store.ByID(id), data)
	if err != nil {
		return ctl.fail(err)
	}
	return response.Updated(c, item, fmt.Sprintf("%s updated successfully", ctl.Name))
}

func (ctl *Controller[T]) Delete(c echo.Context) error {
	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := ctl.Repo.Delete(c.Request().Context(), store.ByID(id)); err != nil {
		return ctl.fail(err)
	}
	return response.Message(c, fmt.Sprintf("%s deleted successfully", ctl.Name))
}

// fail maps repository errors to API errors.
func (ctl *Controller[T]) fail(err error) error {
	return StoreError(err, ctl.Name)
}

// StoreError maps a repository error for the resource called name.
func StoreError(err error, name string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return response.NotFound(fmt.Sprintf("%s not found", name))
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, store.ErrConflict):
		return response.BadRequest(err.Error())
	}
	return response.Internal(err)
}

// ParseID reads a positive integer path parameter.
func ParseID(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, response.BadRequest(fmt.Sprintf("invalid %s", param))
	}
	return id, nil
}

// DecodeBody reads the request body as a JSON object. An empty body yields
// an empty map.
func DecodeBody(c echo.Context) (map[string]any, error) {
	data := make(map[string]any)
	body := c.Request().Body
	if body == nil {
		return data, nil
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, response.BadRequest("could not read request body")
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, response.BadRequest("request body must be a JSON object")
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}
