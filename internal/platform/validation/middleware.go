package validation

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Request returns middleware that validates the merged request record
// against schema. Body fields are overridden by path parameters, which are
// overridden by query parameters. On failure it returns Errors without
// calling next; the body is restored for the handler either way.
func Request(schema Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			record, err := Collect(c)
			if err != nil {
				return err
			}
			if errs := Validate(record, schema); len(errs) > 0 {
				return errs
			}
			return next(c)
		}
	}
}

// Collect merges body, path parameters and query into one flat record.
func Collect(c echo.Context) (map[string]any, error) {
	record := make(map[string]any)

	req := c.Request()
	if req.Body != nil && req.Body != http.NoBody {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "could not read request body")
		}
		req.Body = io.NopCloser(bytes.NewReader(raw))

		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &record); err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object")
			}
			if record == nil {
				record = make(map[string]any)
			}
		}
	}

	names, values := c.ParamNames(), c.ParamValues()
	for i, name := range names {
		if i < len(values) {
			record[name] = values[i]
		}
	}

	for key, vals := range c.QueryParams() {
		if len(vals) > 0 {
			record[key] = vals[0]
		}
	}

	return record, nil
}
