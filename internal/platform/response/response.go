// Package response defines the JSON envelope every endpoint answers with
// and the single adapter that turns handler errors into it.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response body. Success is false iff Error is set.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// OK writes 200 with data.
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with the new item and a confirmation message.
func Created(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Updated writes 200 with the changed item and a confirmation message.
func Updated(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Message writes 200 with a confirmation message and no data.
func Message(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}
