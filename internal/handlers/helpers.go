package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadforge/internal/apperr"
	"leadforge/internal/middleware"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string              `json:"error" example:"lead not found: lead_123"`
	Code   string              `json:"code,omitempty" example:"EMPTY_DATA"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

func getUserAndRole(c *gin.Context) (username, role string) {
	return c.GetString(middleware.CtxUsername), c.GetString(middleware.CtxRole)
}

// respondError maps the error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Fields: verr.Fields})
		return
	}
	switch {
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	case apperr.IsAlreadyConverted(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: err.Error()})
		return
	}
	if code, ok := apperr.StorageCodeOf(err); ok {
		status := http.StatusInternalServerError
		if code == apperr.CodeEmptyData {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: string(code)})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

// bindJSON decodes the body into dst; an empty body is allowed when optional.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// queryInt reads an optional positive integer query parameter.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + key})
		return 0, false
	}
	return n, true
}
