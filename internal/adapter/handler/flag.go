package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vibecut/autoeditor/errors"
	"github.com/vibecut/autoeditor/internal/domain/repositories"
)

// Flag exposes admin feature-flag toggles
type Flag struct {
	flags  repositories.FlagRepository
	logger *zap.Logger
}

// NewFlagHandler creates a new flag handler
func NewFlagHandler(flags repositories.FlagRepository, logger *zap.Logger) *Flag {
	return &Flag{flags: flags, logger: logger}
}

type flagValue struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// Get reads one flag, defaulting to false when unset
func (h *Flag) Get(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return RespondAppError(c, errors.ErrInvalidArgument("flag key required"))
	}

	value, err := h.flags.GetBool(c.Request().Context(), key, false)
	if err != nil {
		return RespondAppError(c, errors.ErrCacheFailed("read flag", err))
	}
	return c.JSON(http.StatusOK, flagValue{Key: key, Value: value})
}

// Set writes one flag
func (h *Flag) Set(c echo.Context) error {
	key := c.Param("key")
	if key == "" {
		return RespondAppError(c, errors.ErrInvalidArgument("flag key required"))
	}

	var body struct {
		Value bool `json:"value"`
	}
	if err := c.Bind(&body); err != nil {
		return RespondAppError(c, errors.ErrInvalidArgument("malformed request body"))
	}

	if err := h.flags.SetBool(c.Request().Context(), key, body.Value); err != nil {
		return RespondAppError(c, errors.ErrCacheFailed("write flag", err))
	}

	if h.logger != nil {
		h.logger.Info("🚩 flag updated", zap.String("key", key), zap.Bool("value", body.Value))
	}
	return c.JSON(http.StatusOK, flagValue{Key: key, Value: body.Value})
}
