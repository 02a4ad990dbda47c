package server

import (
	"errors"
	"fmt"
	"net/http"

	"signal-metrics/internal/analysis"
	"signal-metrics/internal/calculator"
	"signal-metrics/internal/render"

	"github.com/gin-gonic/gin"
)

func datasetNotFound(id string) error {
	return fmt.Errorf("dataset %q: %w", id, ErrNotFound)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrWorkspaceFull):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, calculator.ErrMissingField),
		errors.Is(err, calculator.ErrInvalidCoordinate),
		errors.Is(err, calculator.ErrEmptyOverlap),
		errors.Is(err, calculator.ErrDegenerateStatistic),
		errors.Is(err, calculator.ErrEmptyTable),
		errors.Is(err, calculator.ErrInsufficientData),
		errors.Is(err, calculator.ErrLengthMismatch),
		errors.Is(err, render.ErrNothingToPlot):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
}
