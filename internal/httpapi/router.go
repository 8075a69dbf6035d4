// Package httpapi exposes annual stats and a health probe over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/domain"
	"github.com/kalytagleb/GitHub-Statistic-Telegram-Bot/internal/usecase"
	"go.uber.org/zap"
)

// StatsFetcher produces annual stats for a username.
type StatsFetcher interface {
	FetchAnnualStats(ctx context.Context, username string) (domain.AnnualStats, error)
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error Error `json:"error"`
}

// Error describes a failed request.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler serves the HTTP endpoints.
type Handler struct {
	Stats StatsFetcher
	Log   *zap.Logger
}

// NewRouter wires the endpoints and middleware into a gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(zapLogger(h.Log), zapRecovery(h.Log))

	r.GET("/health", h.Health)
	r.GET("/v1/users/:username/stats", h.UserStats)

	return r
}

// Health reports that the process is serving.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UserStats returns the annual stats of the user in the path.
func (h *Handler) UserStats(c *gin.Context) {
	username, err := domain.NormalizeUsername(c.Param("username"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_USERNAME", "username is not a valid github login")
		return
	}

	stats, err := h.Stats.FetchAnnualStats(c.Request.Context(), username)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, stats)
	case errors.Is(err, domain.ErrInvalidUsername):
		writeError(c, http.StatusBadRequest, "INVALID_USERNAME", "username is not a valid github login")
	case errors.Is(err, usecase.ErrUnavailable):
		h.Log.Warn("annual stats unavailable", zap.String("username", username), zap.Error(err))
		writeError(c, http.StatusBadGateway, "UNAVAILABLE", "could not fetch data, check the username or try later")
	default:
		h.Log.Error("internal error", zap.String("username", username), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, ErrorResponse{Error: Error{Code: code, Message: msg}})
}

func zapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func zapRecovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: Error{Code: "INTERNAL_ERROR", Message: "internal server error"},
				})
			}
		}()
		c.Next()
	}
}
