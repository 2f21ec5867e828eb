package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"filebulletin/internal/bulletin"
	"filebulletin/internal/delivery"
)

// BulletinRunner runs one announcement pipeline pass.
type BulletinRunner interface {
	Run(ctx context.Context, destinations []string, optionsLocation string) (*bulletin.RunResult, error)
}

// CheckpointReader exposes the current watermark for inspection.
type CheckpointReader interface {
	Last(ctx context.Context) (time.Time, bool, error)
}

// Handler wires the scheduler-facing HTTP routes to the bulletin service.
type Handler struct {
	runner      BulletinRunner
	checkpoints CheckpointReader
	apiToken    string
}

// NewHandler constructs a Handler instance.
func NewHandler(runner BulletinRunner, checkpoints CheckpointReader, apiToken string) *Handler {
	return &Handler{
		runner:      runner,
		checkpoints: checkpoints,
		apiToken:    apiToken,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.health)
	api := router.Group("/api")
	if h.apiToken != "" {
		api.Use(h.requireToken())
	}
	api.POST("/bulletin/run", h.runBulletin)
	api.GET("/bulletin/checkpoint", h.getCheckpoint)
}

// requireToken guards the trigger surface with the configured static token.
func (h *Handler) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token != h.apiToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Next()
	}
}

type runRequest struct {
	Destinations    []string `json:"destinations"`
	DestinationList string   `json:"destination_list"`
	OptionsPath     string   `json:"options_path"`
}

func (h *Handler) runBulletin(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	dests := req.Destinations
	if len(dests) == 0 && req.DestinationList != "" {
		dests = delivery.ParseDestinations(req.DestinationList)
	}

	res, err := h.runner.Run(c.Request.Context(), dests, req.OptionsPath)
	if err != nil {
		switch {
		case errors.Is(err, bulletin.ErrNotInitialized):
			c.JSON(http.StatusOK, gin.H{"status": "initialized"})
		case errors.Is(err, bulletin.ErrMissingParameter), errors.Is(err, bulletin.ErrConfig):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, bulletin.ErrDelivery):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) getCheckpoint(c *gin.Context) {
	ts, ok, err := h.checkpoints.Last(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"checkpoint": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkpoint": ts.Format(time.RFC3339Nano)})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
