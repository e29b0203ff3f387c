package http

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/open-builders/giveaway-engine/internal/common/errors"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/eligibility"
	"github.com/open-builders/giveaway-engine/internal/features/giveaway/models"
	giveawayservice "github.com/open-builders/giveaway-engine/internal/features/giveaway/service"
)

// GiveawayService is the command surface used by the handlers.
type GiveawayService interface {
	CreateGiveaway(ctx context.Context, cfg models.GiveawayConfig) (string, error)
	ViewInfo(id string) (models.Summary, error)
	Join(ctx context.Context, id string, p models.ParticipantID) (eligibility.Result, error)
	Claim(ctx context.Context, id string, p models.ParticipantID) (bool, error)
	ClaimAll(ctx context.Context, p models.ParticipantID) ([]string, error)
	ListUnclaimed() []models.Summary
	Stats() giveawayservice.Stats
}

type GiveawayHandler struct {
	service GiveawayService
}

func NewGiveawayHandler(service GiveawayService) *GiveawayHandler {
	return &GiveawayHandler{service: service}
}

// RegisterRoutes mounts the giveaway endpoints. The router group must
// already authenticate callers; requireAdmin guards operator endpoints.
func (h *GiveawayHandler) RegisterRoutes(router *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	giveaways := router.Group("/giveaways")
	{
		giveaways.POST("", requireAdmin, h.create)
		giveaways.GET("/unclaimed", requireAdmin, h.listUnclaimed)
		giveaways.GET("/stats", requireAdmin, h.stats)
		giveaways.POST("/claim", h.claimAll)
		giveaways.GET("/:id", h.getByID)
		giveaways.POST("/:id/join", h.join)
		giveaways.POST("/:id/claim", h.claim)
	}
}

// CreateGiveawayRequest is the body of POST /giveaways.
type CreateGiveawayRequest struct {
	Name        string `json:"name" binding:"required"`
	Prize       string `json:"prize" binding:"required"`
	WinnerCount int    `json:"winner_count"`
	// Duration in seconds.
	Duration   int64             `json:"duration"`
	Gating     json.RawMessage   `json:"gating" swaggertype:"object"`
	Appearance models.Appearance `json:"appearance"`
}

type CreateGiveawayResponse struct {
	ID       string         `json:"id"`
	Giveaway models.Summary `json:"giveaway"`
}

type JoinResponse struct {
	GiveawayID string `json:"giveaway_id"`
	Entries    int    `json:"entries"`
}

type ClaimResponse struct {
	GiveawayID string `json:"giveaway_id"`
	Claimed    bool   `json:"claimed"`
}

// largest duration in seconds that fits time.Duration
const maxDurationSeconds = math.MaxInt64 / int64(time.Second)

type ClaimAllResponse struct {
	Claimed []string `json:"claimed"`
}

// @Summary Create a giveaway
// @Description Validates the configuration, activates the giveaway and announces it. Admin only.
// @Tags giveaways
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body CreateGiveawayRequest true "Giveaway configuration"
// @Success 201 {object} CreateGiveawayResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid configuration"
// @Failure 403 {object} middleware.ErrorResponse "Not an admin"
// @Router /giveaways [post]
func (h *GiveawayHandler) create(c *gin.Context) {
	host, ok := participant(c)
	if !ok {
		return
	}

	var input CreateGiveawayRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", err.Error()))
		return
	}
	if input.Duration <= 0 || input.Duration > maxDurationSeconds {
		_ = c.Error(apperrors.NewConfigurationError("duration", "must be between 1 and 9223372036 seconds"))
		return
	}
	gating, err := models.ParseGatingRules(input.Gating)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := h.service.CreateGiveaway(c.Request.Context(), models.GiveawayConfig{
		Name:        input.Name,
		Prize:       input.Prize,
		HostID:      host,
		Duration:    time.Duration(input.Duration) * time.Second,
		WinnerCount: input.WinnerCount,
		Gating:      gating,
		Appearance:  input.Appearance,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	summary, err := h.service.ViewInfo(id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, CreateGiveawayResponse{ID: id, Giveaway: summary})
}

// @Summary Get a giveaway
// @Tags giveaways
// @Produce json
// @Security TelegramInitData
// @Param id path string true "Giveaway ID"
// @Success 200 {object} models.Summary
// @Failure 404 {object} middleware.ErrorResponse
// @Router /giveaways/{id} [get]
func (h *GiveawayHandler) getByID(c *gin.Context) {
	summary, err := h.service.ViewInfo(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Join a giveaway
// @Description Checks role and level gates and records the caller's entries.
// @Tags giveaways
// @Produce json
// @Security TelegramInitData
// @Param id path string true "Giveaway ID"
// @Success 200 {object} JoinResponse
// @Failure 403 {object} middleware.ErrorResponse "Not eligible; details.reason is missing_role or level_too_low"
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 410 {object} middleware.ErrorResponse "Giveaway has ended"
// @Router /giveaways/{id}/join [post]
func (h *GiveawayHandler) join(c *gin.Context) {
	p, ok := participant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	result, err := h.service.Join(c.Request.Context(), id, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, JoinResponse{GiveawayID: id, Entries: result.Entry.Weight})
}

// @Summary Claim a prize
// @Description Idempotent; claiming twice succeeds.
// @Tags giveaways
// @Produce json
// @Security TelegramInitData
// @Param id path string true "Giveaway ID"
// @Success 200 {object} ClaimResponse
// @Failure 403 {object} middleware.ErrorResponse "Not a winner"
// @Failure 409 {object} middleware.ErrorResponse "Giveaway has not ended"
// @Router /giveaways/{id}/claim [post]
func (h *GiveawayHandler) claim(c *gin.Context) {
	p, ok := participant(c)
	if !ok {
		return
	}
	id := c.Param("id")
	claimed, err := h.service.Claim(c.Request.Context(), id, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ClaimResponse{GiveawayID: id, Claimed: claimed})
}

// @Summary Claim all prizes
// @Description Claims every prize the caller won and has not claimed yet.
// @Tags giveaways
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} ClaimAllResponse
// @Router /giveaways/claim [post]
func (h *GiveawayHandler) claimAll(c *gin.Context) {
	p, ok := participant(c)
	if !ok {
		return
	}
	claimed, err := h.service.ClaimAll(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ClaimAllResponse{Claimed: claimed})
}

// @Summary List giveaways with unclaimed prizes
// @Tags giveaways
// @Produce json
// @Security TelegramInitData
// @Success 200 {array} models.Summary
// @Router /giveaways/unclaimed [get]
func (h *GiveawayHandler) listUnclaimed(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ListUnclaimed())
}

// @Summary Giveaway counters
// @Tags giveaways
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} service.Stats
// @Router /giveaways/stats [get]
func (h *GiveawayHandler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Stats())
}
