package handler

import (
	"context"
	"errors"
	"net/http"

	"aurora-server/synthetic-generator/internal/config"
	"aurora-server/synthetic-generator/internal/model"
	"aurora-server/synthetic-generator/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Batch size applied when the request omits count.
const defaultBatchSize = 5

// BatchRunner abstracts the orchestrator for the HTTP layer.
type BatchRunner interface {
	Run(ctx context.Context, count int, opts service.Options) (*model.BatchResult, error)
}

type AdminHandler struct {
	creator BatchRunner
	cfg     *config.Config
	logger  *zap.Logger
}

func NewAdminHandler(creator BatchRunner, cfg *config.Config, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		creator: creator,
		cfg:     cfg,
		logger:  logger.Named("AdminHandler"),
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.Engine) {
	adminGroup := router.Group("/admin")
	{
		adminGroup.POST("/synthetic-users", h.createSyntheticUsers)
	}
}

type createSyntheticUsersRequest struct {
	Count int `json:"count"`
	// Pointer so an omitted field is distinguishable from an explicit false:
	// image generation defaults to on and the creator falls back by itself
	// when no provider is configured.
	GenerateImages *bool `json:"generateImages"`
}

type createdUserResponse struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	PostsCreated int    `json:"postsCreated"`
}

type batchErrorResponse struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// @Summary Create synthetic users
// @Description Generates a batch of AI-driven synthetic users with posts
// @Tags admin
// @Accept json
// @Produce json
// @Param request body createSyntheticUsersRequest true "Batch parameters"
// @Success 200 {object} map[string]interface{} "Batch result"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /admin/synthetic-users [post]
func (h *AdminHandler) createSyntheticUsers(c *gin.Context) {
	var req createSyntheticUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data: " + err.Error(),
		})
		return
	}

	count := req.Count
	if count == 0 {
		count = defaultBatchSize
	}
	generateImages := true
	if req.GenerateImages != nil {
		generateImages = *req.GenerateImages
	}
	if count < h.cfg.MinBatchSize {
		count = h.cfg.MinBatchSize
	}
	if count > h.cfg.MaxBatchSize {
		count = h.cfg.MaxBatchSize
	}

	h.logger.Info("Synthetic user batch requested",
		zap.Int("count", count),
		zap.Bool("generateImages", generateImages))

	// Per-request collector so the admin UI can show the full progress log.
	collector := &service.CollectorSink{}
	result, err := h.creator.Run(c.Request.Context(), count, service.Options{
		GenerateImages: generateImages,
		Progress:       collector,
	})
	if err != nil {
		// Only cancellation reaches here; item failures live in result.Errors.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn("Synthetic user batch interrupted", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusRequestTimeout, gin.H{
				"success": false,
				"error":   "batch interrupted: " + err.Error(),
				"created": len(result.Created),
				"logs":    collector.Lines(),
			})
			return
		}
		h.logger.Error("Synthetic user batch failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	users := make([]createdUserResponse, 0, len(result.Created))
	for _, created := range result.Created {
		users = append(users, createdUserResponse{
			UserID:       created.UserID.String(),
			Username:     created.Username,
			PostsCreated: created.PostsCreated,
		})
	}
	errorDetails := make([]batchErrorResponse, 0, len(result.Errors))
	for _, itemErr := range result.Errors {
		errorDetails = append(errorDetails, batchErrorResponse{
			Index: itemErr.Index,
			Error: itemErr.Error,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"created":      len(result.Created),
		"errors":       len(result.Errors),
		"users":        users,
		"errorDetails": errorDetails,
		"logs":         collector.Lines(),
	})
}
