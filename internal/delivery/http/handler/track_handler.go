package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/pkg/utils"
	"github.com/track-synthesizer/internal/usecase"
	"github.com/track-synthesizer/internal/usecase/dto"
)

// TrackHandler - генерация отдельных треков
type TrackHandler struct {
	trackUC *usecase.TrackUseCase
	logger  *zap.Logger
}

// NewTrackHandler создает новый экземпляр TrackHandler
func NewTrackHandler(trackUC *usecase.TrackUseCase, logger *zap.Logger) *TrackHandler {
	return &TrackHandler{
		trackUC: trackUC,
		logger:  logger,
	}
}

// Preview godoc
// @Summary Preview track
// @Description Генерирует один трек с высотой и временем без сохранения
// @Tags Tracks
// @Accept json
// @Produce json
// @Param request body dto.TrackPreviewRequest true "Параметры трека"
// @Success 200 {object} utils.SuccessResponse{data=dto.TrackPreviewResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/tracks/preview [post]
func (h *TrackHandler) Preview(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.TrackPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": err.Error(),
		}))
	}

	result, err := h.trackUC.Preview(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.PointCount,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}
