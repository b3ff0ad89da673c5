package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/pkg/utils"
	"github.com/track-synthesizer/internal/usecase"
	"github.com/track-synthesizer/internal/usecase/dto"
)

// SegmentHandler - подъемы и таблицы лидеров
type SegmentHandler struct {
	scenarioUC *usecase.ScenarioUseCase
	trackUC    *usecase.TrackUseCase
	logger     *zap.Logger
}

// NewSegmentHandler создает новый экземпляр SegmentHandler
func NewSegmentHandler(scenarioUC *usecase.ScenarioUseCase, trackUC *usecase.TrackUseCase, logger *zap.Logger) *SegmentHandler {
	return &SegmentHandler{
		scenarioUC: scenarioUC,
		trackUC:    trackUC,
		logger:     logger,
	}
}

// DetectClimbs godoc
// @Summary Detect climbs
// @Description Находит категорийные подъемы в переданном треке
// @Tags Segments
// @Accept json
// @Produce json
// @Param request body dto.ClimbDetectionRequest true "Точки трека с высотой"
// @Success 200 {object} utils.SuccessResponse{data=dto.ClimbDetectionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/segments/climbs [post]
func (h *SegmentHandler) DetectClimbs(c *fiber.Ctx) error {
	var req dto.ClimbDetectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": err.Error(),
		}))
	}

	result, err := h.trackUC.DetectClimbs(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// Leaderboard godoc
// @Summary Segment leaderboard
// @Description Лучшая попытка каждого пользователя, по возрастанию времени
// @Tags Segments
// @Produce json
// @Param id path string true "ID сегмента"
// @Param limit query int false "Количество строк (1-100)"
// @Success 200 {object} utils.SuccessResponse{data=dto.LeaderboardResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/segments/{id}/leaderboard [get]
func (h *SegmentHandler) Leaderboard(c *fiber.Ctx) error {
	req := dto.LeaderboardRequest{
		SegmentID: c.Params("id"),
		Limit:     c.QueryInt("limit", 10),
	}

	result, err := h.scenarioUC.Leaderboard(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: len(result.Entries)})
}
