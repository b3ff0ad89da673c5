package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/track-synthesizer/internal/pkg/errors"
	"github.com/track-synthesizer/internal/pkg/utils"
	"github.com/track-synthesizer/internal/usecase"
	"github.com/track-synthesizer/internal/usecase/dto"
)

// ScenarioHandler обрабатывает запросы генерации сценариев
type ScenarioHandler struct {
	scenarioUC *usecase.ScenarioUseCase
	logger     *zap.Logger
}

// NewScenarioHandler создает новый экземпляр ScenarioHandler
func NewScenarioHandler(scenarioUC *usecase.ScenarioUseCase, logger *zap.Logger) *ScenarioHandler {
	return &ScenarioHandler{
		scenarioUC: scenarioUC,
		logger:     logger,
	}
}

// Generate godoc
// @Summary Generate scenario
// @Description Генерирует пользователей, активности, сегменты и попытки. Пустые поля берутся из настроек генератора.
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param request body dto.GenerateScenarioRequest true "Параметры сценария"
// @Success 201 {object} utils.SuccessResponse{data=dto.ScenarioResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/scenarios [post]
func (h *ScenarioHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateScenarioRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": err.Error(),
		}))
	}

	result, err := h.scenarioUC.Generate(c.Context(), req)
	if err != nil {
		h.logger.Debug("Scenario generation rejected", zap.Error(err))
		return utils.SendError(c, err)
	}

	if result.Cached {
		return utils.SendSuccess(c, result, nil)
	}
	return utils.SendCreated(c, result, nil)
}

// GetSummary godoc
// @Summary Get scenario summary
// @Tags Scenarios
// @Produce json
// @Param key path string true "Ключ сценария"
// @Success 200 {object} utils.SuccessResponse{data=domain.ScenarioSummary}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/scenarios/{key} [get]
func (h *ScenarioHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.scenarioUC.GetSummary(c.Context(), c.Params("key"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, summary, nil)
}

// ListSegments godoc
// @Summary List scenario segments
// @Description Сегменты сохраненного сценария в порядке создания, без геометрии
// @Tags Scenarios
// @Produce json
// @Param key path string true "Ключ сценария"
// @Success 200 {object} utils.SuccessResponse{data=dto.SegmentListResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/scenarios/{key}/segments [get]
func (h *ScenarioHandler) ListSegments(c *fiber.Ctx) error {
	result, err := h.scenarioUC.ListSegments(c.Context(), c.Params("key"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Total})
}

// Delete godoc
// @Summary Delete scenario
// @Tags Scenarios
// @Param key path string true "Ключ сценария"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/scenarios/{key} [delete]
func (h *ScenarioHandler) Delete(c *fiber.Ctx) error {
	if err := h.scenarioUC.Delete(c.Context(), c.Params("key")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
