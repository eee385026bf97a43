package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

// ActivityHandler the admin audit trail view.
type ActivityHandler struct {
	uc *usecase.ActivityUseCase
}

// NewActivityHandler builds the handler.
func NewActivityHandler(uc *usecase.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{uc: uc}
}

// List godoc
// @Summary      List audit entries (admin)
// @Tags         activity
// @Produce      json
// @Param        actor_id     query  string  false  "filter by actor"
// @Param        entity_type  query  string  false  "filter by entity type"
// @Param        action       query  string  false  "filter by action"
// @Success      200  {object}  dto.ActivityListResponse
// @Router       /v1/admin/activity [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	filter := repository.ActivityFilter{
		ActorID:    c.Query("actor_id"),
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
	}
	out, err := h.uc.List(c.UserContext(), filter, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
