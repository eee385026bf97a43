package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
)

// OverrideHandler clearance override requests and admin decisions.
type OverrideHandler struct {
	uc *usecase.OverrideUseCase
}

// NewOverrideHandler builds the handler.
func NewOverrideHandler(uc *usecase.OverrideUseCase) *OverrideHandler {
	return &OverrideHandler{uc: uc}
}

// Create godoc
// @Summary      Request access to a document above your clearance
// @Tags         overrides
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOverrideRequest  true  "document_id, reason"
// @Success      201  {object}  dto.OverrideResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /v1/overrides [post]
func (h *OverrideHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOverrideRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), GetClearance(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMine godoc
// @Summary      List the caller's override requests
// @Tags         overrides
// @Produce      json
// @Success      200  {object}  dto.OverrideListResponse
// @Router       /v1/overrides/my-requests [get]
func (h *OverrideHandler) ListMine(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	out, err := h.uc.ListMine(c.UserContext(), GetUserID(c), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListByStatus godoc
// @Summary      List override requests by status (admin)
// @Tags         overrides
// @Produce      json
// @Param        status  query  string  false  "pending, approved or denied (default pending)"
// @Success      200  {object}  dto.OverrideListResponse
// @Router       /v1/admin/overrides [get]
func (h *OverrideHandler) ListByStatus(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid pagination"})
	}
	out, err := h.uc.ListByStatus(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Decide godoc
// @Summary      Approve or deny a pending request (admin)
// @Tags         overrides
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "request id"
// @Param        body  body  dto.DecideOverrideRequest  true  "approve flag"
// @Success      200  {object}  dto.OverrideResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /v1/admin/overrides/{id}/decide [post]
func (h *OverrideHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecideOverrideRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	out, err := h.uc.Decide(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
