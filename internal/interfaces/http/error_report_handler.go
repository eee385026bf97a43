package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
)

// ErrorReportHandler filing and triage of problem reports.
type ErrorReportHandler struct {
	uc *usecase.ErrorReportUseCase
}

// NewErrorReportHandler builds the handler.
func NewErrorReportHandler(uc *usecase.ErrorReportUseCase) *ErrorReportHandler {
	return &ErrorReportHandler{uc: uc}
}

// Create godoc
// @Summary      File an error report
// @Tags         error-reports
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateErrorReportRequest  true  "message, optional context"
// @Success      201  {object}  dto.ErrorReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /v1/error-reports [post]
func (h *ErrorReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateErrorReportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMine godoc
// @Summary      List the caller's reports
// @Tags         error-reports
// @Produce      json
// @Success      200  {object}  dto.ErrorReportListResponse
// @Router       /v1/error-reports [get]
func (h *ErrorReportHandler) ListMine(c *fiber.Ctx) error {
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
// @Summary      List reports by status (admin)
// @Tags         error-reports
// @Produce      json
// @Param        status  query  string  false  "open, triaged or resolved (default open)"
// @Success      200  {object}  dto.ErrorReportListResponse
// @Router       /v1/admin/error-reports [get]
func (h *ErrorReportHandler) ListByStatus(c *fiber.Ctx) error {
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

// UpdateStatus godoc
// @Summary      Triage or resolve a report (admin)
// @Tags         error-reports
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "report id"
// @Param        body  body  dto.UpdateErrorReportRequest  true  "new status"
// @Success      200  {object}  dto.ErrorReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /v1/admin/error-reports/{id} [patch]
func (h *ErrorReportHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateErrorReportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
