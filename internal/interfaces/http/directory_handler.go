package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
)

// DirectoryHandler departments and roles.
type DirectoryHandler struct {
	uc *usecase.DirectoryUseCase
}

// NewDirectoryHandler builds the handler.
func NewDirectoryHandler(uc *usecase.DirectoryUseCase) *DirectoryHandler {
	return &DirectoryHandler{uc: uc}
}

// ListDepartments godoc
// @Summary      List departments (public, feeds the registration form)
// @Tags         directory
// @Produce      json
// @Success      200  {array}  dto.DepartmentResponse
// @Router       /v1/departments [get]
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	out, err := h.uc.ListDepartments(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// CreateDepartment godoc
// @Summary      Add a department (admin)
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepartmentRequest  true  "name, clearance"
// @Success      201  {object}  dto.DepartmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /v1/admin/departments [post]
func (h *DirectoryHandler) CreateDepartment(c *fiber.Ctx) error {
	var in dto.CreateDepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	out, err := h.uc.CreateDepartment(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRoles godoc
// @Summary      List assignable roles (admin)
// @Tags         directory
// @Produce      json
// @Success      200  {array}  dto.RoleResponse
// @Router       /v1/admin/roles [get]
func (h *DirectoryHandler) ListRoles(c *fiber.Ctx) error {
	out, err := h.uc.ListRoles(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
