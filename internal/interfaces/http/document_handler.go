package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
)

// Uploads above this size are rejected before the body is read into memory.
const maxUploadBytes = 10 << 20 // 10 MiB

// DocumentHandler upload, listing and clearance-gated reads.
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Upload godoc
// @Summary      Upload a document for ingestion
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file       formData  file    true  "UTF-8 text file"
// @Param        title      formData  string  true  "document title"
// @Param        clearance  formData  int     true  "required clearance 1-5"
// @Success      202  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /v1/files/upload [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	var in dto.UploadDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed form data"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "file field is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "TOO_LARGE", Message: "file exceeds the 10 MiB limit"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return fail(c, err)
	}

	out, err := h.uc.Upload(c.UserContext(), GetUserID(c), GetClearance(c), in, fileHeader.Filename, content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// ListMine godoc
// @Summary      List the caller's uploads
// @Tags         documents
// @Produce      json
// @Param        limit   query  int  false  "page size"
// @Param        offset  query  int  false  "page offset"
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /v1/files/list/my-uploads [get]
func (h *DocumentHandler) ListMine(c *fiber.Ctx) error {
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

// GetByID godoc
// @Summary      Read a document
// @Tags         documents
// @Produce      json
// @Param        id  path  string  true  "document id"
// @Success      200  {object}  dto.DocumentDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/files/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetUserID(c), GetClearance(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Delete a document and its chunks
// @Tags         documents
// @Param        id  path  string  true  "document id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/files/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
