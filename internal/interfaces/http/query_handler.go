package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/retrieval"
	"github.com/nurudeen19/rag-fortress/internal/application/usecase"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
)

// QueryHandler the question answering endpoint.
type QueryHandler struct {
	pipeline *retrieval.Pipeline
	recorder *usecase.ActivityRecorder
}

// NewQueryHandler builds the handler.
func NewQueryHandler(pipeline *retrieval.Pipeline, recorder *usecase.ActivityRecorder) *QueryHandler {
	return &QueryHandler{pipeline: pipeline, recorder: recorder}
}

// Ask godoc
// @Summary      Answer a question over the document base
// @Tags         query
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QueryRequest  true  "question, optional top_k"
// @Success      200  {object}  dto.QueryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /v1/query [post]
func (h *QueryHandler) Ask(c *fiber.Ctx) error {
	var in dto.QueryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	out, err := h.pipeline.Answer(c.UserContext(), GetClearance(c), in)
	if err != nil {
		return fail(c, err)
	}
	h.recorder.Record(GetUserID(c), entity.ActionQueryAnswered, "query", "", map[string]string{
		"strategy": out.Strategy,
	})
	return c.JSON(out)
}
