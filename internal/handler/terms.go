package handler

import (
	"net/http"

	"fertilabel/internal/dto"
	"fertilabel/internal/service"

	"github.com/gin-gonic/gin"
)

type TermsHandler struct{ svc service.TermService }

func NewTermsHandler(svc service.TermService) *TermsHandler { return &TermsHandler{svc: svc} }

// Save godoc
// @Summary Registra o termo de retirada de lacres e etiquetas
// @Tags terms
// @Accept json
// @Produce json
// @Param body body dto.WithdrawalTermRequest true "Termo"
// @Success 201 {object} dto.GenerationRecordResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/terms [post]
func (h *TermsHandler) Save(c *gin.Context) {
	var req dto.WithdrawalTermRequest
	if !bindAndValidate(c, &req) {
		return
	}
	rec, err := h.svc.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Render returns the withdrawal-term PDF stored on a history record.
func (h *TermsHandler) Render(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pdf, err := h.svc.Render(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, "termo-"+id.String()+".pdf", pdf)
}
