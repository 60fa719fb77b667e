package handler

import (
	"fmt"
	"net/http"

	"fertilabel/internal/apierror"
	"fertilabel/internal/dto"
	"fertilabel/internal/service"

	"github.com/gin-gonic/gin"
)

type LabelsHandler struct{ svc service.LabelService }

func NewLabelsHandler(svc service.LabelService) *LabelsHandler { return &LabelsHandler{svc: svc} }

// Suggest returns the advisory label count for a client and tonnage.
func (h *LabelsHandler) Suggest(c *gin.Context) {
	var q dto.SuggestLabelsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.svc.Suggest(q.Client, q.Tonelada, q.Previous))
}

// Print godoc
// @Summary Gera as etiquetas em PDF
// @Tags labels
// @Accept json
// @Produce application/pdf
// @Param body body dto.PrintLabelsRequest true "Sessão de etiquetas"
// @Failure 422 {object} apierror.APIError
// @Router /v1/labels/print [post]
func (h *LabelsHandler) Print(c *gin.Context) {
	var req dto.PrintLabelsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pdf, err := h.svc.Print(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, fmt.Sprintf("etiquetas-%s.pdf", req.Session.Lote), pdf)
}

func (h *LabelsHandler) Reprint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pdf, err := h.svc.Reprint(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, "etiquetas-"+id.String()+".pdf", pdf)
}
