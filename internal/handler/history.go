package handler

import (
	"net/http"

	"fertilabel/internal/apierror"
	"fertilabel/internal/dto"
	"fertilabel/internal/service"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct{ svc service.HistoryService }

func NewHistoryHandler(svc service.HistoryService) *HistoryHandler { return &HistoryHandler{svc: svc} }

func (h *HistoryHandler) bindFilter(c *gin.Context) (dto.HistoryFilter, bool) {
	var f dto.HistoryFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return f, false
	}
	return f, validateStruct(c, &f)
}

// List returns the recent window filtered by ?search= and ?term=all|with|without.
func (h *HistoryHandler) List(c *gin.Context) {
	f, ok := h.bindFilter(c)
	if !ok {
		return
	}
	recs, err := h.svc.ListRecent(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *HistoryHandler) Stream(c *gin.Context) {
	f, ok := h.bindFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	streamSnapshots(c, func(push func([]dto.GenerationRecordResponse)) (service.Unsubscribe, error) {
		return h.svc.Subscribe(ctx, f, push)
	})
}

func (h *HistoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
