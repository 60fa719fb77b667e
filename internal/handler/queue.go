package handler

import (
	"errors"
	"fmt"
	"net/http"

	"fertilabel/internal/apierror"
	"fertilabel/internal/dto"
	"fertilabel/internal/loadorder"
	"fertilabel/internal/model"
	"fertilabel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type QueueHandler struct {
	svc         service.QueueService
	maxUploadMB int
}

func NewQueueHandler(svc service.QueueService, maxUploadMB int) *QueueHandler {
	return &QueueHandler{svc: svc, maxUploadMB: maxUploadMB}
}

// Import godoc
// @Summary Importa a ordem de carregamento (PDF) para a fila
// @Tags queue
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Ordem de carregamento em PDF"
// @Success 200 {object} dto.ImportResponse
// @Failure 422 {object} apierror.APIError
// @Failure 502 {object} apierror.ImportError
// @Router /v1/queue/import [post]
func (h *QueueHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Arquivo PDF obrigatório no campo 'file'"))
		return
	}
	if limit := int64(h.maxUploadMB) << 20; limit > 0 && fh.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New(fmt.Sprintf("Arquivo maior que %d MB", h.maxUploadMB)))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Erro ao ler PDF: "+err.Error()))
		return
	}
	defer f.Close()

	resp, err := h.svc.Import(c.Request.Context(), f, fh.Size)
	var writeErr *service.ImportWriteError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, loadorder.ErrExtraction):
		log.Warn().Err(err).Str("file", fh.Filename).Msg("queue import: unreadable PDF")
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Erro ao ler PDF: "+err.Error()))
	case errors.As(err, &writeErr):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, apierror.NewImport(
			fmt.Sprintf("Falha ao gravar a fila; %d veículo(s) gravado(s) antes do erro", writeErr.Written),
			writeErr.Written,
		))
	default:
		respondError(c, err)
	}
}

func (h *QueueHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Stream sends the whole ordered queue on connect and after every change.
func (h *QueueHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	streamSnapshots(c, func(push func([]dto.QueueItemResponse)) (service.Unsubscribe, error) {
		return h.svc.Subscribe(ctx, push)
	})
}

func (h *QueueHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateQueueStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), id, model.QueueStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QueueHandler) UpdateFlags(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateQueueFlagsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateFlags(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QueueHandler) Remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *QueueHandler) Clear(c *gin.Context) {
	n, err := h.svc.Clear(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func (h *QueueHandler) Reorder(c *gin.Context) {
	var req dto.ReorderQueueRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ids := make([]uuid.UUID, len(req.IDs))
	for i, s := range req.IDs {
		ids[i] = uuid.MustParse(s) // validated by the uuid tag
	}
	n, err := h.svc.Reorder(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *QueueHandler) Compact(c *gin.Context) {
	n, err := h.svc.Compact(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// StartLabel marks the vehicle as label_issued and returns the prefilled label form.
func (h *QueueHandler) StartLabel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.StartLabel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
