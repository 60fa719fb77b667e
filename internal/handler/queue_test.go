package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"fertilabel/internal/dto"
	"fertilabel/internal/loadorder"
	"fertilabel/internal/model"
	"fertilabel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeQueueService overrides only what the tests exercise; any other call
// panics on the nil embedded interface.
type fakeQueueService struct {
	service.QueueService
	importResp *dto.ImportResponse
	err        error
	statuses   map[uuid.UUID]model.QueueStatus
	reordered  []uuid.UUID
}

func (f *fakeQueueService) Import(context.Context, io.ReaderAt, int64) (*dto.ImportResponse, error) {
	return f.importResp, f.err
}

func (f *fakeQueueService) UpdateStatus(_ context.Context, id uuid.UUID, status model.QueueStatus) error {
	if f.err != nil {
		return f.err
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeQueueService) Reorder(_ context.Context, ids []uuid.UUID) (int, error) {
	f.reordered = ids
	return len(ids), f.err
}

func queueRouter(svc service.QueueService) *gin.Engine {
	h := NewQueueHandler(svc, 1)
	r := gin.New()
	r.POST("/v1/queue/import", h.Import)
	r.PATCH("/v1/queue/:id/status", h.UpdateStatus)
	r.POST("/v1/queue/reorder", h.Reorder)
	return r
}

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "ordem.pdf")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/queue/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestQueueImport_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		svc    *fakeQueueService
		want   int
		detail string
	}{
		{
			name: "imported",
			svc:  &fakeQueueService{importResp: &dto.ImportResponse{Outcome: dto.ImportOutcomeImported, Imported: 2}},
			want: http.StatusOK,
		},
		{
			name: "no rows is not an error",
			svc:  &fakeQueueService{importResp: &dto.ImportResponse{Outcome: dto.ImportOutcomeNoRows}},
			want: http.StatusOK,
		},
		{
			name:   "unreadable pdf",
			svc:    &fakeQueueService{err: fmt.Errorf("%w: bad xref", loadorder.ErrExtraction)},
			want:   http.StatusUnprocessableEntity,
			detail: "Erro ao ler PDF",
		},
		{
			name:   "partial write",
			svc:    &fakeQueueService{err: &service.ImportWriteError{Written: 2, Err: errors.New("conn reset")}},
			want:   http.StatusBadGateway,
			detail: "2 veículo(s) gravado(s)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			queueRouter(tc.svc).ServeHTTP(w, uploadRequest(t, "file", []byte("%PDF-1.4")))
			assert.Equal(t, tc.want, w.Code)
			if tc.detail != "" {
				assert.Contains(t, w.Body.String(), tc.detail)
			}
		})
	}
}

func TestQueueImport_PartialWriteReportsCount(t *testing.T) {
	svc := &fakeQueueService{err: &service.ImportWriteError{Written: 3, Err: errors.New("conn reset")}}
	w := httptest.NewRecorder()
	queueRouter(svc).ServeHTTP(w, uploadRequest(t, "file", []byte("%PDF-1.4")))

	var body struct {
		Written int `json:"written"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Written)
}

func TestQueueImport_MissingFile(t *testing.T) {
	w := httptest.NewRecorder()
	queueRouter(&fakeQueueService{}).ServeHTTP(w, uploadRequest(t, "other", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueImport_TooLarge(t *testing.T) {
	w := httptest.NewRecorder()
	big := bytes.Repeat([]byte("a"), 2<<20)
	queueRouter(&fakeQueueService{}).ServeHTTP(w, uploadRequest(t, "file", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestQueueUpdateStatus_Handler(t *testing.T) {
	svc := &fakeQueueService{statuses: map[uuid.UUID]model.QueueStatus{}}
	r := queueRouter(svc)
	id := uuid.New()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/v1/queue/"+id.String()+"/status",
		jsonBody(t, dto.UpdateQueueStatusRequest{Status: "completed"})))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, model.QueueCompleted, svc.statuses[id])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/v1/queue/"+id.String()+"/status",
		jsonBody(t, dto.UpdateQueueStatusRequest{Status: "shipped"})))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"oneof"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/v1/queue/not-a-uuid/status",
		jsonBody(t, dto.UpdateQueueStatusRequest{Status: "pending"})))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = service.ErrNotFound
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/v1/queue/"+id.String()+"/status",
		jsonBody(t, dto.UpdateQueueStatusRequest{Status: "pending"})))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQueueReorder_Handler(t *testing.T) {
	svc := &fakeQueueService{}
	r := queueRouter(svc)
	a, b := uuid.New(), uuid.New()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/queue/reorder",
		jsonBody(t, dto.ReorderQueueRequest{IDs: []string{b.String(), a.String()}})))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{b, a}, svc.reordered)
	assert.JSONEq(t, `{"updated":2}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/queue/reorder",
		jsonBody(t, dto.ReorderQueueRequest{IDs: []string{"x"}})))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRespondError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrProductNotFound, http.StatusNotFound},
		{service.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{service.FieldErrors{"driverName": "campo obrigatório"}, http.StatusUnprocessableEntity},
		{&service.MissingFieldsError{Fields: []string{"Lote"}}, http.StatusUnprocessableEntity},
		{service.ErrNoTerm, http.StatusConflict},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}
