package handler

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"fertilabel/internal/apierror"
	"fertilabel/internal/repository"
	"fertilabel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func init() {
	// Report fields by their JSON names so the front end can highlight them.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP responses. Unknown errors are
// attached to the context for ErrorHandler and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		fields  service.FieldErrors
		missing *service.MissingFieldsError
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.As(err, &fields):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	case errors.As(err, &missing):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(missing.Error()))
	case errors.Is(err, service.ErrNoTerm):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, apierror.New("Registro duplicado"))
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	}
}

func sendPDF(c *gin.Context, filename string, pdf []byte) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

const sseHeartbeat = 25 * time.Second

// streamSnapshots serves a live subscription as Server-Sent Events. Each
// "snapshot" event carries the whole collection; if the client falls behind
// only the newest snapshot is kept.
func streamSnapshots[T any](c *gin.Context, subscribe func(func(T)) (service.Unsubscribe, error)) {
	events := make(chan T, 1)
	push := func(snap T) {
		for {
			select {
			case events <- snap:
				return
			default:
				select {
				case <-events:
				default:
				}
			}
		}
	}

	unsub, err := subscribe(push)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierror.New("Atualização em tempo real indisponível"))
		return
	}
	defer unsub()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()
	ctx := c.Request.Context()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap := <-events:
			c.SSEvent("snapshot", snap)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})
}
