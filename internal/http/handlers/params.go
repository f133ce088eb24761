package handlers

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/http/response"
)

var registerOnce sync.Once

// RegisterValidators teaches gin's validator about uuid.UUID so that
// `binding:"required"` rejects the nil UUID.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			id, ok := field.Interface().(uuid.UUID)
			if !ok || id == uuid.Nil {
				return ""
			}
			return id.String()
		}, uuid.UUID{})
	})
}

// uuidParam reads a path UUID. A malformed value cannot name an existing
// row, so it answers 404 with notFoundMsg.
func uuidParam(c *gin.Context, name, op, notFoundMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondAPIError(c, errs.NotFound(op, notFoundMsg))
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, string(errs.CodeValidation), errs.New(errs.CodeValidation, op, err.Error(), err))
		return false
	}
	return true
}
