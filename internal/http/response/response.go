package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope carries the message twice: under error for our clients and
// as a flat detail string for clients written against the older API.
type ErrorEnvelope struct {
	Error  APIError `json:"error"`
	Detail string   `json:"detail,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = errs.MessageOf(err)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
		Detail: msg,
	})
}

// RespondAPIError maps err onto its HTTP status. Internal failures never leak
// their cause to the client.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.FromError(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, string(errs.CodeInternal), nil)
		return
	}
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, ae.Status, ae.Code, errs.New(errs.CodeInternal, "", "internal server error", nil))
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
