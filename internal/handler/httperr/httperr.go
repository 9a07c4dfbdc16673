package httperr

import (
	"net/http"

	"checkout-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// StatusClientClosedRequest is the non-standard status for a caller that went away.
const StatusClientClosedRequest = 499

var statusByCode = map[errs.Code]int{
	errs.CodeUnauthorized:         http.StatusUnauthorized,
	errs.CodeForbidden:            http.StatusForbidden,
	errs.CodeNotFound:             http.StatusNotFound,
	errs.CodeCartNotFound:         http.StatusNotFound,
	errs.CodeConflictBusy:         http.StatusConflict,
	errs.CodeConflictKeyReused:    http.StatusConflict,
	errs.CodeInventoryUnavailable: http.StatusConflict,
	errs.CodeValidationFailed:     http.StatusUnprocessableEntity,
	errs.CodeCartEmpty:            http.StatusUnprocessableEntity,
	errs.CodeMethodNotSupported:   http.StatusUnprocessableEntity,
	errs.CodePricingFailed:        http.StatusBadGateway,
	errs.CodeProviderFailed:       http.StatusBadGateway,
	errs.CodePersistenceFailed:    http.StatusInternalServerError,
	errs.CodeCanceled:             StatusClientClosedRequest,
	errs.CodeUnknown:              http.StatusInternalServerError,
}

func StatusOf(code errs.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = string(errs.CodeOf(err))
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps a coded error to its status. Unknown and persistence failures hide
// their message.
func Abort(c *gin.Context, err error) {
	code := errs.CodeOf(err)
	msg := errs.MessageOf(err)
	if code == errs.CodeUnknown || code == errs.CodePersistenceFailed {
		msg = "Internal server error"
	}
	AbortWithError(c, StatusOf(code), err, msg, nil)
}
