package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/docflow/internal/common"
	"github.com/gin-gonic/gin"
)

var kindStatus = map[error]int{
	common.ErrorBadRequest:   http.StatusBadRequest,
	common.ErrorUnauthorized: http.StatusUnauthorized,
	common.ErrorForbidden:    http.StatusForbidden,
	common.ErrorNotFound:     http.StatusNotFound,
	common.ErrorConflict:     http.StatusConflict,
	common.ErrorInternal:     http.StatusInternalServerError,
}

func statusFor(err error) int {
	if errors.Is(err, common.ErrUnsupportedMediaType) {
		return http.StatusUnsupportedMediaType
	}
	return kindStatus[common.Kind(err)]
}

// detail is the client-facing message: the error text without its kind
// prefix. Internal errors are not described.
func detail(err error) string {
	kind := common.Kind(err)
	if kind == common.ErrorInternal {
		return "internal server error"
	}
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

// fail writes err as a JSON error response and logs it.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	} else {
		s.logger.Debug(c.Request.Context(), "request rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail(err)})
}

func badRequest(msg string, cause error) error {
	return common.Wrap(common.ErrorBadRequest, msg, cause)
}
