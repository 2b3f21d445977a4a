package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folio-org/edge-common-sub000/internal/observability"
	"github.com/folio-org/edge-common-sub000/internal/okapi"
)

// relay copies the backend response to the caller verbatim: status code,
// content type and the fully buffered body.
func relay(c *gin.Context, resp *okapi.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}

// relayError classifies a failure from the backend call itself: a
// timeout gets its own outcome, anything else is a server error logged
// with full detail but reported generically.
func relayError(c *gin.Context, err error, logger observability.Logger) {
	if okapi.IsTimeout(err) {
		logger.Warn("backend request timed out", observability.Error(err))
		requestTimeout(c)
		return
	}
	logger.Error("backend request failed", observability.Error(err))
	internalServerError(c)
}

func accessDenied(c *gin.Context, msg string) {
	c.String(http.StatusUnauthorized, msg)
}

func badRequest(c *gin.Context, msg string) {
	c.String(http.StatusBadRequest, msg)
}

func requestTimeout(c *gin.Context) {
	c.String(http.StatusRequestTimeout, "Request to backend timed out")
}

func internalServerError(c *gin.Context) {
	c.String(http.StatusInternalServerError, "Internal Server Error")
}
