package generation

import (
	stderrors "errors"
	"net/http"

	apierrors "github.com/Mitesh-V-Chauhan/ElevateEd/internal/errors"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generator"
	"github.com/gin-gonic/gin"
)

// AbortWithError maps pipeline errors onto the API error vocabulary so
// the three feature handlers respond identically.
func AbortWithError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var quotaErr *QuotaExhaustedError
	var upstreamErr *generator.UpstreamError

	switch {
	case stderrors.As(err, &validationErr):
		apierrors.AbortWithBadRequest(c, validationErr.Message, nil)
	case stderrors.Is(err, ErrBusy):
		c.AbortWithStatusJSON(http.StatusConflict,
			apierrors.NewAPIError("A generation is already in progress. Please wait for it to finish.", nil))
	case stderrors.As(err, &quotaErr):
		apierrors.AbortWithQuotaExceeded(c, apierrors.DailyGenerationLimitExceeded(quotaErr.Limit))
	case stderrors.As(err, &upstreamErr):
		apierrors.AbortWithBadGateway(c, upstreamErr.Error(), map[string]interface{}{
			"upstream_status": upstreamErr.StatusCode,
		})
	default:
		apierrors.AbortWithInternal(c, "Failed to generate content.", nil)
	}
}
