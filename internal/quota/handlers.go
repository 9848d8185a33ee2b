package quota

import (
	"net/http"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/auth"
	apierrors "github.com/Mitesh-V-Chauhan/ElevateEd/internal/errors"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log.WithComponent("quota-handler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/limits", h.Limits)
	rg.GET("/quiz/:id/submissions", h.QuizSubmissions)
}

// Limits reports the remaining daily budget for display. Uses the
// fail-open variant so a flaky store shows a full budget instead of a
// lockout banner.
func (h *Handler) Limits(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	c.JSON(http.StatusOK, h.service.CheckLimitForDisplay(c.Request.Context(), userID))
}

// QuizSubmissions reports how many attempts remain for one quiz.
func (h *Handler) QuizSubmissions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	c.JSON(http.StatusOK, h.service.CheckQuizSubmissions(c.Request.Context(), userID, c.Param("id")))
}
