package flowchart

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/artifacts"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/auth"
	apierrors "github.com/Mitesh-V-Chauhan/ElevateEd/internal/errors"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generation"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/metrics"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/quota"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log.WithComponent("flowchart-handler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/flowchart", h.Generate)
	rg.GET("/flowchart/:id", h.Get)
	rg.GET("/flowchart/:id/export", h.Export)
}

// GenerateResponse is returned by POST /flowchart.
type GenerateResponse struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Flowchart   Graph        `json:"flowchart"`
	GeneratedAt time.Time    `json:"generatedAt"`
	RedirectTo  string       `json:"redirect_to,omitempty"`
	Quota       quota.Status `json:"quota"`
}

func (h *Handler) Generate(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	// The body is optional; an empty body means no custom instructions.
	var opts Options
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&opts); err != nil {
			apierrors.AbortWithBadRequest(c, "Invalid request body.", nil)
			return
		}
	}

	result, err := h.service.Generate(c.Request.Context(), userID, opts)
	if err != nil {
		generation.AbortWithError(c, err)
		return
	}

	resp := GenerateResponse{
		ID:          result.ID,
		Title:       result.Chart.Title,
		Flowchart:   result.Chart.Flowchart,
		GeneratedAt: result.Chart.GeneratedAt,
		Quota:       result.Quota,
	}
	if result.ID != "" {
		resp.RedirectTo = "/flowchart/view/" + result.ID
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	chart, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if artifacts.IsNotFound(err) {
			apierrors.AbortWithNotFound(c, "Flowchart not found.")
			return
		}
		apierrors.AbortWithInternal(c, "Failed to load flowchart.", nil)
		return
	}

	c.JSON(http.StatusOK, chart)
}

// Export streams the chart as Graphviz DOT. A pure transform of saved
// data; it never touches the backend or the quota.
func (h *Handler) Export(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	chart, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if artifacts.IsNotFound(err) {
			apierrors.AbortWithNotFound(c, "Flowchart not found.")
			return
		}
		apierrors.AbortWithInternal(c, "Failed to load flowchart.", nil)
		return
	}

	metrics.ExportsTotal.WithLabelValues(Feature, "dot").Inc()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(chart.Title)))
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", DOT(chart.Title, chart.Flowchart))
}
