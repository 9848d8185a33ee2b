package summary

import (
	"net/http"
	"time"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/artifacts"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/auth"
	apierrors "github.com/Mitesh-V-Chauhan/ElevateEd/internal/errors"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/generation"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/quota"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log.WithComponent("summary-handler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summarize", h.Generate)
	rg.GET("/summary/:id", h.Get)
}

// GenerateResponse is returned by POST /summarize.
type GenerateResponse struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title,omitempty"`
	Summary     []string     `json:"summary"`
	Length      string       `json:"length"`
	Format      string       `json:"format"`
	Language    string       `json:"language"`
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

	// The body is optional; defaults are medium length, paragraph format.
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
		Title:       result.Summary.Title,
		Summary:     result.Summary.Segments,
		Length:      result.Summary.Length,
		Format:      result.Summary.Format,
		Language:    result.Summary.Language,
		GeneratedAt: result.Summary.GeneratedAt,
		Quota:       result.Quota,
	}
	if result.ID != "" {
		resp.RedirectTo = "/summary/view/" + result.ID
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	artifact, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if artifacts.IsNotFound(err) {
			apierrors.AbortWithNotFound(c, "Summary not found.")
			return
		}
		apierrors.AbortWithInternal(c, "Failed to load summary.", nil)
		return
	}

	c.JSON(http.StatusOK, artifact)
}
