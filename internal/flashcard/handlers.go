package flashcard

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
	return &Handler{service: service, logger: log.WithComponent("flashcard-handler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/flashcard", h.Generate)
	rg.GET("/flashcard/:id", h.Get)
	rg.GET("/flashcard/:id/export", h.Export)
}

// GenerateResponse is returned by POST /flashcard. RedirectTo is only
// set when persistence produced an ID.
type GenerateResponse struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Flashcards  []Flashcard  `json:"flashcards"`
	GeneratedAt time.Time    `json:"generatedAt"`
	RedirectTo  string       `json:"redirect_to,omitempty"`
	Fallback    bool         `json:"fallback,omitempty"`
	Quota       quota.Status `json:"quota"`
}

func (h *Handler) Generate(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	result, err := h.service.Generate(c.Request.Context(), userID)
	if err != nil {
		generation.AbortWithError(c, err)
		return
	}

	resp := GenerateResponse{
		ID:          result.ID,
		Title:       result.Deck.Title,
		Flashcards:  result.Deck.Flashcards,
		GeneratedAt: result.Deck.GeneratedAt,
		Fallback:    result.Fallback,
		Quota:       result.Quota,
	}
	if result.ID != "" {
		resp.RedirectTo = "/flashcard/view/" + result.ID
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	deck, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if artifacts.IsNotFound(err) {
			apierrors.AbortWithNotFound(c, "Flashcard set not found.")
			return
		}
		apierrors.AbortWithInternal(c, "Failed to load flashcards.", nil)
		return
	}

	c.JSON(http.StatusOK, deck)
}

// Export streams the deck as a CSV download. A pure transform of saved
// data; it never touches the backend or the quota.
func (h *Handler) Export(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	deck, err := h.service.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if artifacts.IsNotFound(err) {
			apierrors.AbortWithNotFound(c, "Flashcard set not found.")
			return
		}
		apierrors.AbortWithInternal(c, "Failed to load flashcards.", nil)
		return
	}

	metrics.ExportsTotal.WithLabelValues(Feature, "csv").Inc()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(deck.Title)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", CSV(deck.Flashcards))
}
