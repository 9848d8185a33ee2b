package input

import (
	"net/http"

	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/auth"
	apierrors "github.com/Mitesh-V-Chauhan/ElevateEd/internal/errors"
	"github.com/Mitesh-V-Chauhan/ElevateEd/internal/logger"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	store  *Store
	logger *logger.Logger
}

func NewHandler(store *Store, log *logger.Logger) *Handler {
	return &Handler{store: store, logger: log.WithComponent("input-handler")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/input", h.Get)
	rg.PUT("/input", h.Update)
}

// UpdateRequest sets either or both fields. Absent keys keep their
// current value.
type UpdateRequest struct {
	Content  *string `json:"content"`
	Language *string `json:"language"`
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	c.JSON(http.StatusOK, h.store.Get(userID))
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		apierrors.AbortWithUnauthorized(c, "User identity is missing.")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.AbortWithBadRequest(c, "Invalid request body.", nil)
		return
	}

	state := h.store.Get(userID)
	if req.Content != nil {
		state = h.store.SetContent(userID, *req.Content)
	}
	if req.Language != nil {
		state = h.store.SetLanguage(userID, *req.Language)
	}

	c.JSON(http.StatusOK, state)
}
