package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dinner-planner/internal/pkg/common"
	"dinner-planner/internal/store"
)

// ChatHandler serves the event chat board. Clients poll with ?since_id= to
// fetch only messages they have not seen yet.
type ChatHandler struct {
	chat store.ChatRepository
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chat store.ChatRepository) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type postMessageRequest struct {
	GuestID string `json:"guest_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Post(c *gin.Context) {
	var req postMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	guestID, err := uuid.Parse(req.GuestID)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid guest id",
		})
		return
	}

	message, err := h.chat.Post(c.Request.Context(), guestID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *ChatHandler) List(c *gin.Context) {
	sinceID, _ := strconv.ParseInt(c.DefaultQuery("since_id", "0"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	messages, err := h.chat.ListSince(c.Request.Context(), sinceID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *ChatHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.chat.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
