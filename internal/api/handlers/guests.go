package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dinner-planner/internal/pkg/common"
	"dinner-planner/internal/store"
)

// GuestHandler serves invitations, RSVPs, and plus-ones. Guests are keyed by
// UUID so the ID doubles as an unguessable invite link.
type GuestHandler struct {
	guests store.GuestRepository
}

// NewGuestHandler creates a GuestHandler.
func NewGuestHandler(guests store.GuestRepository) *GuestHandler {
	return &GuestHandler{guests: guests}
}

func guestID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "invalid guest id",
		})
		return uuid.Nil, false
	}
	return id, true
}

type guestNameRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// Create invites a guest. The returned ID is the invite link token.
func (h *GuestHandler) Create(c *gin.Context) {
	var req guestNameRequest
	if !bindJSON(c, &req) {
		return
	}
	guest, err := h.guests.Create(c.Request.Context(), req.FirstName, req.LastName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guest)
}

// Get resolves an invite link to its guest, including any plus-ones.
func (h *GuestHandler) Get(c *gin.Context) {
	id, ok := guestID(c)
	if !ok {
		return
	}
	guest, err := h.guests.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	plusOnes, err := h.guests.PlusOnes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"guest":     guest,
		"plus_ones": plusOnes,
	})
}

func (h *GuestHandler) List(c *gin.Context) {
	guests, err := h.guests.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guests": guests})
}

// RSVP records attendance. Calling it again keeps the first timestamp.
func (h *GuestHandler) RSVP(c *gin.Context) {
	id, ok := guestID(c)
	if !ok {
		return
	}
	guest, err := h.guests.RSVP(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, guest)
}

// AddPlusOne registers a companion for an invited guest.
func (h *GuestHandler) AddPlusOne(c *gin.Context) {
	id, ok := guestID(c)
	if !ok {
		return
	}
	var req guestNameRequest
	if !bindJSON(c, &req) {
		return
	}
	plusOne, err := h.guests.AddPlusOne(c.Request.Context(), id, req.FirstName, req.LastName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plusOne)
}

func (h *GuestHandler) Delete(c *gin.Context) {
	id, ok := guestID(c)
	if !ok {
		return
	}
	if err := h.guests.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
