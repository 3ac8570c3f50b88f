package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/core/planner"
	"dinner-planner/internal/core/shopping"
	"dinner-planner/internal/store"
)

// ShoppingHandler serves the persisted shopping list plus the generate and
// ad hoc consolidate operations.
type ShoppingHandler struct {
	service *planner.ShoppingService
	items   store.ShoppingRepository
}

// NewShoppingHandler creates a ShoppingHandler.
func NewShoppingHandler(service *planner.ShoppingService, items store.ShoppingRepository) *ShoppingHandler {
	return &ShoppingHandler{
		service: service,
		items:   items,
	}
}

type generateRequest struct {
	planner.Options
}

// Generate rebuilds the shopping list from every unpurchased dish
// ingredient. The body is optional; it may carry defaults and a unit
// conversion toggle overriding the server configuration.
func (h *ShoppingHandler) Generate(c *gin.Context) {
	var opts *planner.Options
	if c.Request.ContentLength > 0 {
		var req generateRequest
		if !bindJSON(c, &req) {
			return
		}
		opts = &req.Options
	}

	result, saved, err := h.service.Generate(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":                saved,
		"total_rows_processed": result.TotalRowsProcessed,
		"rows_skipped":         result.RowsSkipped,
		"warnings":             result.Warnings,
		"conversions_applied":  result.ConversionsApplied,
	})
}

type consolidateRequest struct {
	planner.Options
	Rows []shopping.Row `json:"rows" binding:"required"`
}

// Consolidate runs the consolidation engine over caller-supplied rows
// without touching the persisted list. Defaults and the unit conversion
// toggle may be overridden per request.
func (h *ShoppingHandler) Consolidate(c *gin.Context) {
	var req consolidateRequest
	if !bindJSON(c, &req) {
		return
	}
	result := h.service.Consolidate(req.Rows, &req.Options)
	c.JSON(http.StatusOK, result)
}

func (h *ShoppingHandler) Create(c *gin.Context) {
	var input store.ShoppingItemInput
	if !bindJSON(c, &input) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ShoppingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ShoppingHandler) List(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ShoppingHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input store.ShoppingItemInput
	if !bindJSON(c, &input) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ToggleChecked flips the checked-off state of one list item.
func (h *ShoppingHandler) ToggleChecked(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.items.ToggleChecked(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ShoppingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear removes every item from the shopping list.
func (h *ShoppingHandler) Clear(c *gin.Context) {
	removed, err := h.items.Clear(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
