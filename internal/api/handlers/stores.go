package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/store"
)

// StoreHandler serves grocery store CRUD.
type StoreHandler struct {
	stores store.StoreRepository
}

// NewStoreHandler creates a StoreHandler.
func NewStoreHandler(stores store.StoreRepository) *StoreHandler {
	return &StoreHandler{stores: stores}
}

type storeRequest struct {
	Name string `json:"name"`
}

func (h *StoreHandler) Create(c *gin.Context) {
	var req storeRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.stores.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *StoreHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.stores.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.stores.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req storeRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.stores.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *StoreHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.stores.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
