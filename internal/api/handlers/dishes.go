package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/store"
)

// DishHandler serves dish CRUD and course filtering.
type DishHandler struct {
	dishes store.DishRepository
}

// NewDishHandler creates a DishHandler.
func NewDishHandler(dishes store.DishRepository) *DishHandler {
	return &DishHandler{dishes: dishes}
}

func (h *DishHandler) Create(c *gin.Context) {
	var input store.DishInput
	if !bindJSON(c, &input) {
		return
	}
	d, err := h.dishes.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DishHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := h.dishes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// List returns every dish, optionally filtered by ?course=.
func (h *DishHandler) List(c *gin.Context) {
	var (
		dishes []store.Dish
		err    error
	)
	if course := c.Query("course"); course != "" {
		dishes, err = h.dishes.ListByCourse(c.Request.Context(), store.CourseType(course))
	} else {
		dishes, err = h.dishes.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dishes": dishes})
}

func (h *DishHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input store.DishInput
	if !bindJSON(c, &input) {
		return
	}
	d, err := h.dishes.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DishHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dishes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
