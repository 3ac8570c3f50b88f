package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/core/parser"
	"dinner-planner/internal/core/planner"
	"dinner-planner/internal/pkg/common"
)

// RecipeHandler turns free-form recipe text into dish ingredients via the
// worker pool.
type RecipeHandler struct {
	processor *planner.RecipeProcessor
}

// NewRecipeHandler creates a RecipeHandler.
func NewRecipeHandler(processor *planner.RecipeProcessor) *RecipeHandler {
	return &RecipeHandler{processor: processor}
}

type processRecipeRequest struct {
	RecipeText string `json:"recipe_text" binding:"required"`
}

type batchRecipeRequest struct {
	Recipes []struct {
		DishID     int64  `json:"dish_id" binding:"required"`
		RecipeText string `json:"recipe_text" binding:"required"`
	} `json:"recipes" binding:"required"`
}

type batchRecipeEntry struct {
	DishID      int64                     `json:"dish_id"`
	Ingredients []parser.ParsedIngredient `json:"ingredients,omitempty"`
	Created     int                       `json:"created"`
	Matched     int                       `json:"matched"`
	Error       string                    `json:"error,omitempty"`
}

// Process parses the recipe text for a dish and attaches the resulting
// ingredients to it, waiting for the job to finish.
func (h *RecipeHandler) Process(c *gin.Context) {
	dishID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req processRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := common.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-ID"))
	result, err := h.processor.Process(ctx, planner.RecipeJob{
		DishID:     dishID,
		RecipeText: req.RecipeText,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ProcessBatch enqueues every recipe and waits for all of them. One recipe
// failing does not abort the rest.
func (h *RecipeHandler) ProcessBatch(c *gin.Context) {
	var req batchRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := common.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-ID"))
	channels := make([]<-chan planner.RecipeResult, 0, len(req.Recipes))
	entries := make([]batchRecipeEntry, len(req.Recipes))
	for i, r := range req.Recipes {
		entries[i] = batchRecipeEntry{DishID: r.DishID}
		ch, err := h.processor.Enqueue(ctx, planner.RecipeJob{
			DishID:     r.DishID,
			RecipeText: r.RecipeText,
		})
		if err != nil {
			entries[i].Error = err.Error()
			channels = append(channels, nil)
			continue
		}
		channels = append(channels, ch)
	}

	for i, ch := range channels {
		if ch == nil {
			continue
		}
		select {
		case result := <-ch:
			if result.Err != nil {
				entries[i].Error = result.Err.Error()
				continue
			}
			entries[i].Ingredients = result.Ingredients
			entries[i].Created = result.Created
			entries[i].Matched = result.Matched
		case <-ctx.Done():
			entries[i].Error = ctx.Err().Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{"results": entries})
}
