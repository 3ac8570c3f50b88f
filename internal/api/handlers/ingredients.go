package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dinner-planner/internal/core/parser"
	"dinner-planner/internal/pkg/common"
	"dinner-planner/internal/store"
)

// IngredientHandler serves ingredient CRUD, dish attachment, and LLM parsing.
type IngredientHandler struct {
	ingredients store.IngredientRepository
	parser      *parser.Service
}

// NewIngredientHandler creates an IngredientHandler.
func NewIngredientHandler(ingredients store.IngredientRepository, parserSvc *parser.Service) *IngredientHandler {
	return &IngredientHandler{
		ingredients: ingredients,
		parser:      parserSvc,
	}
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var input store.IngredientInput
	if !bindJSON(c, &input) {
		return
	}
	ing, err := h.ingredients.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ing, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) List(c *gin.Context) {
	ingredients, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *IngredientHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input store.IngredientInput
	if !bindJSON(c, &input) {
		return
	}
	ing, err := h.ingredients.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

type purchasedRequest struct {
	Purchased bool `json:"purchased"`
}

// SetPurchased marks an ingredient as already bought so list generation
// leaves it out.
func (h *IngredientHandler) SetPurchased(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req purchasedRequest
	if !bindJSON(c, &req) {
		return
	}
	ing, err := h.ingredients.SetPurchased(c.Request.Context(), id, req.Purchased)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

func (h *IngredientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ingredients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *IngredientHandler) AddInstance(c *gin.Context) {
	var input store.InstanceInput
	if !bindJSON(c, &input) {
		return
	}
	inst, err := h.ingredients.AddInstance(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inst)
}

func (h *IngredientHandler) DeleteInstance(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.ingredients.DeleteInstance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type parseRequest struct {
	Text string `json:"text"`
}

// Parse runs natural language ingredient text through the LLM and returns
// structured ingredients, matched against the existing catalog.
func (h *IngredientHandler) Parse(c *gin.Context) {
	var req parseRequest
	if !bindJSON(c, &req) {
		return
	}

	existing, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	known := make([]parser.ExistingIngredient, 0, len(existing))
	for _, ing := range existing {
		known = append(known, parser.ExistingIngredient{
			ID:   ing.ID,
			Name: ing.Name,
			Unit: ing.Unit,
		})
	}

	ctx := common.WithRequestID(c.Request.Context(), c.GetHeader("X-Request-ID"))
	parsed, err := h.parser.Parse(ctx, req.Text, known)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": parsed})
}
