package parser

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dinner-planner/internal/core/parser/cache"
	"dinner-planner/internal/core/units"
	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
)

const systemPromptBase = `You are an expert at parsing cooking ingredient lists.
Extract ingredients from the user's input and structure them properly.

For each ingredient, determine:
- name: The NORMALIZED name of the ingredient (see rules below)
- quantity: The numeric quantity (null if not specified)
- unit: The unit of measurement. Use these canonical forms: teaspoon, tablespoon, cup, pint, quart, gallon, milliliter, liter, ounce, pound, gram, kilogram, each, head, bunch, clove, sprig, stalk, pinch, dash, can, package, slice, stick
- notes: Any additional notes (preparation, size descriptors, freshness, etc.)
- matched_ingredient_id: ID of existing ingredient if matched (see list below), or null if new

INGREDIENT NAME NORMALIZATION RULES:
1. Remove size adjectives and put them in notes: "large shallot" -> name: "shallot", notes: "large"
2. Remove freshness descriptors: "fresh rosemary" -> name: "rosemary", notes: "fresh"
3. Keep the core ingredient name simple: "shallots" and "large shallot" should both be "shallot"
4. Move preparation to notes: "garlic cloves, minced" -> name: "garlic", notes: "minced"
5. For herbs, normalize to base name: "fresh thyme leaves" -> "thyme" with specifics in notes
6. Use singular form: "tomatoes" -> "tomato"

MATCHING EXISTING INGREDIENTS:
When you find an ingredient that matches one from the existing list, set matched_ingredient_id to that ingredient's ID. Only match if the normalized name is essentially the same ingredient.

Respond with a JSON object: {"ingredients": [...]}`

// ParsedIngredient is one structured ingredient from a parse run.
// ConvertedQuantity and ConvertedUnit are set when the ingredient matched an
// existing one and its quantity could be re-expressed in that unit.
type ParsedIngredient struct {
	Name                string   `json:"name"`
	Quantity            *float64 `json:"quantity"`
	Unit                string   `json:"unit"`
	Notes               string   `json:"notes"`
	MatchedIngredientID *int64   `json:"matched_ingredient_id"`
	ConvertedQuantity   *float64 `json:"converted_quantity,omitempty"`
	ConvertedUnit       string   `json:"converted_unit,omitempty"`
}

// ExistingIngredient is a known ingredient offered to the model for matching.
type ExistingIngredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Service parses natural language ingredient text through the LLM,
// normalizes the result against the unit table, and converts quantities of
// matched ingredients to their parent's unit.
type Service struct {
	config *config.Config
	client CompletionClient
	cache  cache.Store
	table  *units.Table
}

// NewService wires the parse service. cacheStore may be nil when caching is
// disabled.
func NewService(cfg *config.Config, client CompletionClient, cacheStore cache.Store, table *units.Table) *Service {
	return &Service{
		config: cfg,
		client: client,
		cache:  cacheStore,
		table:  table,
	}
}

// Parse converts free-text ingredient input into structured ingredients.
func (s *Service) Parse(ctx context.Context, input string, existing []ExistingIngredient) ([]ParsedIngredient, error) {
	if !s.config.OpenAI.Enabled {
		return nil, common.ErrParserUnavailable
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, common.NewValidationError("ingredient text is required")
	}

	prompt := buildSystemPrompt(existing)
	content, err := s.completeWithCache(ctx, prompt, input)
	if err != nil {
		return nil, err
	}

	var result struct {
		Ingredients []ParsedIngredient `json:"ingredients"`
	}
	payload := common.ExtractJSONObject(content)
	if err := common.ParseJSON(payload, &result); err != nil {
		common.LogError("failed to parse LLM ingredient payload",
			zap.Error(err),
			zap.Int("content_length", len(content)),
		)
		return nil, fmt.Errorf("failed to parse ingredient payload: %w", err)
	}

	existingByID := make(map[int64]ExistingIngredient, len(existing))
	for _, ing := range existing {
		existingByID[ing.ID] = ing
	}

	parsed := make([]ParsedIngredient, 0, len(result.Ingredients))
	for _, ing := range result.Ingredients {
		ing.Name = strings.ToLower(strings.TrimSpace(ing.Name))
		if ing.Name == "" {
			continue
		}
		ing.Unit = s.normalizeUnit(ing.Unit)
		ing.Notes = strings.TrimSpace(ing.Notes)

		if ing.MatchedIngredientID != nil && ing.Quantity != nil {
			if parent, ok := existingByID[*ing.MatchedIngredientID]; ok && parent.Unit != ing.Unit {
				if converted, ok := s.convertQuantity(*ing.Quantity, ing.Unit, parent.Unit, ing.Name); ok {
					ing.ConvertedQuantity = &converted
					ing.ConvertedUnit = parent.Unit
				}
			}
		}
		parsed = append(parsed, ing)
	}

	return mergeDuplicates(parsed), nil
}

func (s *Service) completeWithCache(ctx context.Context, prompt, input string) (string, error) {
	cacheKey := prompt + "\x00" + input
	if s.cache != nil {
		if content, err := s.cache.Get(ctx, cacheKey); err == nil {
			return content, nil
		}
	}

	content, err := s.client.Complete(ctx, prompt, input)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, content); err != nil {
			common.LogWarn("failed to cache parse result", zap.Error(err))
		}
	}
	return content, nil
}

func buildSystemPrompt(existing []ExistingIngredient) string {
	if len(existing) == 0 {
		return systemPromptBase
	}
	var b strings.Builder
	b.WriteString(systemPromptBase)
	b.WriteString("\n\nEXISTING INGREDIENTS IN DATABASE:\n")
	for _, ing := range existing {
		fmt.Fprintf(&b, "- ID %d: %s (unit: %s)\n", ing.ID, ing.Name, ing.Unit)
	}
	b.WriteString("\nMatch to existing ingredients when the normalized name refers to the same ingredient.")
	return b.String()
}

// normalizeUnit maps a model-supplied unit to its canonical table name.
// Units outside the table (head, pinch, ...) pass through lowercased.
func (s *Service) normalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return s.config.Shopping.DefaultUnit
	}
	if def, ok := s.table.Resolve(unit); ok {
		return def.Name
	}
	return unit
}

// convertQuantity re-expresses quantity from one unit into another. Same
// dimension converts through the base unit; volume converts to weight when
// the ingredient has a density override.
func (s *Service) convertQuantity(quantity float64, fromUnit, toUnit, ingredientName string) (float64, bool) {
	from, ok := s.table.Resolve(fromUnit)
	if !ok {
		return 0, false
	}
	to, ok := s.table.Resolve(toUnit)
	if !ok {
		return 0, false
	}

	if from.Dimension == to.Dimension {
		return quantity * from.FactorToBase / to.FactorToBase, true
	}
	if from.Dimension == units.Volume && to.Dimension == units.Weight {
		if ov, found := s.table.ResolveDensity(ingredientName); found {
			return ov.OuncesFromVolume(quantity, from) / to.FactorToBase, true
		}
	}
	return 0, false
}

// mergeDuplicates folds repeated (name, unit) entries into one, summing
// quantities and joining distinct notes.
func mergeDuplicates(ingredients []ParsedIngredient) []ParsedIngredient {
	type mergeKey struct {
		name string
		unit string
	}
	merged := make(map[mergeKey]*ParsedIngredient)
	var order []mergeKey

	for _, ing := range ingredients {
		key := mergeKey{name: ing.Name, unit: ing.Unit}
		existing, ok := merged[key]
		if !ok {
			copied := ing
			merged[key] = &copied
			order = append(order, key)
			continue
		}
		if ing.Quantity != nil {
			if existing.Quantity == nil {
				existing.Quantity = ing.Quantity
			} else {
				sum := *existing.Quantity + *ing.Quantity
				existing.Quantity = &sum
			}
		}
		if ing.Notes != "" && !strings.Contains(existing.Notes, ing.Notes) {
			if existing.Notes == "" {
				existing.Notes = ing.Notes
			} else {
				existing.Notes = existing.Notes + "; " + ing.Notes
			}
		}
		if existing.MatchedIngredientID == nil {
			existing.MatchedIngredientID = ing.MatchedIngredientID
		}
	}

	out := make([]ParsedIngredient, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}
