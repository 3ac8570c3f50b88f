package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinner-planner/internal/core/units"
	"dinner-planner/internal/infrastructure/config"
	"dinner-planner/internal/pkg/common"
)

type fakeClient struct {
	content string
	err     error
	calls   int
	lastSys string
}

func (f *fakeClient) Complete(ctx context.Context, systemPrompt, userInput string) (string, error) {
	f.calls++
	f.lastSys = systemPrompt
	return f.content, f.err
}

type fakeCache struct {
	store map[string]string
}

func (f *fakeCache) Get(ctx context.Context, input string) (string, error) {
	if v, ok := f.store[input]; ok {
		return v, nil
	}
	return "", common.ErrCacheDisabled
}

func (f *fakeCache) Set(ctx context.Context, input, value string) error {
	f.store[input] = value
	return nil
}

func (f *fakeCache) Stats() map[string]interface{} { return nil }
func (f *fakeCache) Close() error                  { return nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.OpenAI.Enabled = true
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.Shopping.DefaultUnit = "each"
	return cfg
}

func newTestService(client CompletionClient) *Service {
	return NewService(testConfig(), client, nil, units.DefaultTable())
}

func TestParseNormalizesNamesAndUnits(t *testing.T) {
	client := &fakeClient{content: `{"ingredients": [
		{"name": " Shallot ", "quantity": 2, "unit": "Each", "notes": "large"},
		{"name": "flour", "quantity": 2, "unit": "cups", "notes": ""}
	]}`}
	svc := newTestService(client)

	parsed, err := svc.Parse(context.Background(), "2 large shallots, 2 cups flour", nil)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "shallot", parsed[0].Name)
	assert.Equal(t, "each", parsed[0].Unit)
	assert.Equal(t, "large", parsed[0].Notes)

	assert.Equal(t, "flour", parsed[1].Name)
	assert.Equal(t, "cup", parsed[1].Unit)
}

func TestParseOpaqueUnitPassesThrough(t *testing.T) {
	client := &fakeClient{content: `{"ingredients": [
		{"name": "garlic", "quantity": 1, "unit": "Head", "notes": ""}
	]}`}
	svc := newTestService(client)

	parsed, err := svc.Parse(context.Background(), "a head of garlic", nil)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "head", parsed[0].Unit)
}

func TestParseConvertsToMatchedUnit(t *testing.T) {
	client := &fakeClient{content: `{"ingredients": [
		{"name": "sugar", "quantity": 2, "unit": "cup", "notes": "", "matched_ingredient_id": 7}
	]}`}
	svc := newTestService(client)
	existing := []ExistingIngredient{{ID: 7, Name: "sugar", Unit: "ounce"}}

	parsed, err := svc.Parse(context.Background(), "2 cups sugar", existing)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	require.NotNil(t, parsed[0].ConvertedQuantity)
	assert.InDelta(t, 14.1, *parsed[0].ConvertedQuantity, 1e-9)
	assert.Equal(t, "ounce", parsed[0].ConvertedUnit)

	// The existing list is offered to the model for matching.
	assert.Contains(t, client.lastSys, "ID 7: sugar (unit: ounce)")
}

func TestParseNoConversionAcrossUnmappedDimensions(t *testing.T) {
	client := &fakeClient{content: `{"ingredients": [
		{"name": "garlic", "quantity": 1, "unit": "head", "notes": "", "matched_ingredient_id": 3}
	]}`}
	svc := newTestService(client)
	existing := []ExistingIngredient{{ID: 3, Name: "garlic", Unit: "each"}}

	parsed, err := svc.Parse(context.Background(), "1 head garlic", existing)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Nil(t, parsed[0].ConvertedQuantity)
	assert.Empty(t, parsed[0].ConvertedUnit)
}

func TestParseMergesDuplicates(t *testing.T) {
	client := &fakeClient{content: `{"ingredients": [
		{"name": "onion", "quantity": 2, "unit": "each", "notes": "diced"},
		{"name": "Onion", "quantity": 1, "unit": "each", "notes": "red"}
	]}`}
	svc := newTestService(client)

	parsed, err := svc.Parse(context.Background(), "2 diced onions and 1 red onion", nil)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	require.NotNil(t, parsed[0].Quantity)
	assert.InDelta(t, 3.0, *parsed[0].Quantity, 1e-9)
	assert.Equal(t, "diced; red", parsed[0].Notes)
}

func TestParseFencedJSON(t *testing.T) {
	client := &fakeClient{content: "```json\n{\"ingredients\": [{\"name\": \"salt\", \"quantity\": null, \"unit\": \"\", \"notes\": \"\"}]}\n```"}
	svc := newTestService(client)

	parsed, err := svc.Parse(context.Background(), "salt to taste", nil)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "salt", parsed[0].Name)
	assert.Nil(t, parsed[0].Quantity)
	assert.Equal(t, "each", parsed[0].Unit)
}

func TestParseUsesCache(t *testing.T) {
	client := &fakeClient{content: `{"ingredients": [{"name": "salt", "quantity": 1, "unit": "each", "notes": ""}]}`}
	store := &fakeCache{store: map[string]string{}}
	svc := NewService(testConfig(), client, store, units.DefaultTable())

	_, err := svc.Parse(context.Background(), "salt", nil)
	require.NoError(t, err)
	_, err = svc.Parse(context.Background(), "salt", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
}

func TestParseDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI.Enabled = false
	svc := NewService(cfg, &fakeClient{}, nil, units.DefaultTable())

	_, err := svc.Parse(context.Background(), "salt", nil)
	assert.ErrorIs(t, err, common.ErrParserUnavailable)
}

func TestParseEmptyInput(t *testing.T) {
	svc := newTestService(&fakeClient{})
	_, err := svc.Parse(context.Background(), "   ", nil)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}
