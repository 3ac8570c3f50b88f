package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	v := NewValidator(DefaultDefaults())

	lines, warnings := v.Validate([]Row{
		{Ingredient: " Salt ", Quantity: "", Unit: "", Location: "", Price: ""},
	})

	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "Salt", line.Ingredient)
	assert.InDelta(t, 1.0, line.Quantity, 1e-9)
	assert.Equal(t, "each", line.Unit)
	assert.Equal(t, "Unknown", line.Location)
	assert.Zero(t, line.Price)
	assert.False(t, line.Purchased)

	// Missing price defaults silently. The other three warn.
	require.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.Equal(t, 1, w.Row)
	}
}

func TestValidateQuantity(t *testing.T) {
	v := NewValidator(DefaultDefaults())

	tests := []struct {
		name     string
		raw      string
		want     float64
		wantWarn bool
	}{
		{name: "integer", raw: "3", want: 3},
		{name: "decimal", raw: "0.25", want: 0.25},
		{name: "padded", raw: " 2 ", want: 2},
		{name: "garbage", raw: "a few", want: 1, wantWarn: true},
		{name: "negative", raw: "-2", want: 1, wantWarn: true},
		{name: "zero passes through", raw: "0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, warnings := v.Validate([]Row{
				{Ingredient: "Flour", Quantity: tt.raw, Unit: "cup", Location: "Store A"},
			})
			require.Len(t, lines, 1)
			assert.InDelta(t, tt.want, lines[0].Quantity, 1e-9)
			if tt.wantWarn {
				require.Len(t, warnings, 1)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestValidatePrice(t *testing.T) {
	v := NewValidator(DefaultDefaults())

	tests := []struct {
		name     string
		raw      string
		want     float64
		wantWarn bool
	}{
		{name: "plain", raw: "4.99", want: 4.99},
		{name: "dollar sign", raw: "$12.50", want: 12.5},
		{name: "thousands separator", raw: "$1,200", want: 1200},
		{name: "garbage", raw: "cheap", want: 0, wantWarn: true},
		{name: "negative", raw: "-1", want: 0, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, warnings := v.Validate([]Row{
				{Ingredient: "Steak", Quantity: "1", Unit: "lb", Location: "Butcher", Price: tt.raw},
			})
			require.Len(t, lines, 1)
			assert.InDelta(t, tt.want, lines[0].Price, 1e-9)
			if tt.wantWarn {
				require.Len(t, warnings, 1)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestParsePurchased(t *testing.T) {
	for _, truthy := range []string{"true", "Yes", "y", "X", "1", "DONE"} {
		assert.True(t, parsePurchased(truthy), truthy)
	}
	for _, falsy := range []string{"", "no", "false", "0", "maybe"} {
		assert.False(t, parsePurchased(falsy), falsy)
	}
}

func TestValidateRowNumbers(t *testing.T) {
	v := NewValidator(DefaultDefaults())

	_, warnings := v.Validate([]Row{
		{Ingredient: "A", Quantity: "1", Unit: "lb", Location: "Store"},
		{Ingredient: "B", Quantity: "bad", Unit: "lb", Location: "Store"},
		{Ingredient: "C", Quantity: "1", Unit: "lb", Location: "Store", Price: "bad"},
	})

	require.Len(t, warnings, 2)
	assert.Equal(t, 2, warnings[0].Row)
	assert.Equal(t, 3, warnings[1].Row)
}
