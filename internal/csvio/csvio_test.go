package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinner-planner/internal/core/shopping"
)

func TestReadMaster(t *testing.T) {
	t.Run("parses columns by header name", func(t *testing.T) {
		input := `Dish,Ingredient,Qty,Units,Location,Done?,Price,Notes
Lasagna,tomatoes,2,lbs,Green Grocer,False,3.50,ripe
Salad,olive oil,0.5,cup,,False,,
`
		rows, err := ReadMaster(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, shopping.Row{
			Dish:       "Lasagna",
			Ingredient: "tomatoes",
			Quantity:   "2",
			Unit:       "lbs",
			Location:   "Green Grocer",
			Purchased:  "False",
			Price:      "3.50",
			Notes:      "ripe",
		}, rows[0])
		assert.Equal(t, "olive oil", rows[1].Ingredient)
		assert.Empty(t, rows[1].Location)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		input := `Ingredient,Dish,Qty
salt,Soup,1
`
		rows, err := ReadMaster(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "salt", rows[0].Ingredient)
		assert.Equal(t, "Soup", rows[0].Dish)
		assert.Equal(t, "1", rows[0].Quantity)
	})

	t.Run("skips blank records", func(t *testing.T) {
		input := `Dish,Ingredient,Qty,Units,Location,Done?,Price,Notes
Lasagna,tomatoes,2,lbs,Green Grocer,False,,
,,,,,,,
`
		rows, err := ReadMaster(strings.NewReader(input))
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("missing ingredient column fails", func(t *testing.T) {
		_, err := ReadMaster(strings.NewReader("Dish,Qty\nSoup,1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ingredient")
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, err := ReadMaster(strings.NewReader(""))
		require.Error(t, err)
	})
}

func TestWriteMaster(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMaster(&buf, []shopping.Row{
		{Dish: "Lasagna", Ingredient: "tomatoes", Quantity: "2", Unit: "lbs", Location: "Green Grocer", Price: "3.50", Notes: "ripe"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Dish,Ingredient,Qty,Units,Location,Done?,Price,Notes", lines[0])
	// rows without an explicit purchased flag default to False
	assert.Equal(t, "Lasagna,tomatoes,2,lbs,Green Grocer,False,3.50,ripe", lines[1])
}

func TestWriteShopping(t *testing.T) {
	var buf bytes.Buffer
	err := WriteShopping(&buf, []shopping.ConsolidatedItem{
		{Location: "Green Grocer", Ingredient: "tomatoes", Quantity: 3, Unit: "pound", Price: 7.5},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Location,Ingredient,Qty,Units,Price", lines[0])
	assert.Equal(t, "Green Grocer,tomatoes,3,pound,7.5", lines[1])
}

func TestMasterRoundTrip(t *testing.T) {
	rows := []shopping.Row{
		{Dish: "Soup", Ingredient: "leek, large", Quantity: "2", Unit: "each", Purchased: "False"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMaster(&buf, rows))

	got, err := ReadMaster(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	// quoted comma in the ingredient survives the trip
	assert.Equal(t, "leek, large", got[0].Ingredient)
}
