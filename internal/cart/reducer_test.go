package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"efficiensa/internal/models"
)

var (
	burger = models.MenuItem{ID: "burger", Name: "Cheeseburger", Price: decimal.RequireFromString("9.50")}
	fries  = models.MenuItem{ID: "fries", Name: "Fries", Price: decimal.RequireFromString("3.25")}
	cheese = models.Modifier{ID: "cheese", Name: "Extra cheese", Price: decimal.RequireFromString("1.00")}
	bacon  = models.Modifier{ID: "bacon", Name: "Bacon", Price: decimal.RequireFromString("1.50")}
)

func reduceAll(actions ...Action) State {
	s := State{}
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestAddItem_MergesSameModifierSet(t *testing.T) {
	s := reduceAll(
		AddItem{Item: burger, Modifiers: []models.Modifier{cheese, bacon}},
		AddItem{Item: burger, Modifiers: []models.Modifier{bacon, cheese}},
	)

	require.Len(t, s.Lines, 1)
	assert.Equal(t, 2, s.Lines[0].Quantity)
	assert.Equal(t, "burger|bacon,cheese", s.Lines[0].Key)
}

func TestAddItem_DistinctModifiersMakeNewLines(t *testing.T) {
	s := reduceAll(
		AddItem{Item: burger},
		AddItem{Item: burger, Modifiers: []models.Modifier{cheese}},
		AddItem{Item: fries},
	)

	require.Len(t, s.Lines, 3)
	for _, l := range s.Lines {
		assert.Equal(t, 1, l.Quantity)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := reduceAll(AddItem{Item: burger})
	after := Reduce(before, AddItem{Item: burger})

	assert.Equal(t, 1, before.Lines[0].Quantity)
	assert.Equal(t, 2, after.Lines[0].Quantity)

	after = Reduce(before, UpdateQuantity{ItemID: "burger", Quantity: 7})
	assert.Equal(t, 1, before.Lines[0].Quantity)
	assert.Equal(t, 7, after.Lines[0].Quantity)
}

func TestRemoveItem_RemovesEveryVariant(t *testing.T) {
	s := reduceAll(
		AddItem{Item: burger},
		AddItem{Item: burger, Modifiers: []models.Modifier{cheese}},
		AddItem{Item: fries},
		RemoveItem{ItemID: "burger"},
	)

	require.Len(t, s.Lines, 1)
	assert.Equal(t, "fries", s.Lines[0].Item.ID)
}

func TestUpdateQuantity(t *testing.T) {
	s := reduceAll(
		AddItem{Item: burger},
		AddItem{Item: burger, Modifiers: []models.Modifier{cheese}},
		UpdateQuantity{ItemID: "burger", Quantity: 3},
	)
	for _, l := range s.Lines {
		assert.Equal(t, 3, l.Quantity)
	}

	s = Reduce(s, UpdateQuantity{ItemID: "burger", Quantity: 0})
	assert.Empty(t, s.Lines)

	s = Reduce(reduceAll(AddItem{Item: fries}), UpdateQuantity{ItemID: "fries", Quantity: -2})
	assert.Empty(t, s.Lines)
}

func TestLineActions_KeepOtherVariants(t *testing.T) {
	plain := LineKey("burger", nil)
	withCheese := LineKey("burger", []models.Modifier{cheese})

	s := reduceAll(
		AddItem{Item: burger},
		AddItem{Item: burger, Modifiers: []models.Modifier{cheese}},
		UpdateLineQuantity{Key: withCheese, Quantity: 4},
	)
	require.Len(t, s.Lines, 2)
	assert.Equal(t, 1, s.Lines[0].Quantity)
	assert.Equal(t, 4, s.Lines[1].Quantity)

	s = Reduce(s, RemoveLine{Key: plain})
	require.Len(t, s.Lines, 1)
	assert.Equal(t, withCheese, s.Lines[0].Key)

	s = Reduce(s, UpdateLineQuantity{Key: withCheese, Quantity: 0})
	assert.Empty(t, s.Lines)
}

func TestSetOrderTypeAndClear(t *testing.T) {
	s := reduceAll(AddItem{Item: fries}, SetOrderType{OrderType: models.OrderTypeTakeout})
	assert.Equal(t, models.OrderTypeTakeout, s.OrderType)
	assert.Len(t, s.Lines, 1)

	s = Reduce(s, ClearCart{})
	assert.Empty(t, s.Lines)
	assert.Equal(t, models.OrderType(""), s.OrderType)
}

func TestReduce_NilActionIsNoop(t *testing.T) {
	s := reduceAll(AddItem{Item: fries})
	assert.Equal(t, s, Reduce(s, nil))
}
