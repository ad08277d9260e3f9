package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyStockDecreaseFloorsAtZero(t *testing.T) {
	item := MenuItem{Stock: 5, Available: true, IsActive: true}

	item.ApplyStock(10, StockDecrease)

	assert.Equal(t, 0, item.Stock)
	assert.False(t, item.Available)
}

func TestApplyStockZeroStockDisablesItem(t *testing.T) {
	item := MenuItem{Stock: 5, Available: true, IsActive: true}

	item.ApplyStock(5, StockDecrease)

	assert.Equal(t, 0, item.Stock)
	assert.False(t, item.Available, "selling out must flip available off")
}

func TestApplyStockIncreaseReenablesActiveItem(t *testing.T) {
	item := MenuItem{Stock: 0, Available: false, IsActive: true}

	item.ApplyStock(3, StockIncrease)

	assert.Equal(t, 3, item.Stock)
	assert.True(t, item.Available)
}

func TestApplyStockIncreaseLeavesInactiveItemDisabled(t *testing.T) {
	item := MenuItem{Stock: 0, Available: false, IsActive: false}

	item.ApplyStock(3, StockIncrease)

	assert.Equal(t, 3, item.Stock)
	assert.False(t, item.Available, "soft-deleted items stay unavailable")
}

func TestAddRatingRunningMean(t *testing.T) {
	item := MenuItem{Rating: ItemRating{Average: 4, Count: 2}}

	item.AddRating(5)

	assert.Equal(t, 3, item.Rating.Count)
	assert.InDelta(t, (4.0*2+5)/3, item.Rating.Average, 1e-9)
}

func TestAddRatingFirstScore(t *testing.T) {
	item := MenuItem{}

	item.AddRating(3)

	assert.Equal(t, 1, item.Rating.Count)
	assert.InDelta(t, 3.0, item.Rating.Average, 1e-9)
}

func TestPurchasable(t *testing.T) {
	cases := []struct {
		name string
		item MenuItem
		want bool
	}{
		{"in stock and active", MenuItem{Stock: 2, Available: true, IsActive: true}, true},
		{"out of stock", MenuItem{Stock: 0, Available: true, IsActive: true}, false},
		{"disabled", MenuItem{Stock: 2, Available: false, IsActive: true}, false},
		{"soft deleted", MenuItem{Stock: 2, Available: true, IsActive: false}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.item.Purchasable())
		})
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Main Course"))
	assert.False(t, ValidCategory("Sushi"))
}
