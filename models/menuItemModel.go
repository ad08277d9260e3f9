package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StockIncrease = "increase"
	StockDecrease = "decrease"
)

var MenuCategories = []string{"Main Course", "Bread", "Rice", "Beverage", "Dessert", "Appetizer", "Snacks"}

func ValidCategory(category string) bool {
	for _, c := range MenuCategories {
		if c == category {
			return true
		}
	}
	return false
}

type ItemRating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

type Dietary struct {
	Vegetarian   bool `bson:"vegetarian" json:"vegetarian"`
	Vegan        bool `bson:"vegan" json:"vegan"`
	GlutenFree   bool `bson:"glutenFree" json:"glutenFree"`
	Spicy        bool `bson:"spicy" json:"spicy"`
	ContainsNuts bool `bson:"containsNuts" json:"containsNuts"`
}

type MenuItem struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Name            string             `bson:"name" json:"name" validate:"required,max=100"`
	Description     string             `bson:"description" json:"description" validate:"max=500"`
	Price           float64            `bson:"price" json:"price" validate:"gte=0"`
	Category        string             `bson:"category" json:"category" validate:"required"`
	ImageURL        string             `bson:"imageUrl" json:"imageUrl"`
	Stock           int                `bson:"stock" json:"stock" validate:"gte=0"`
	Available       bool               `bson:"available" json:"available"`
	Vendor          primitive.ObjectID `bson:"vendor" json:"vendor"`
	Tags            []string           `bson:"tags" json:"tags"`
	Dietary         Dietary            `bson:"dietary" json:"dietary"`
	PreparationTime int                `bson:"preparationTime" json:"preparationTime"`
	Rating          ItemRating         `bson:"rating" json:"rating"`
	IsActive        bool               `bson:"isActive" json:"isActive"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Purchasable reports whether the item may appear in customer-facing listings.
func (m *MenuItem) Purchasable() bool {
	return m.Available && m.IsActive && m.Stock > 0
}

// ApplyStock adjusts stock in the given direction. Decreases floor at zero.
// Availability is re-derived afterwards: zero stock always disables the item,
// positive stock re-enables it only while the item is active.
func (m *MenuItem) ApplyStock(quantity int, direction string) {
	switch direction {
	case StockDecrease:
		m.Stock -= quantity
		if m.Stock < 0 {
			m.Stock = 0
		}
	case StockIncrease:
		m.Stock += quantity
	}
	m.ReconcileAvailability()
}

// ReconcileAvailability enforces stock == 0 => available == false.
func (m *MenuItem) ReconcileAvailability() {
	if m.Stock == 0 {
		m.Available = false
	} else if m.Stock > 0 && !m.Available && m.IsActive {
		m.Available = true
	}
}

// AddRating folds one more 1-5 score into the running mean.
func (m *MenuItem) AddRating(score float64) {
	total := m.Rating.Average*float64(m.Rating.Count) + score
	m.Rating.Count++
	m.Rating.Average = total / float64(m.Rating.Count)
}
