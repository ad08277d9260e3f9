package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusOrdered   = "ordered"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var OrderStatuses = []string{
	StatusOrdered, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled,
}

func ValidStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var ErrTerminalOrder = errors.New("order is already completed or cancelled")

type OrderItem struct {
	MenuItem            primitive.ObjectID `bson:"menuItem" json:"menuItem"`
	Name                string             `bson:"name" json:"name"`
	Price               float64            `bson:"price" json:"price" validate:"gte=0"`
	Quantity            int                `bson:"quantity" json:"quantity" validate:"gte=1"`
	Subtotal            float64            `bson:"subtotal" json:"subtotal"`
	SpecialInstructions string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
}

type OrderNotes struct {
	Customer string `bson:"customer,omitempty" json:"customer,omitempty"`
	Vendor   string `bson:"vendor,omitempty" json:"vendor,omitempty"`
	Admin    string `bson:"admin,omitempty" json:"admin,omitempty"`
}

type OrderRating struct {
	Food    int       `bson:"food" json:"food" validate:"gte=1,lte=5"`
	Service int       `bson:"service" json:"service" validate:"gte=1,lte=5"`
	Overall int       `bson:"overall" json:"overall" validate:"gte=1,lte=5"`
	Comment string    `bson:"comment,omitempty" json:"comment,omitempty"`
	RatedAt time.Time `bson:"ratedAt" json:"ratedAt"`
}

type Delivery struct {
	Type    string  `bson:"type" json:"type"`
	Address Address `bson:"address,omitempty" json:"address,omitempty"`
	Fee     float64 `bson:"fee" json:"fee"`
}

type Discount struct {
	Type       string  `bson:"type,omitempty" json:"type,omitempty"`
	Amount     float64 `bson:"amount,omitempty" json:"amount,omitempty"`
	Percentage float64 `bson:"percentage,omitempty" json:"percentage,omitempty"`
	Code       string  `bson:"code,omitempty" json:"code,omitempty"`
}

type Tax struct {
	CGST  float64 `bson:"cgst" json:"cgst"`
	SGST  float64 `bson:"sgst" json:"sgst"`
	Total float64 `bson:"total" json:"total"`
}

type Order struct {
	ID            primitive.ObjectID   `bson:"_id" json:"id"`
	TokenID       int                  `bson:"tokenId" json:"tokenId"`
	Customer      primitive.ObjectID   `bson:"customer" json:"customer"`
	Vendor        primitive.ObjectID   `bson:"vendor" json:"vendor"`
	Items         []OrderItem          `bson:"items" json:"items"`
	TotalAmount   float64              `bson:"totalAmount" json:"totalAmount"`
	Status        string               `bson:"status" json:"status"`
	EstimatedTime int                  `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty"`
	ActualTime    int                  `bson:"actualTime,omitempty" json:"actualTime,omitempty"`
	PaymentMethod string               `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string               `bson:"paymentStatus" json:"paymentStatus"`
	Notes         OrderNotes           `bson:"notes" json:"notes"`
	Timestamps    map[string]time.Time `bson:"timestamps" json:"timestamps"`
	Rating        *OrderRating         `bson:"rating,omitempty" json:"rating,omitempty"`
	Delivery      Delivery             `bson:"delivery" json:"delivery"`
	Discounts     []Discount           `bson:"discounts,omitempty" json:"discounts,omitempty"`
	Tax           Tax                  `bson:"tax" json:"tax"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Terminal reports whether no further status transition is permitted.
func (o *Order) Terminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// ComputeTotals recomputes every line subtotal and, unless the caller already
// supplied a positive total, derives totalAmount as
// sum(subtotals) - discounts + delivery fee + tax.
func (o *Order) ComputeTotals() {
	var itemsTotal float64
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].Price * float64(o.Items[i].Quantity)
		itemsTotal += o.Items[i].Subtotal
	}

	if o.TotalAmount > 0 {
		return
	}

	var discountAmount float64
	for _, d := range o.Discounts {
		if d.Percentage > 0 {
			discountAmount += itemsTotal * d.Percentage / 100
		} else {
			discountAmount += d.Amount
		}
	}

	o.TotalAmount = itemsTotal - discountAmount + o.Delivery.Fee + o.Tax.Total
}

// ApplyStatus moves the order to newStatus, stamping the instant the status is
// first reached. Completion derives actualTime from the preparing stamp.
// Terminal orders reject any further transition.
func (o *Order) ApplyStatus(newStatus string, now time.Time) error {
	if !ValidStatus(newStatus) {
		return fmt.Errorf("invalid status %q", newStatus)
	}
	if o.Terminal() {
		return ErrTerminalOrder
	}

	o.Status = newStatus
	if o.Timestamps == nil {
		o.Timestamps = make(map[string]time.Time)
	}
	if _, reached := o.Timestamps[newStatus]; !reached {
		o.Timestamps[newStatus] = now
	}

	if newStatus == StatusCompleted {
		if preparingAt, ok := o.Timestamps[StatusPreparing]; ok {
			o.ActualTime = int(math.Round(o.Timestamps[StatusCompleted].Sub(preparingAt).Minutes()))
		}
	}
	return nil
}

// AppendNote adds a note to the actor's note field without erasing prior ones.
func (o *Order) AppendNote(actor, note string) {
	if note == "" {
		return
	}
	appendTo := func(existing string) string {
		if existing == "" {
			return note
		}
		return existing + "\n" + note
	}
	switch actor {
	case RoleVendor:
		o.Notes.Vendor = appendTo(o.Notes.Vendor)
	case RoleAdmin:
		o.Notes.Admin = appendTo(o.Notes.Admin)
	default:
		o.Notes.Customer = appendTo(o.Notes.Customer)
	}
}

// TokenDayKey scopes the daily token counter to the local calendar day.
func TokenDayKey(t time.Time) string {
	return "token-" + t.Local().Format("2006-01-02")
}
