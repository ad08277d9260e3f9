package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsFromLines(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	}}

	order.ComputeTotals()

	assert.Equal(t, 200.0, order.Items[0].Subtotal)
	assert.Equal(t, 50.0, order.Items[1].Subtotal)
	assert.Equal(t, 250.0, order.TotalAmount)
}

func TestComputeTotalsWithDiscountsFeeAndTax(t *testing.T) {
	order := Order{
		Items: []OrderItem{{Price: 100, Quantity: 2}},
		Discounts: []Discount{
			{Percentage: 10},
			{Amount: 5},
		},
		Delivery: Delivery{Fee: 30},
		Tax:      Tax{Total: 18},
	}

	order.ComputeTotals()

	// 200 - (20 + 5) + 30 + 18
	assert.Equal(t, 223.0, order.TotalAmount)
}

func TestComputeTotalsKeepsCallerSuppliedTotal(t *testing.T) {
	order := Order{
		TotalAmount: 999,
		Items:       []OrderItem{{Price: 100, Quantity: 1}},
	}

	order.ComputeTotals()

	assert.Equal(t, 999.0, order.TotalAmount)
	assert.Equal(t, 100.0, order.Items[0].Subtotal, "line subtotals are always server-computed")
}

func TestApplyStatusStampsFirstReach(t *testing.T) {
	now := time.Now()
	order := Order{Status: StatusOrdered, Timestamps: map[string]time.Time{StatusOrdered: now}}

	require.NoError(t, order.ApplyStatus(StatusConfirmed, now.Add(time.Minute)))
	first := order.Timestamps[StatusConfirmed]

	require.NoError(t, order.ApplyStatus(StatusConfirmed, now.Add(5*time.Minute)))

	assert.Equal(t, first, order.Timestamps[StatusConfirmed], "a revisited status keeps its first timestamp")
	assert.Equal(t, StatusConfirmed, order.Status)
}

func TestApplyStatusComputesActualTime(t *testing.T) {
	t0 := time.Now()
	order := Order{Status: StatusOrdered}

	require.NoError(t, order.ApplyStatus(StatusPreparing, t0))
	require.NoError(t, order.ApplyStatus(StatusCompleted, t0.Add(12*time.Minute)))

	assert.Equal(t, 12, order.ActualTime)
}

func TestApplyStatusWithoutPreparingSkipsActualTime(t *testing.T) {
	order := Order{Status: StatusOrdered}

	require.NoError(t, order.ApplyStatus(StatusCompleted, time.Now()))

	assert.Equal(t, 0, order.ActualTime)
}

func TestApplyStatusRejectsTerminalOrders(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		order := Order{Status: terminal}
		err := order.ApplyStatus(StatusOrdered, time.Now())
		assert.ErrorIs(t, err, ErrTerminalOrder)
		assert.Equal(t, terminal, order.Status)
	}
}

func TestApplyStatusRejectsUnknownStatus(t *testing.T) {
	order := Order{Status: StatusOrdered}
	err := order.ApplyStatus("delivered", time.Now())
	assert.Error(t, err)
	assert.Equal(t, StatusOrdered, order.Status)
}

func TestAppendNoteAccumulates(t *testing.T) {
	var order Order

	order.AppendNote(RoleCustomer, "no onions")
	order.AppendNote(RoleCustomer, "call on arrival")
	order.AppendNote(RoleVendor, "out of naan, swapped roti")
	order.AppendNote(RoleVendor, "")

	assert.Equal(t, "no onions\ncall on arrival", order.Notes.Customer)
	assert.Equal(t, "out of naan, swapped roti", order.Notes.Vendor)
}

func TestTerminal(t *testing.T) {
	assert.True(t, (&Order{Status: StatusCompleted}).Terminal())
	assert.True(t, (&Order{Status: StatusCancelled}).Terminal())
	assert.False(t, (&Order{Status: StatusReady}).Terminal())
}

func TestTokenDayKeyScopesByCalendarDay(t *testing.T) {
	morning := time.Date(2024, 3, 5, 0, 0, 1, 0, time.Local)
	night := time.Date(2024, 3, 5, 23, 59, 59, 0, time.Local)
	nextDay := time.Date(2024, 3, 6, 0, 0, 1, 0, time.Local)

	assert.Equal(t, TokenDayKey(morning), TokenDayKey(night))
	assert.NotEqual(t, TokenDayKey(morning), TokenDayKey(nextDay))
	assert.Equal(t, "token-2024-03-05", TokenDayKey(morning))
}

func TestValidStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("delivered"))
	assert.False(t, ValidStatus(""))
}
