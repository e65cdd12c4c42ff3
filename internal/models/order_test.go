package models_test

import (
	"testing"

	"menucart/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.StatusPending, models.StatusPreparing, true},
		{models.StatusPending, models.StatusCompleted, true},
		{models.StatusPreparing, models.StatusServed, true},
		{models.StatusServed, models.StatusCompleted, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusServed, models.StatusCancelled, true},
		{models.StatusPreparing, models.StatusPreparing, true},
		{models.StatusPreparing, models.StatusPending, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusPending, "shipped", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, models.CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := models.ParsePaymentMethod("card")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCard, m)

	m, err = models.ParsePaymentMethod("")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCash, m)

	_, err = models.ParsePaymentMethod("stripe")
	assert.Error(t, err)
}

func TestOrderCloneIsDeep(t *testing.T) {
	o := &models.Order{
		ID: "ORD-1-ABC",
		Items: []models.CartLine{
			{MenuItem: models.MenuItem{ID: "A", Price: 10, Addons: []string{"cheese"}}, Quantity: 1},
		},
	}
	c := o.Clone()
	c.Items[0].Quantity = 5
	c.Items[0].Addons[0] = "bacon"

	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, "cheese", o.Items[0].Addons[0])
}

func TestMenuDataFindItem(t *testing.T) {
	menu := &models.MenuData{Categories: []models.Category{
		{ID: "c1", Items: []models.MenuItem{{ID: "A", Name: "Burger"}}},
		{ID: "c2", Items: []models.MenuItem{{ID: "B", Name: "Fries"}}},
	}}
	item := menu.FindItem("B")
	if assert.NotNil(t, item) {
		assert.Equal(t, "Fries", item.Name)
	}
	assert.Nil(t, menu.FindItem("Z"))
}
