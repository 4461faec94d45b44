package money_test

import (
	"testing"

	"ecofinds/pkg/money"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 5.01, money.Round(5.005))
	assert.Equal(t, 5.0, money.Round(5.004))
	assert.Equal(t, 10.0, money.Round(10))
	assert.Equal(t, 99999.99, money.Round(99999.99))
	assert.Equal(t, 12.35, money.Round(12.345678))
}

func TestMul(t *testing.T) {
	assert.Equal(t, 20.0, money.Mul(10.00, 2))
	assert.Equal(t, 5.01, money.Mul(5.005, 1))
	assert.Equal(t, 0.3, money.Mul(0.1, 3)) // no binary float drift
}

func TestTotal(t *testing.T) {
	// 2x10.00 + 1x5.005 = 25.005, rounded once on the sum.
	total := money.Total([]money.Line{
		{Price: 10.00, Quantity: 2},
		{Price: 5.005, Quantity: 1},
	})
	assert.Equal(t, 25.01, total)

	assert.Equal(t, 0.0, money.Total(nil))
}
