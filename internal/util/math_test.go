package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceInRange(t *testing.T) {
	// GIVEN
	value := 0.5

	// WHEN
	result := Coerce(value, -1, 1)

	// THEN
	assert.Equal(t, 0.5, result)
}

func TestCoerceAboveMax(t *testing.T) {
	// GIVEN
	value := 5.0

	// WHEN
	result := Coerce(value, -1, 1)

	// THEN
	assert.Equal(t, 1.0, result)
}

func TestCoerceBelowMin(t *testing.T) {
	// GIVEN
	value := -5.0

	// WHEN
	result := Coerce(value, -1, 1)

	// THEN
	assert.Equal(t, -1.0, result)
}

func TestAvg(t *testing.T) {
	// GIVEN
	values := []float64{0, 0.5, 1}

	// WHEN
	result := Avg(values)

	// THEN
	assert.Equal(t, 0.5, result)
}

func TestUpdateSimpleMovingAvg(t *testing.T) {
	// GIVEN
	oldAvg := 0.0
	n := 2

	// WHEN
	result := UpdateSimpleMovingAvg(oldAvg, n, 1.0)

	// THEN
	assert.Equal(t, 0.5, result)
}
