package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestGetWindowMax(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	// WHEN
	maximum := GetWindowMax(window)

	// THEN
	assert.Equal(t, 3.0, maximum)
}

func TestGetWindowAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(60)
	window.Append(70)
	window.Append(80)

	// WHEN
	avg := GetWindowAvg(window, 3)

	// THEN
	assert.Equal(t, 70.0, avg)
}

func TestGetWindowAvg_OldestValueIsEvicted(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(2)
	window.Append(10)
	window.Append(70)
	window.Append(80)

	// WHEN
	avg := GetWindowAvg(window, 2)

	// THEN
	assert.Equal(t, 75.0, avg)
}

func TestGetWindowAvg_PartiallyFilled(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(4)
	window.Append(60)
	window.Append(70)

	// WHEN
	avg := GetWindowAvg(window, 2)

	// THEN
	assert.Equal(t, 65.0, avg)
}

func TestGetWindowAvg_Empty(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(4)

	// WHEN
	avg := GetWindowAvg(window, 0)

	// THEN
	assert.Equal(t, 0.0, avg)
}
