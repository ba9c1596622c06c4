package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillableUnitsMinimumOne(t *testing.T) {
	now := time.Now()

	assert.EqualValues(t, 1, BillableUnits(now, now, time.Hour))
	assert.EqualValues(t, 1, BillableUnits(now, now.Add(time.Minute), time.Hour))
	// Перепутанные границы не дают ноль или минус
	assert.EqualValues(t, 1, BillableUnits(now, now.Add(-time.Hour), time.Hour))
}

func TestBillableUnitsRoundsUp(t *testing.T) {
	start := time.Now()

	assert.EqualValues(t, 1, BillableUnits(start, start.Add(time.Hour), time.Hour))
	assert.EqualValues(t, 2, BillableUnits(start, start.Add(90*time.Minute), time.Hour))
	assert.EqualValues(t, 2, BillableUnits(start, start.Add(2*time.Hour), time.Hour))
	assert.EqualValues(t, 3, BillableUnits(start, start.Add(2*time.Hour+time.Second), time.Hour))
}

func TestEstimateCost(t *testing.T) {
	start := time.Now()

	assert.EqualValues(t, 1000, EstimateCost(start, start.Add(time.Minute), time.Hour, 1000))
	assert.EqualValues(t, 2000, EstimateCost(start, start.Add(90*time.Minute), time.Hour, 1000))
	// Нулевой тариф заменяется тарифом по умолчанию
	assert.EqualValues(t, DefaultUnitRate, EstimateCost(start, start.Add(time.Minute), time.Hour, 0))
}
