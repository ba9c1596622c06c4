package chat

import "time"

const (
	// Единица тарификации рантайма и цена за единицу
	DefaultBillingUnit = time.Hour
	DefaultUnitRate    = 1000
)

// BillableUnits округляет прожитое время комнаты вверх до целых единиц.
// Минимум одна единица, даже для нулевой длительности.
func BillableUnits(startedAt, endedAt time.Time, unit time.Duration) int64 {
	if unit <= 0 {
		unit = DefaultBillingUnit
	}

	elapsed := endedAt.Sub(startedAt)
	if elapsed <= 0 {
		return 1
	}

	units := int64(elapsed / unit)
	if elapsed%unit != 0 {
		units++
	}
	if units < 1 {
		units = 1
	}
	return units
}

// EstimateCost — чистая функция стоимости: единицы времени * тариф
func EstimateCost(startedAt, endedAt time.Time, unit time.Duration, rate int64) int64 {
	if rate <= 0 {
		rate = DefaultUnitRate
	}
	return BillableUnits(startedAt, endedAt, unit) * rate
}
