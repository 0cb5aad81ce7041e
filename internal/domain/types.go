package domain

import "time"

// Measure types accepted for new readings. Older rows may carry an empty
// type (the original schema allowed NULL).
const (
	MeasureTypeWater = "WATER"
	MeasureTypeGas   = "GAS"
)

// ValidMeasureType reports whether t is one of the known measure types.
func ValidMeasureType(t string) bool {
	return t == MeasureTypeWater || t == MeasureTypeGas
}

// Measurement is a single utility-meter reading: one customer, one type,
// one calendar month. MeasureValue holds the model-extracted reading until
// a human confirms (and possibly corrects) it; HasConfirmed never goes back
// to false once set.
type Measurement struct {
	ID              string
	CustomerCode    string
	MeasureDatetime time.Time
	MeasureType     string
	MeasureValue    int64
	HasConfirmed    bool
	ImageURL        string
}
