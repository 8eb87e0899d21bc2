package domain

import "errors"

var (
	ErrInvalidRoute        = errors.New("source and destination must differ")
	ErrInvalidDistance     = errors.New("distance must be positive")
	ErrInvalidBaggageRange = errors.New("max checked baggage mass must exceed min")
	ErrInvalidCapacity     = errors.New("seat capacity must be positive")
	ErrInvalidSchedule     = errors.New("arrival time must be after departure time")
)

// Validate checks route endpoints and distance. Pure, no I/O; runs before
// every route write.
func (r Route) Validate() error {
	if r.SourceID == r.DestinationID {
		return ErrInvalidRoute
	}

	if r.DistanceKm <= 0 {
		return ErrInvalidDistance
	}

	return nil
}

// Validate checks the baggage-mass ordering. Thresholds are optional, but
// when both are present the max must be strictly greater than the min.
func (t Train) Validate() error {
	if t.SeatCapacity <= 0 {
		return ErrInvalidCapacity
	}

	if t.MinCheckedBaggageMass != nil && t.MaxCheckedBaggageMass != nil &&
		*t.MaxCheckedBaggageMass <= *t.MinCheckedBaggageMass {
		return ErrInvalidBaggageRange
	}

	return nil
}

// Validate checks the schedule window. Arrival must be strictly after
// departure.
func (j Journey) Validate() error {
	if !j.ArrivalTime.After(j.DepartureTime) {
		return ErrInvalidSchedule
	}

	return nil
}

// CheckedBaggageCharge reports whether a declared baggage mass incurs a
// surcharge on this train. Absent thresholds mean no charge is ever applied.
func (t Train) CheckedBaggageCharge(declaredMassKg int) bool {
	if t.MinCheckedBaggageMass == nil {
		return false
	}

	return declaredMassKg > *t.MinCheckedBaggageMass
}
