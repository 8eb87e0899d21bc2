package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestRouteValidate(t *testing.T) {
	tests := []struct {
		name    string
		route   Route
		wantErr error
	}{
		{
			name:  "valid",
			route: Route{SourceID: 1, DestinationID: 2, DistanceKm: 540},
		},
		{
			name:    "same source and destination",
			route:   Route{SourceID: 7, DestinationID: 7, DistanceKm: 100},
			wantErr: ErrInvalidRoute,
		},
		{
			name:    "zero distance",
			route:   Route{SourceID: 1, DestinationID: 2, DistanceKm: 0},
			wantErr: ErrInvalidDistance,
		},
		{
			name:    "negative distance",
			route:   Route{SourceID: 1, DestinationID: 2, DistanceKm: -5},
			wantErr: ErrInvalidDistance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTrainValidate(t *testing.T) {
	tests := []struct {
		name    string
		train   Train
		wantErr error
	}{
		{
			name:  "valid with baggage range",
			train: Train{Number: "IC-101", SeatCapacity: 50, MinCheckedBaggageMass: intPtr(10), MaxCheckedBaggageMass: intPtr(20)},
		},
		{
			name:  "valid without baggage thresholds",
			train: Train{Number: "RE-7", SeatCapacity: 120},
		},
		{
			name:    "max below min",
			train:   Train{Number: "IC-102", SeatCapacity: 50, MinCheckedBaggageMass: intPtr(30), MaxCheckedBaggageMass: intPtr(25)},
			wantErr: ErrInvalidBaggageRange,
		},
		{
			name:    "max equal to min",
			train:   Train{Number: "IC-103", SeatCapacity: 50, MinCheckedBaggageMass: intPtr(15), MaxCheckedBaggageMass: intPtr(15)},
			wantErr: ErrInvalidBaggageRange,
		},
		{
			name:    "zero capacity",
			train:   Train{Number: "IC-104", SeatCapacity: 0},
			wantErr: ErrInvalidCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.train.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestJourneyValidate(t *testing.T) {
	dep := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		arrival time.Time
		wantErr error
	}{
		{name: "arrival after departure", arrival: dep.Add(5 * time.Hour)},
		{name: "arrival equals departure", arrival: dep, wantErr: ErrInvalidSchedule},
		{name: "arrival before departure", arrival: dep.Add(-time.Hour), wantErr: ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := Journey{RouteID: 1, TrainID: 1, DepartureTime: dep, ArrivalTime: tt.arrival}
			err := j.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTrainCheckedBaggageCharge(t *testing.T) {
	withRange := Train{MinCheckedBaggageMass: intPtr(10), MaxCheckedBaggageMass: intPtr(20)}
	noRange := Train{}

	assert.False(t, withRange.CheckedBaggageCharge(10), "mass at the threshold is free")
	assert.True(t, withRange.CheckedBaggageCharge(11))
	assert.True(t, withRange.CheckedBaggageCharge(20))
	assert.False(t, withRange.CheckedBaggageCharge(5))

	assert.False(t, noRange.CheckedBaggageCharge(100), "no thresholds, no charge")
}

func TestCrewFullName(t *testing.T) {
	c := Crew{FirstName: "Olena", LastName: "Shevchenko"}
	assert.Equal(t, "Olena Shevchenko", c.FullName())
}
