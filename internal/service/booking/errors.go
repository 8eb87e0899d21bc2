package booking

import (
	"errors"
	"fmt"
)

var (
	ErrJourneyNotFound     = errors.New("journey not found")
	ErrJourneyClosed       = errors.New("journey already departed")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrSeatJourneyMismatch = errors.New("seat does not belong to the selected journey")
	ErrSeatAlreadyOccupied = errors.New("seat is already occupied")
	ErrOrderNotFound       = errors.New("order not found")
	ErrTicketConflict      = errors.New("conflict creating ticket")
	ErrRateLimited         = errors.New("rate limited")
)

type SeatOccupiedError struct {
	SeatID    int64
	JourneyID int64
}

func (e SeatOccupiedError) Error() string {
	return fmt.Sprintf("seat %d on journey %d is already occupied", e.SeatID, e.JourneyID)
}

func (e SeatOccupiedError) Unwrap() error {
	return ErrSeatAlreadyOccupied
}
