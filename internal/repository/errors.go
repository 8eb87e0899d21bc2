package repository

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrSeatJourneyMismatch = errors.New("seat does not belong to journey")
	ErrSeatAlreadyOccupied = errors.New("seat is already occupied")
)
