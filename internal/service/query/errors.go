package query

import (
	"errors"
)

var (
	ErrJourneyNotFound = errors.New("journey not found")
	ErrTicketNotFound  = errors.New("ticket not found")
)
