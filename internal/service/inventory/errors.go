package inventory

import (
	"errors"
)

var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrTrainNotFound  = errors.New("train not found")
	ErrCrewNotFound   = errors.New("crew member not found")
	ErrJourneyExists  = errors.New("journey already exists")
	ErrNoSeatsCreated = errors.New("no seats created for journey")
)
