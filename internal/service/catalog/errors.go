package catalog

import (
	"errors"
)

var (
	ErrStationConflict   = errors.New("station already exists")
	ErrTrainTypeConflict = errors.New("train type already exists")
	ErrTrainConflict     = errors.New("train already exists")
	ErrRouteConflict     = errors.New("route already exists")
	ErrStationNotFound   = errors.New("station not found")
	ErrTrainTypeNotFound = errors.New("train type not found")
	ErrTrainNotFound     = errors.New("train not found")
	ErrRouteNotFound     = errors.New("route not found")
)
