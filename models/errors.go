package models

import "errors"

var (
	ErrStationNotFound = errors.New("station not found")
	ErrBookingNotFound = errors.New("booking not found")
)
