package valueobjects

import (
	"fmt"

	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// Position is a geographic coordinate attached to an annotation.
type Position struct {
	latitude  float64
	longitude float64
}

// NewPosition creates a validated geographic position
func NewPosition(latitude, longitude float64) (Position, error) {
	if latitude < -90 || latitude > 90 {
		return Position{}, pkgerrors.NewValidation(
			fmt.Sprintf("latitude must be between -90 and 90, got %f", latitude))
	}
	if longitude < -180 || longitude > 180 {
		return Position{}, pkgerrors.NewValidation(
			fmt.Sprintf("longitude must be between -180 and 180, got %f", longitude))
	}
	return Position{latitude: latitude, longitude: longitude}, nil
}

// Latitude returns the latitude in degrees
func (p Position) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees
func (p Position) Longitude() float64 {
	return p.longitude
}

// Equals checks if two positions are identical
func (p Position) Equals(other Position) bool {
	return p.latitude == other.latitude && p.longitude == other.longitude
}
