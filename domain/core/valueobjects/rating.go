package valueobjects

import (
	"fmt"

	pkgerrors "github.com/aeroxkoki/sailing-sub005/pkg/errors"
)

// Rating is a session quality score between 0 and 5 inclusive.
type Rating struct {
	value int
}

// NewRating creates a rating, rejecting out-of-range values
func NewRating(value int) (Rating, error) {
	if value < 0 || value > 5 {
		return Rating{}, pkgerrors.NewValidation(
			fmt.Sprintf("rating must be between 0 and 5, got %d", value))
	}
	return Rating{value: value}, nil
}

// Int returns the numeric rating
func (r Rating) Int() int {
	return r.value
}

// Equals checks if two ratings are equal
func (r Rating) Equals(other Rating) bool {
	return r.value == other.value
}
