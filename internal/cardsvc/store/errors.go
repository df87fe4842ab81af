package store

import (
	"errors"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid id")
	ErrDuplicate       = errors.New("already exists")
	ErrCardAssigned    = errors.New("card already assigned")
	ErrCardNotAssigned = errors.New("card is not currently assigned")
	ErrCardInactive    = errors.New("card is inactive")
)

// assignConflict names why an assign matched no card, from the card as read
// after the failed attempt.
func assignConflict(current *models.Card) error {
	if current != nil && !current.IsActive && !current.IsAssigned {
		return ErrCardInactive
	}
	return ErrCardAssigned
}
