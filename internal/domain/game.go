package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Condition describes the physical state of a game's cartridge or disc
// and packaging.
type Condition string

// Possible game condition values, best to worst.
const (
	ConditionMint Condition = "mint"
	ConditionGood Condition = "good"
	ConditionFair Condition = "fair"
	ConditionPoor Condition = "poor"
)

// Common validation errors for Game
var (
	ErrEmptyGameID            = errors.New("game ID cannot be empty")
	ErrEmptyGameName          = errors.New("game name cannot be empty")
	ErrEmptyPublisher         = errors.New("game publisher cannot be empty")
	ErrEmptySystem            = errors.New("game system cannot be empty")
	ErrInvalidYearPublished   = errors.New("year published must be a positive year")
	ErrInvalidCondition       = errors.New("invalid game condition")
	ErrNegativePreviousOwners = errors.New("previous owners cannot be negative")
	ErrEmptyOwnerID           = errors.New("game owner ID cannot be empty")
)

// Game represents a retro video game listed by its owner on the exchange.
// PreviousOwners is optional; nil means the owner never reported it.
type Game struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Publisher      string    `json:"publisher"`
	YearPublished  int       `json:"year_published"`
	System         string    `json:"system"`
	Condition      Condition `json:"condition"`
	PreviousOwners *int      `json:"previous_owners"`
	OwnerID        uuid.UUID `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewGame creates a new Game owned by the given user.
// It generates a new UUID for the game ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewGame(
	name, publisher string,
	yearPublished int,
	system string,
	condition Condition,
	previousOwners *int,
	ownerID uuid.UUID,
) (*Game, error) {
	game := &Game{
		ID:             uuid.New(),
		Name:           name,
		Publisher:      publisher,
		YearPublished:  yearPublished,
		System:         system,
		Condition:      condition,
		PreviousOwners: previousOwners,
		OwnerID:        ownerID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := game.Validate(); err != nil {
		return nil, err
	}

	return game, nil
}

// Validate checks if the Game has valid data.
// Returns an error if any field fails validation.
func (g *Game) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGameID
	}

	if g.Name == "" {
		return ErrEmptyGameName
	}

	if g.Publisher == "" {
		return ErrEmptyPublisher
	}

	if g.YearPublished <= 0 {
		return ErrInvalidYearPublished
	}

	if g.System == "" {
		return ErrEmptySystem
	}

	if !isValidCondition(g.Condition) {
		return ErrInvalidCondition
	}

	if g.PreviousOwners != nil && *g.PreviousOwners < 0 {
		return ErrNegativePreviousOwners
	}

	if g.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}

	return nil
}

// ParseCondition converts a raw string into a Condition.
// Returns ErrInvalidCondition if the string is not a known condition.
func ParseCondition(s string) (Condition, error) {
	condition := Condition(s)
	if !isValidCondition(condition) {
		return "", ErrInvalidCondition
	}
	return condition, nil
}

// isValidCondition checks if the given condition is a valid Condition.
func isValidCondition(condition Condition) bool {
	switch condition {
	case ConditionMint, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}
