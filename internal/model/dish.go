package model

import "time"

// ExcludeFromSuggestionsHelp describes the exclude_from_suggestions flag to users.
const ExcludeFromSuggestionsHelp = "Meals marked with this, such as away days or dinner out will not be automatically suggested."

// Dish is a reusable meal idea owned by a user. Titles are unique per owner.
type Dish struct {
	ID                     string    `json:"id"`
	OwnerID                string    `json:"owner_id"`
	Title                  string    `json:"title"`
	Text                   string    `json:"text"`
	ExcludeFromSuggestions bool      `json:"exclude_from_suggestions"`
	PhotoKey               string    `json:"photo_key,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// DishSuggestion is a dish together with the date it was last scheduled.
// LastScheduled is nil for dishes that were never scheduled.
type DishSuggestion struct {
	Dish
	LastScheduled *time.Time `json:"last_scheduled"`
}
