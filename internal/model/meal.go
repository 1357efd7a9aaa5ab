package model

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Meal is a dish scheduled on a calendar date. Date is held at UTC midnight.
type Meal struct {
	ID        string    `json:"id"`
	DishID    string    `json:"dish_id"`
	DishTitle string    `json:"dish_title"`
	Date      time.Time `json:"date"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}
