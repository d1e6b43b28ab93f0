package models

import "time"

// Product categories selectable at creation time.
const (
	CategoryGeneral   = "General"
	CategoryFood      = "Food"
	CategoryMedicine  = "Medicine"
	CategoryCosmetics = "Cosmetics"
	CategoryOther     = "Other"
)

// Reminder lead times selectable at creation time.
const (
	RemindBefore1Day    = "1day"
	RemindBefore3Days   = "3days"
	RemindBefore1Month  = "1month"
	RemindBefore3Months = "3months"
	RemindBefore6Months = "6months"
)

// Product is a perishable item tracked by a single user. Expiry carries
// calendar-day granularity; the time component is always midnight UTC.
type Product struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"userId" json:"userId"`
	Name         string    `bson:"product" json:"product"`
	Expiry       time.Time `bson:"expiry" json:"expiry"`
	Category     string    `bson:"category" json:"category"`
	Quantity     int       `bson:"quantity" json:"quantity"`
	Comment      string    `bson:"comment,omitempty" json:"comment,omitempty"`
	RemindBefore string    `bson:"remindBefore" json:"remindBefore"`
	Owner        string    `bson:"owner" json:"owner"`
	Notified     bool      `bson:"notified" json:"notified"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// ProductSummary holds the dashboard counters.
type ProductSummary struct {
	Total      int `json:"total"`
	NearExpiry int `json:"nearExpiry"`
	Expired    int `json:"expired"`
}
