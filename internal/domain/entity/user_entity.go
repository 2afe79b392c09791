package entity

import (
	"time"
)

// User is a library member who can hold reservations.
// The reservation lifecycle only reads it.
type User struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
