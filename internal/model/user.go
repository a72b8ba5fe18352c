package model

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Currency     string    `db:"currency"` // ISO 4217 code used for formatted amounts
	CreatedAt    time.Time `db:"created_at"`
}
