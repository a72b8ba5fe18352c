package model

import (
	"time"
)

const (
	FileTypeReceipt = "receipt"

	OwnerTypeExpense = "expense"
)

type File struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`    // Who uploaded the file
	OwnerType    string    `db:"owner_type"` // "expense"
	OwnerID      string    `db:"owner_id"`
	Type         string    `db:"type"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	CreatedAt    time.Time `db:"created_at"`

	// Computed fields (not in database)
	URL string `db:"-"`
}
