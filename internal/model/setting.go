package model

import "time"

// Setting is an opaque JSON value stored under a key (login flag, profile,
// DB config and similar client preferences).
type Setting struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
