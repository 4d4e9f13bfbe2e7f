package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription with no bots receives alerts for the whole fleet.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Bots []*Bot `gorm:"many2many:subscription_bot_mapping;"`
}
