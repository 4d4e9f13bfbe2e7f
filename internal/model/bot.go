package model

import "time"

// Bot is the persisted state of a warehouse robot.
type Bot struct {
	ID             string `gorm:"primaryKey;size:32"`
	Status         string `gorm:"size:32;not null"`
	Battery        int    `gorm:"not null"`
	TasksCompleted int    `gorm:"not null"`
	Location       string `gorm:"size:256"`
	CurrentTask    string `gorm:"size:512"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Associations
	History []BotHistory `gorm:"foreignKey:BotID;constraint:OnDelete:CASCADE"`
}

// BotHistory is one event in a bot's log. Rows are only ever inserted; the
// auto-increment id preserves insertion order.
type BotHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	BotID     string    `gorm:"size:32;not null;index"`
	Timestamp time.Time `gorm:"not null"`
	Event     string    `gorm:"size:512;not null"`
}
