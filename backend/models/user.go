package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UID          string `gorm:"unique;not null"` // opaque identifier, keys the mission document
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string
	PhotoURL     string
}

type LoginHistory struct {
	gorm.Model
	UserID    uint
	LoginTime time.Time
}
