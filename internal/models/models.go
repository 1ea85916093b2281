package models

import (
	"time"
)

// DefaultImage is used when a sweet is created without an image URL.
const DefaultImage = "https://placehold.co/400?text=Sweet"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Name         string `gorm:"not null"                 json:"name"`
	Role         string `gorm:"not null"                 json:"role"`
}

type Sweet struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `gorm:"not null"                 json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Quantity    uint      `gorm:"not null;default:0"       json:"quantity"`
	Category    string    `gorm:"not null;index"           json:"category"`
	Image       string    `gorm:"not null"                 json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
