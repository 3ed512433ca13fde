package entities

import "time"

type Admin struct {
	AdminID      uint   `gorm:"primaryKey" json:"admin_id"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
