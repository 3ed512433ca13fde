package entities

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Compound is one row of the active-compound table shown on a plant page.
type Compound struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type Plant struct {
	ID          string     `gorm:"primaryKey;size:26" json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Benefit     string     `json:"benefit"`
	Compounds   []Compound `gorm:"serializer:json" json:"compounds"`
	ImageURL    string     `json:"image_url"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a ULID so ids stay opaque but roughly follow insert order.
func (p *Plant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	return nil
}
