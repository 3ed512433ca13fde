package service

import (
	"context"
	"fmt"
	"strings"

	"herbal/entities"
)

type PlantService interface {
	Create(ctx context.Context, in PlantInput) (*entities.Plant, error)
	Update(ctx context.Context, id string, patch PlantPatch) (*entities.Plant, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*entities.Plant, error)
	List(ctx context.Context, query string) ([]entities.Plant, error)
}

// PlantInput is what the admin add form submits.
type PlantInput struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Benefit     string              `json:"benefit"`
	Compounds   []entities.Compound `json:"compounds"`
	ImageURL    string              `json:"image_url"`
}

// PlantPatch carries the fields the edit form changed; nil means unchanged.
type PlantPatch struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Benefit     *string              `json:"benefit"`
	Compounds   *[]entities.Compound `json:"compounds"`
	ImageURL    *string              `json:"image_url"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// Required returns a ValidationError for field when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}
