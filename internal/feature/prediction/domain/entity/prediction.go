// Package entity defines the domain entities for the prediction feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Prediction type tags. The enumeration is extensible: the store treats the
// tag as an opaque string.
const (
	TypeHouse    = "house"
	TypeDiabetes = "diabetes"
)

// Prediction records one inference event for a user. Records are append-only:
// they are created once per successful prediction call and never mutated.
type Prediction struct {
	// ID is an opaque identifier assigned at creation.
	ID string `gorm:"type:text;primaryKey"`

	// UserID references the owning user. The store enforces no referential
	// integrity itself; cascading delete is the caller's responsibility.
	UserID uint `gorm:"index;not null"`

	// PredictionType tags which model produced this record.
	PredictionType string `gorm:"size:32;not null"`

	// InputData holds the raw validated request payload as submitted.
	InputData datatypes.JSON

	// PredictedValue is the numeric result: continuous for house,
	// a discrete class index for diabetes.
	PredictedValue float64

	// Metadata holds auxiliary derived output such as class probabilities.
	// It is type-specific and opaque to the store.
	Metadata datatypes.JSON

	// CreatedAt is the timestamp when the prediction was made.
	CreatedAt time.Time `gorm:"index"`
}

// BeforeCreate assigns a fresh UUID when no ID was set.
func (p *Prediction) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
