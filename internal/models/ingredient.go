package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient identity is the (name, measurement unit) pair. Rows are
// created by the bulk bootstrap import and treated as immutable once a
// recipe references them.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;index;uniqueIndex:idx_name_measurement_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:10;not null;uniqueIndex:idx_name_measurement_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
