package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DatasetSource names one upstream data provider (IBGE, TSE).
type DatasetSource struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
}

// DatasetRecord is one synced payload snapshot for a source. The newest record
// per source is the authoritative dataset.
type DatasetRecord struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	SourceID      uuid.UUID       `json:"source_id" gorm:"type:uuid;index;not null"`
	Source        DatasetSource   `json:"-" gorm:"foreignKey:SourceID"`
	ReferenceDate time.Time       `json:"reference_date"`
	PayloadJSON   json.RawMessage `json:"payload_json" gorm:"type:jsonb"`
	CreatedAt     time.Time       `json:"created_at"`
}
