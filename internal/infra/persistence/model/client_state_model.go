package model

import (
	"time"
)

// ClientStateModel is the GORM-specific struct for the 'client_states' table.
// Each row is one serialized collection of one client namespace.
type ClientStateModel struct {
	Namespace  string `gorm:"type:varchar(64);primaryKey"`
	Collection string `gorm:"type:varchar(64);primaryKey"`
	Payload    []byte `gorm:"type:jsonb;not null"`
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (ClientStateModel) TableName() string {
	return "client_states"
}
