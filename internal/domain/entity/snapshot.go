package entity

import "time"

// Snapshot is one persisted JSON document, keyed by name.
type Snapshot struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Data      []byte    `gorm:"type:bytea;not null" json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Snapshot) TableName() string {
	return "pos_snapshots"
}
