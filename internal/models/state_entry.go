package models

import "time"

// StateEntry is one row of the durable local key-value state, the stand-in
// for browser localStorage. Values are opaque serialized blobs.
type StateEntry struct {
	Key       string `gorm:"primaryKey;size:256"`
	Value     []byte `gorm:"type:blob"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
