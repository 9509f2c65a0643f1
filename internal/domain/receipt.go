// Package domain defines the core persistence models for the service.
package domain

import "time"

// GenerationReceipt records a previously processed batch-generation request,
// keyed by (user_id, trigger_type, key). It enables safe retries of the
// generation endpoint: a retried request carrying the same Idempotency-Key is
// answered from the receipt instead of writing a second batch.
type GenerationReceipt struct {
	ID          string      `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID      string      `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_trigger_key,priority:1"`
	TriggerType TriggerType `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_trigger_key,priority:2"`
	Key         string      `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_trigger_key,priority:3"`
	// BatchAt is the shared created_at of the receipted batch; replays fetch
	// exactly those rows rather than whatever "today" holds at retry time.
	BatchAt   time.Time `gorm:"type:DATETIME NOT NULL"`
	BatchSize int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (GenerationReceipt) TableName() string { return "generation_receipts" }
