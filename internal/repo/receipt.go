// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// GenerationReceipt model used to implement safe-retry semantics for the
// batch-generation endpoint.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edupulse/go-coach-backend/internal/domain"
)

// ErrDuplicate indicates that a receipt already exists for the given
// (user_id, trigger_type, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetReceipt returns a non-expired receipt or ErrNotFound.
func GetReceipt(ctx context.Context, db *gorm.DB, userID string, trigger domain.TriggerType, key string, now time.Time) (*domain.GenerationReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.GenerationReceipt
	err := db.WithContext(ctx).
		Where("user_id = ? AND trigger_type = ? AND key = ? AND expires_at > ?", userID, trigger, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetReceiptByKey returns a non-expired receipt matching (userID, key)
// regardless of trigger, or ErrNotFound. Used by the idempotency middleware,
// which runs before the request body (and thus the trigger) is parsed.
func GetReceiptByKey(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.GenerationReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.GenerationReceipt
	err := db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateReceipt inserts a receipt recording the batch written at batchAt and
// returns ErrDuplicate on unique violation.
func CreateReceipt(ctx context.Context, db *gorm.DB, userID string, trigger domain.TriggerType, key string, batchAt time.Time, batchSize int, now time.Time, ttl time.Duration) (*domain.GenerationReceipt, error) {
	rec := &domain.GenerationReceipt{
		ID:          uuid.NewString(),
		UserID:      userID,
		TriggerType: trigger,
		Key:         key,
		BatchAt:     batchAt,
		BatchSize:   batchSize,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
