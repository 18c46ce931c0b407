package repository

import (
	"context"

	"gorm.io/gorm"
)

// SequenceRepository is the persistence side of the sequence allocator.
// Next must be called inside the same transaction as the write that consumes
// the number, so a rollback returns the counter to its previous value and the
// sequence stays gapless.
type SequenceRepository interface {
	Next(ctx context.Context, tx *gorm.DB, scope string) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

// Next atomically increments the counter for scope and returns the new value.
// The upsert takes a row lock, so two transactions racing on the same scope
// serialize here instead of both reading the same maximum.
func (r *sequenceRepo) Next(ctx context.Context, tx *gorm.DB, scope string) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var value int64
	err := tx.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (scope, value) VALUES (?, 1)
		ON CONFLICT (scope) DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value
	`, scope).Scan(&value).Error
	return value, err
}
