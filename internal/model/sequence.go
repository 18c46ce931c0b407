package model

// SequenceCounter backs the gapless identifier sequences. One row per scope
// ("customer" for customer numbers, "receipt:<year>" for receipt numbers);
// Value is the last issued number in that scope.
type SequenceCounter struct {
	Scope string `gorm:"type:varchar(32);primaryKey"`
	Value int64  `gorm:"not null"`
}
