package models

// SchemaVersion is a single-row table recording the last applied migration
// step. Migrations are forward-only and applied in order at startup.
type SchemaVersion struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	Version int    `gorm:"not null" json:"version"`
}
