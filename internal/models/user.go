package models

import "time"

// User is created or refreshed on every "added to space" event and is only
// ever soft-deleted: "removed from space" flips Active off and clears the
// team reference, the row itself stays.
type User struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ExternalID string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"external_id"`
	Name       string    `gorm:"type:varchar(255)" json:"name"`
	Email      string    `gorm:"type:varchar(255)" json:"email"`
	AvatarURL  string    `gorm:"type:varchar(512)" json:"avatar_url"`
	Space      *string   `gorm:"type:varchar(255)" json:"space,omitempty"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	TeamID     *uint64   `gorm:"index" json:"team_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Team      *Team          `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Schedules []Schedule     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Entries   []StandupEntry `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
