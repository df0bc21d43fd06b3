package models

import "time"

type Team struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Space     *string   `gorm:"type:varchar(255);index" json:"space,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Users     []User     `gorm:"foreignKey:TeamID" json:"users,omitempty"`
}
