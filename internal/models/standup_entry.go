package models

import "time"

// StandupEntry is one step of a user's daily standup walk. The set of a
// user's entries dated today is the whole session state: there is no stored
// state enum, both the webhook process and the trigger job derive the current
// position from the latest entry by timestamp.
type StandupEntry struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     uint64    `gorm:"not null;index" json:"user_id"`
	QuestionID uint64    `gorm:"not null;index" json:"question_id"`
	Answer     *string   `gorm:"type:text" json:"answer,omitempty"`
	Added      time.Time `gorm:"not null;index" json:"added"`
	MessageRef *string   `gorm:"type:varchar(255)" json:"message_ref,omitempty"`

	// Relations
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Question Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}
