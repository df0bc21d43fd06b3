package models

// SentinelOrder is the reserved order of the hidden per-team marker question.
// Recording an entry against it means "session started today"; it is never
// shown to users and never carries an answer.
const SentinelOrder = 0

type Question struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	TeamID uint64 `gorm:"not null;uniqueIndex:idx_questions_team_order,priority:1;uniqueIndex:idx_questions_team_text,priority:1" json:"team_id"`
	Text   string `gorm:"type:varchar(1024);not null;uniqueIndex:idx_questions_team_text,priority:2" json:"text"`
	Order  int    `gorm:"column:question_order;not null;uniqueIndex:idx_questions_team_order,priority:2" json:"order"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// IsSentinel reports whether the question is the hidden start-of-day marker.
func (q Question) IsSentinel() bool {
	return q.Order == SentinelOrder
}
