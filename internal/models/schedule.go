package models

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists all days in schedule-creation order. The first five are
// enabled by default for new users.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday matches a day name case-insensitively on the first letter
// being capitalized, e.g. "monday" and "Monday" both resolve.
func ParseWeekday(s string) (Weekday, bool) {
	for _, day := range Weekdays {
		if string(day) == s || string(day) == capitalize(s) {
			return day, true
		}
	}
	return "", false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// Schedule configures whether and when a daily standup is auto-started for a
// user on one weekday. Exactly one row exists per (user, weekday); the seven
// rows are created together with the user.
type Schedule struct {
	ID      uint64  `gorm:"primarykey" json:"id"`
	UserID  uint64  `gorm:"not null;uniqueIndex:idx_schedules_user_day,priority:1" json:"user_id"`
	Day     Weekday `gorm:"type:varchar(16);not null;uniqueIndex:idx_schedules_user_day,priority:2" json:"day"`
	Time    string  `gorm:"type:varchar(8);not null;default:'09:00:00'" json:"time"`
	Enabled bool    `gorm:"not null;default:true" json:"enabled"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
