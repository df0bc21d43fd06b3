package dto

import "github.com/example/standup-bot/internal/constants"

// ChatEvent is the structured event the transport delivers to the webhook:
// membership changes, messages (slash commands or free text), and card
// actions.
type ChatEvent struct {
	Type    string        `json:"type" binding:"required"`
	User    EventUser     `json:"user"`
	Space   EventSpace    `json:"space"`
	Message *EventMessage `json:"message,omitempty"`
	Action  *EventAction  `json:"action,omitempty"`
}

// EventUser is the opaque user descriptor attached to every event.
type EventUser struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl"`
}

// EventSpace describes where the event happened.
type EventSpace struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsRoom reports whether the space is a shared room rather than a direct
// conversation.
func (s EventSpace) IsRoom() bool {
	return s.Type == constants.SpaceTypeRoom
}

// EventMessage carries either a slash command plus argument text, or free
// text intended as a standup answer.
type EventMessage struct {
	Text         string        `json:"text"`
	ArgumentText string        `json:"argumentText"`
	SlashCommand *SlashCommand `json:"slashCommand,omitempty"`
}

// SlashCommand identifies the invoked command.
type SlashCommand struct {
	CommandID string `json:"commandId"`
}

// EventAction is an interactive card action with its parameters.
type EventAction struct {
	ActionMethodName string            `json:"actionMethodName"`
	Parameters       []ActionParameter `json:"parameters"`
}

// ActionParameter is one key/value pair of a card action.
type ActionParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Parameter returns the value at the given position, or "" when the action
// carries fewer parameters.
func (a EventAction) Parameter(i int) string {
	if i < 0 || i >= len(a.Parameters) {
		return ""
	}
	return a.Parameters[i].Value
}
