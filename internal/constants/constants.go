package constants

// DefaultScheduleTime is the trigger time every new schedule row starts with.
const DefaultScheduleTime = "09:00:00"

// DefaultEnabledDays is how many weekdays (counted from Monday) are enabled
// when a user's schedules are first created.
const DefaultEnabledDays = 5

// Chat event types delivered to the webhook.
const (
	EventAddedToSpace     = "ADDED_TO_SPACE"
	EventRemovedFromSpace = "REMOVED_FROM_SPACE"
	EventMessage          = "MESSAGE"
	EventCardClicked      = "CARD_CLICKED"
)

// SpaceTypeRoom marks a shared room space as opposed to a direct conversation.
const SpaceTypeRoom = "ROOM"

// Slash command ids as registered with the chat frontend.
const (
	CommandAddTeam            = "1"
	CommandTeams              = "3"
	CommandJoinTeam           = "4"
	CommandUsers              = "5"
	CommandStandup            = "6"
	CommandDisableSchedule    = "7"
	CommandEnableSchedule     = "8"
	CommandChangeScheduleTime = "9"
	CommandSchedules          = "10"
	CommandLeaveTeam          = "11"
	CommandRemoveTeam         = "12"
	CommandQuestions          = "13"
	CommandAddQuestion        = "14"
	CommandRemoveQuestion     = "15"
	CommandReorderQuestions   = "16"
)

// Card action method names.
const (
	ActionJoinTeam         = "join_team"
	ActionRemoveTeam       = "remove_team"
	ActionSendAnswers      = "send_answers"
	ActionRemoveQuestion   = "remove_question"
	ActionReorderQuestions = "reorder_questions"
)
