package utils

import "strings"

// CleanArgument trims the whitespace and quote characters chat frontends
// wrap around slash-command argument text.
func CleanArgument(s string) string {
	return strings.Trim(s, ` "'`)
}

// SplitScheduleArgs splits "day time" argument text into its two parts.
// It reports false unless exactly two fields are present.
func SplitScheduleArgs(s string) (day, timeOfDay string, ok bool) {
	fields := strings.Fields(CleanArgument(s))
	if len(fields) != 2 {
		return "", "", false
	}
	return CleanArgument(fields[0]), CleanArgument(fields[1]), true
}
