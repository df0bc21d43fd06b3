package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanArgument(t *testing.T) {
	require.Equal(t, "backend", CleanArgument(` "backend" `))
	require.Equal(t, "backend", CleanArgument("'backend'"))
	require.Equal(t, "backend team", CleanArgument("backend team"))
	require.Equal(t, "", CleanArgument(`  "" `))
}

func TestSplitScheduleArgs(t *testing.T) {
	day, timeOfDay, ok := SplitScheduleArgs(" monday 09:30:00 ")
	require.True(t, ok)
	require.Equal(t, "monday", day)
	require.Equal(t, "09:30:00", timeOfDay)

	_, _, ok = SplitScheduleArgs("monday")
	require.False(t, ok)

	_, _, ok = SplitScheduleArgs("monday 09:30:00 extra")
	require.False(t, ok)

	_, _, ok = SplitScheduleArgs("")
	require.False(t, ok)
}
