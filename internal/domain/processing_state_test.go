package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkEventProcessed(t *testing.T) {
	var state UserProcessingState

	assert.True(t, state.MarkEventProcessed("e1"))
	assert.True(t, state.MarkEventProcessed("e2"))
	assert.False(t, state.MarkEventProcessed("e1"), "second mark of the same event is a no-op")

	assert.True(t, state.IsEventProcessed("e1"))
	assert.True(t, state.IsEventProcessed("e2"))
	assert.False(t, state.IsEventProcessed("e3"))
	assert.Len(t, state.ProcessedEventIDs, 2)
}

func TestAddError_KeepsMostRecent(t *testing.T) {
	var state UserProcessingState

	for i := 0; i < MaxRecentErrors+5; i++ {
		state.AddError(PhaseProcessing, fmt.Sprintf("e%d", i), "", fmt.Sprintf("error %d", i))
	}

	require.Len(t, state.RecentErrors, MaxRecentErrors)
	assert.Equal(t, "error 5", state.RecentErrors[0].ErrorMessage, "oldest entries dropped first")
	assert.Equal(t, fmt.Sprintf("error %d", MaxRecentErrors+4),
		state.RecentErrors[MaxRecentErrors-1].ErrorMessage)
	assert.Equal(t, MaxRecentErrors+5, state.Stats.ErrorsEncountered,
		"counter keeps counting past the buffer size")
}

func TestAddAction_KeepsMostRecent(t *testing.T) {
	var state UserProcessingState

	for i := 0; i < MaxActionHistory+3; i++ {
		state.AddAction(ActionProcess, fmt.Sprintf("action %d", i), "", "", true)
	}

	require.Len(t, state.ActionHistory, MaxActionHistory)
	assert.Equal(t, "action 3", state.ActionHistory[0].Details)
	assert.Equal(t, fmt.Sprintf("action %d", MaxActionHistory+2),
		state.ActionHistory[MaxActionHistory-1].Details)
}

func TestSetPhase(t *testing.T) {
	var state UserProcessingState

	state.SetPhase(PhaseCollecting, true)
	assert.Equal(t, PhaseCollecting, state.Current.CurrentPhase)
	assert.True(t, state.Current.IsProcessing)
	assert.False(t, state.Current.LastStateUpdate.IsZero())

	state.SetPhase(PhaseIdle, false)
	assert.Equal(t, PhaseIdle, state.Current.CurrentPhase)
	assert.False(t, state.Current.IsProcessing)
}

func TestClear(t *testing.T) {
	var state UserProcessingState
	state.MarkEventProcessed("e1")
	state.AddAction(ActionCollect, "collected", "", "", true)
	state.AddError(PhaseCollecting, "", "", "boom")
	state.SetPhase(PhaseProcessing, true)

	state.Clear()

	assert.Empty(t, state.ProcessedEventIDs)
	assert.Empty(t, state.ActionHistory)
	assert.Empty(t, state.RecentErrors)
	assert.Equal(t, ProcessingStats{}, state.Stats)
	assert.Equal(t, PhaseIdle, state.Current.CurrentPhase)
	assert.False(t, state.Current.IsProcessing)
}
