package domain

import (
	"time"
)

type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseCollecting    Phase = "collecting"
	PhaseDeduplicating Phase = "deduplicating"
	PhaseProcessing    Phase = "processing"
	PhaseSending       Phase = "sending"
	PhaseError         Phase = "error"
)

type ActionKind string

const (
	ActionCollect       ActionKind = "collect"
	ActionDeduplicate   ActionKind = "deduplicate"
	ActionProcess       ActionKind = "process"
	ActionSendEmail     ActionKind = "send_email"
	ActionSkipDuplicate ActionKind = "skip_duplicate"
	ActionError         ActionKind = "error"
	ActionClear         ActionKind = "clear"
)

// History buffer capacities: most recent N entries are retained, oldest
// dropped on append.
const (
	MaxRecentErrors  = 10
	MaxActionHistory = 20
)

// ProcessingStats are monotonic per-user counters, reset only by an
// explicit clear.
type ProcessingStats struct {
	EventsCollected    int        `json:"events_collected"`
	EventsProcessed    int        `json:"events_processed"`
	EmailsSent         int        `json:"emails_sent"`
	DuplicatesSkipped  int        `json:"duplicates_skipped"`
	ErrorsEncountered  int        `json:"errors_encountered"`
	LastCollectionTime *time.Time `json:"last_collection_time,omitempty"`
	LastProcessingTime *time.Time `json:"last_processing_time,omitempty"`
	LastEmailSentTime  *time.Time `json:"last_email_sent_time,omitempty"`
}

// ProcessingError is one entry in the bounded error history.
type ProcessingError struct {
	Timestamp    time.Time `json:"timestamp"`
	Phase        Phase     `json:"phase"`
	EventID      string    `json:"event_id,omitempty"`
	EventTitle   string    `json:"event_title,omitempty"`
	ErrorMessage string    `json:"error_message"`
}

// Action is one entry in the bounded action history.
type Action struct {
	Timestamp  time.Time  `json:"timestamp"`
	Kind       ActionKind `json:"action"`
	Details    string     `json:"details"`
	EventID    string     `json:"event_id,omitempty"`
	EventTitle string     `json:"event_title,omitempty"`
	Success    bool       `json:"success"`
}

// CurrentState tracks where the batch runner currently is for a user.
// CurrentPhase must return to idle at the end of every run, error paths
// included.
type CurrentState struct {
	IsProcessing    bool      `json:"is_processing"`
	CurrentPhase    Phase     `json:"current_phase"`
	LastStateUpdate time.Time `json:"last_state_update"`
}

// UserProcessingState is the durable per-user pipeline bookkeeping record.
// ProcessedEventIDs only grows until an explicit clear; it is the resumption
// checkpoint for interrupted runs. Version backs optimistic-concurrency
// updates at the storage layer.
type UserProcessingState struct {
	UserID            string            `json:"user_id"`
	Email             string            `json:"email"`
	ProcessedEventIDs []string          `json:"processed_event_ids"`
	Stats             ProcessingStats   `json:"stats"`
	Current           CurrentState      `json:"current_state"`
	RecentErrors      []ProcessingError `json:"recent_errors"`
	ActionHistory     []Action          `json:"action_history"`
	Version           int64             `json:"-"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// IsEventProcessed reports whether the event has already been processed for
// this user.
func (s *UserProcessingState) IsEventProcessed(eventID string) bool {
	for _, id := range s.ProcessedEventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// MarkEventProcessed adds the event to the processed set. Idempotent;
// returns true only when the event was newly added.
func (s *UserProcessingState) MarkEventProcessed(eventID string) bool {
	if s.IsEventProcessed(eventID) {
		return false
	}
	s.ProcessedEventIDs = append(s.ProcessedEventIDs, eventID)
	return true
}

// AddAction appends to the action history, dropping the oldest entry beyond
// MaxActionHistory.
func (s *UserProcessingState) AddAction(kind ActionKind, details, eventID, eventTitle string, success bool) {
	s.ActionHistory = append(s.ActionHistory, Action{
		Timestamp:  time.Now(),
		Kind:       kind,
		Details:    details,
		EventID:    eventID,
		EventTitle: eventTitle,
		Success:    success,
	})
	if len(s.ActionHistory) > MaxActionHistory {
		s.ActionHistory = s.ActionHistory[len(s.ActionHistory)-MaxActionHistory:]
	}
}

// AddError appends to the error history, dropping the oldest entry beyond
// MaxRecentErrors, and bumps the error counter.
func (s *UserProcessingState) AddError(phase Phase, eventID, eventTitle, message string) {
	s.RecentErrors = append(s.RecentErrors, ProcessingError{
		Timestamp:    time.Now(),
		Phase:        phase,
		EventID:      eventID,
		EventTitle:   eventTitle,
		ErrorMessage: message,
	})
	if len(s.RecentErrors) > MaxRecentErrors {
		s.RecentErrors = s.RecentErrors[len(s.RecentErrors)-MaxRecentErrors:]
	}
	s.Stats.ErrorsEncountered++
}

// SetPhase records a phase transition.
func (s *UserProcessingState) SetPhase(phase Phase, processing bool) {
	s.Current.CurrentPhase = phase
	s.Current.IsProcessing = processing
	s.Current.LastStateUpdate = time.Now()
}

// Clear resets all counters, histories and the processed-event set.
func (s *UserProcessingState) Clear() {
	s.ProcessedEventIDs = nil
	s.Stats = ProcessingStats{}
	s.RecentErrors = nil
	s.ActionHistory = nil
	s.SetPhase(PhaseIdle, false)
}
