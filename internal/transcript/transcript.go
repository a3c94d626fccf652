// Copyright (c) 2025 Pulse Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"errors"
	"strings"

	"github.com/pulsedash/pulse-tui/internal/model"
)

// =============================================================================
// TURN STATE
// =============================================================================

// State is the lifecycle state of the current turn.
type State int

const (
	// StateIdle means no turn has been started in this transcript.
	StateIdle State = iota
	// StateAwaitingStart means the request is sent but no event has arrived.
	StateAwaitingStart
	// StateStreaming means content is accumulating.
	StateStreaming
	// StateClosed means the turn finished via end, error, failure, or cancel.
	StateClosed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingStart:
		return "awaiting-start"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// =============================================================================
// EFFECTS
// =============================================================================

// Effect tells the caller what side work a transition requires. The
// reconciler never performs I/O itself.
type Effect int

const (
	// EffectNone means no follow-up work.
	EffectNone Effect = iota
	// EffectRefreshConversations means the turn completed and the
	// conversation list should be refreshed, fire-and-forget.
	EffectRefreshConversations
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage rejects blank or whitespace-only submissions.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTurnInFlight rejects a submit while a turn is already open.
	ErrTurnInFlight = errors.New("a turn is already in flight")

	// ErrTurnOpen rejects switching conversations while a turn is open.
	ErrTurnOpen = errors.New("cannot switch conversations during an open turn")
)

// DefaultErrorMessage is surfaced as assistant content when a turn fails
// without a server-provided message.
const DefaultErrorMessage = "Sorry, I encountered an error. Please try again."

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler applies stream events to the transcript, one turn at a time.
//
// The open assistant message is tracked explicitly rather than inferred from
// the transcript's tail, so resuming into a historical conversation whose
// last message is from the assistant can never be mistaken for mid-turn
// accumulation.
type Reconciler struct {
	messages []*model.Message
	state    State

	// conversationID is the active conversation; empty until the backend
	// announces one in a start event or a conversation is loaded.
	conversationID string

	// Turn-scoped state, reset on every Submit.
	acc       strings.Builder
	open      *model.Message // the open assistant message, nil when none
	turnIDSet bool           // first-seen conversation id recorded this turn
}

// New creates an empty transcript reconciler.
func New() *Reconciler {
	return &Reconciler{state: StateIdle}
}

// State returns the current turn state.
func (r *Reconciler) State() State {
	return r.state
}

// TurnOpen reports whether a turn is in flight.
func (r *Reconciler) TurnOpen() bool {
	return r.state == StateAwaitingStart || r.state == StateStreaming
}

// ConversationID returns the active conversation id, or empty for a new
// conversation the backend has not named yet.
func (r *Reconciler) ConversationID() string {
	return r.conversationID
}

// Messages returns the transcript in order. The slice is owned by the
// reconciler; callers must not mutate it.
func (r *Reconciler) Messages() []*model.Message {
	return r.messages
}

// LastMessage returns the most recent message, or nil if empty.
func (r *Reconciler) LastMessage() *model.Message {
	if len(r.messages) == 0 {
		return nil
	}
	return r.messages[len(r.messages)-1]
}

// Accumulated returns the content received so far for the current turn.
func (r *Reconciler) Accumulated() string {
	return r.acc.String()
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit validates a user submission and opens a new turn.
//
// Rejects blank text and submissions while a turn is in flight; neither
// rejection mutates the transcript. On success the provisional user message
// is appended and returned, and the state moves to AwaitingStart. Opening the
// network stream is the caller's job.
func (r *Reconciler) Submit(text string) (*model.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	if r.TurnOpen() {
		return nil, ErrTurnInFlight
	}

	msg := model.NewUserMessage(r.conversationID, trimmed)
	r.messages = append(r.messages, msg)

	r.acc.Reset()
	r.open = nil
	r.turnIDSet = false
	r.state = StateAwaitingStart
	return msg, nil
}

// =============================================================================
// EVENT APPLICATION
// =============================================================================

// Apply folds one stream event into the transcript. Events arriving outside
// an open turn (after cancel, duplicate end) are ignored.
func (r *Reconciler) Apply(ev model.StreamEvent) Effect {
	if !r.TurnOpen() {
		return EffectNone
	}

	switch ev.Type {
	case model.EventStart:
		return r.applyStart(ev)
	case model.EventContent:
		return r.applyContent(ev)
	case model.EventEnd:
		r.closeTurn()
		return EffectRefreshConversations
	case model.EventError:
		return r.applyError(ev)
	default:
		// The decoder drops unknown types before they get here.
		return EffectNone
	}
}

// applyStart records the turn's conversation id, first-seen wins.
func (r *Reconciler) applyStart(ev model.StreamEvent) Effect {
	if !r.turnIDSet && ev.ConversationID != "" {
		r.conversationID = ev.ConversationID
		r.turnIDSet = true
		if r.open != nil && r.open.ConversationID == "" {
			r.open.ConversationID = ev.ConversationID
		}
	}
	r.state = StateStreaming
	return EffectNone
}

// applyContent accumulates text and resyncs the open assistant message.
// Valid without a prior start: some providers omit it, in which case the
// conversation id stays empty for the turn.
func (r *Reconciler) applyContent(ev model.StreamEvent) Effect {
	r.acc.WriteString(ev.Text)

	if r.open != nil {
		// The accumulator is authoritative: replace, never append.
		r.open.Content = r.acc.String()
	} else {
		msg := model.NewAssistantMessage(r.conversationID, r.acc.String())
		r.messages = append(r.messages, msg)
		r.open = msg
	}

	r.state = StateStreaming
	return EffectNone
}

// applyError surfaces a protocol error as assistant-authored content and
// closes the turn. Errors land in the transcript, not a separate channel, so
// the UI has no distinct error-display path for chat turns.
func (r *Reconciler) applyError(ev model.StreamEvent) Effect {
	text := ev.Text
	if text == "" {
		text = DefaultErrorMessage
	}
	r.messages = append(r.messages, model.NewAssistantMessage(r.conversationID, text))
	r.closeTurn()
	return EffectNone
}

// =============================================================================
// FAILURE AND CANCELLATION
// =============================================================================

// Fail closes the turn after a transport failure (connection reset, non-2xx
// before streaming). Treated exactly like an error event with the default
// message. No-op when no turn is open.
func (r *Reconciler) Fail() {
	if !r.TurnOpen() {
		return
	}
	r.applyError(model.StreamEvent{Type: model.EventError})
}

// Cancel closes the turn after a caller-initiated abort. Unlike Fail, no
// synthetic error message is appended: the user stopped the stream, the
// stream did not break.
func (r *Reconciler) Cancel() {
	if !r.TurnOpen() {
		return
	}
	r.closeTurn()
}

// closeTurn moves to Closed and clears the open-turn marker.
func (r *Reconciler) closeTurn() {
	r.state = StateClosed
	r.open = nil
}

// =============================================================================
// CONVERSATION SWITCHING
// =============================================================================

// SwitchConversation replaces the transcript wholesale with a loaded history
// and activates that conversation. Disallowed mid-turn: the in-flight
// stream's target transcript must not be torn down underneath it.
//
// Loaded messages carry server-assigned ids, superseding any provisional ids
// from earlier optimistic appends.
func (r *Reconciler) SwitchConversation(id string, history []model.Message) error {
	if r.TurnOpen() {
		return ErrTurnOpen
	}

	r.messages = make([]*model.Message, len(history))
	for i := range history {
		msg := history[i]
		r.messages[i] = &msg
	}
	r.conversationID = id
	r.resetTurn()
	return nil
}

// StartNew empties the transcript for a fresh conversation. Disallowed
// mid-turn for the same reason as SwitchConversation.
func (r *Reconciler) StartNew() error {
	if r.TurnOpen() {
		return ErrTurnOpen
	}

	r.messages = nil
	r.conversationID = ""
	r.resetTurn()
	return nil
}

// resetTurn returns the reconciler to Idle with no turn-scoped state.
func (r *Reconciler) resetTurn() {
	r.state = StateIdle
	r.acc.Reset()
	r.open = nil
	r.turnIDSet = false
}
