package engine

import "time"

// EventType identifies what happened in the engine.
type EventType string

const (
	// EventPhaseChange is emitted once for every phase that begins,
	// including the first work phase of a run.
	EventPhaseChange EventType = "phase_change"
	// EventFinished is emitted once when a run reaches its stop condition.
	EventFinished EventType = "finished"
	EventPaused   EventType = "paused"
	EventResumed  EventType = "resumed"
	EventReset    EventType = "reset"
)

// Event describes a transition of the engine.
type Event struct {
	At       time.Time
	Deadline time.Time
	// Session is the record produced by a finished or reset run. It is nil
	// when the run had no recorded time.
	Session                *SessionRecord
	Type                   EventType
	Phase                  PhaseType
	Previous               PhaseType
	CompletedWorkIntervals int
}

// Listener receives engine events. Listeners are invoked synchronously, in
// registration order, from within the transition that produced the event, so
// they must not call back into the engine.
type Listener func(Event)

// Subscribe registers l for every future event.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}
