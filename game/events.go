package game

import "snake-arcade/game/types"

// EventKind tags what happened during a tick.
type EventKind int

const (
	EventReset EventKind = iota
	EventTurned
	EventMoved
	EventAte
	EventGameOver
	// EventBoardFull: the snake covers every cell and no food could be placed.
	EventBoardFull
)

func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventTurned:
		return "turned"
	case EventMoved:
		return "moved"
	case EventAte:
		return "ate"
	case EventGameOver:
		return "game_over"
	case EventBoardFull:
		return "board_full"
	}
	return "unknown"
}

// Event is delivered to listeners after the engine lock is released.
type Event struct {
	Kind      EventKind
	Head      types.Position
	Direction types.Direction
	Score     int
}

// Listener observes engine events. Listeners must not block: they run on the
// goroutine that drove the engine.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

func notify(listeners []Listener, events []Event) {
	for _, e := range events {
		for _, l := range listeners {
			l.OnEvent(e)
		}
	}
}
