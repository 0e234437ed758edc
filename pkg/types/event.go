package types

// EventState is the propagation signal returned by every event handler.
type EventState int

const (
	NotConsumed EventState = iota
	Consumed
)

// IsConsumed reports whether handling should stop.
func (s EventState) IsConsumed() bool {
	return s == Consumed
}

func (s EventState) String() string {
	if s == Consumed {
		return "consumed"
	}
	return "not consumed"
}

// StateFrom converts a "did something change" flag into an EventState.
func StateFrom(consumed bool) EventState {
	if consumed {
		return Consumed
	}
	return NotConsumed
}

// ScrollType is the direction of a selection move or a raw pan.
type ScrollType int

const (
	ScrollUp ScrollType = iota
	ScrollDown
)
