package slide

// EventKind identifies a controller notification.
type EventKind int

const (
	EventMoved EventKind = iota
	EventPulse
	EventCompleted
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventMoved:
		return "moved"
	case EventPulse:
		return "pulse"
	case EventCompleted:
		return "completed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is a fire-and-forget notification for the presentation layer.
type Event struct {
	Kind      EventKind
	Offset    float64
	Completed bool
	Profile   Profile
}

// Sink receives controller events. Emit must not block.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Fanout delivers each event to every non-nil sink in order.
type Fanout []Sink

func (f Fanout) Emit(e Event) {
	for _, s := range f {
		if s != nil {
			s.Emit(e)
		}
	}
}

// Only forwards the listed kinds to next.
func Only(next Sink, kinds ...EventKind) Sink {
	return SinkFunc(func(e Event) {
		for _, k := range kinds {
			if e.Kind == k {
				next.Emit(e)
				return
			}
		}
	})
}
