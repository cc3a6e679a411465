package feedback

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/rileylov/designlab/internal/slide"
)

// movedCoalesceWindow caps how often live drag positions are sent. Pending
// positions are flushed latest-wins at most once per window.
const movedCoalesceWindow = 50 * time.Millisecond

type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

type eventData struct {
	Offset    float64 `json:"offset"`
	Completed bool    `json:"completed"`
	Profile   string  `json:"profile,omitempty"`
}

// Snapshot is the last state seen by the sink, sent as state_init.
type Snapshot struct {
	Offset    float64 `json:"offset"`
	Completed bool    `json:"completed"`
}

type stamped struct {
	ev slide.Event
	at time.Time
}

// Sink adapts the hub to slide.Sink. Emit never blocks; when the queue is
// full the event is dropped.
type Sink struct {
	logger *slog.Logger
	events chan stamped

	mu   sync.Mutex
	last Snapshot
}

// NewSink returns a sink with a queue of size buf.
func NewSink(logger *slog.Logger, buf int) *Sink {
	if buf <= 0 {
		buf = 256
	}
	return &Sink{logger: logger, events: make(chan stamped, buf)}
}

func (s *Sink) Emit(e slide.Event) {
	s.mu.Lock()
	s.last = Snapshot{Offset: e.Offset, Completed: e.Completed}
	s.mu.Unlock()

	select {
	case s.events <- stamped{ev: e, at: time.Now().UTC()}:
	default:
		s.logger.Warn("feedback sink queue full, dropping event", "kind", e.Kind.String())
	}
}

// Snapshot returns the most recently emitted state.
func (s *Sink) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func marshal(e slide.Event, at time.Time) ([]byte, error) {
	data := eventData{Offset: e.Offset, Completed: e.Completed}
	if e.Kind != slide.EventMoved && e.Kind != slide.EventPulse {
		data.Profile = e.Profile.String()
	}
	return json.Marshal(envelope{Type: e.Kind.String(), Ts: &at, Data: data})
}

// Run forwards queued events to hub until ctx is canceled. Moved events
// are coalesced; any other event first flushes the pending position so
// ordering is preserved.
func (s *Sink) Run(ctx context.Context, hub *Hub) {
	var pending *stamped
	var timer *time.Timer
	var timerC <-chan time.Time

	send := func(st stamped) {
		msg, err := marshal(st.ev, st.at)
		if err != nil {
			s.logger.Warn("feedback marshal failed", "error", err, "kind", st.ev.Kind.String())
			return
		}
		hub.Publish(msg)
	}
	flush := func() {
		if pending != nil {
			send(*pending)
			pending = nil
		}
	}
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, timerC = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			stopTimer()
			return

		case <-timerC:
			flush()
			stopTimer()

		case st := <-s.events:
			if st.ev.Kind == slide.EventMoved {
				cp := st
				pending = &cp
				if timer == nil {
					timer = time.NewTimer(movedCoalesceWindow)
					timerC = timer.C
				}
				continue
			}
			flush()
			stopTimer()
			send(st)
		}
	}
}
