// Package dragdrop turns raw pointer, touch and keyboard input into discrete
// move events. A session tracks exactly one gesture and emits at most one
// terminal event: a same-list Reorder or a cross-container Transfer. Movement
// below the activation threshold never leaves the idle state, so plain clicks
// pass through untouched.
package dragdrop

import (
	"math"
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

// Defaults match the tuned values of the web UI this replaces: a short mouse
// travel to distinguish drag intent from a click, and a press-and-hold delay
// so touch scrolling is not hijacked.
const (
	DefaultActivationDistance = 6.0
	DefaultHoldDelay          = 250 * time.Millisecond
)

type State int

const (
	StateIdle State = iota
	StateDragging
)

// Point is a screen coordinate in px.
type Point struct {
	X, Y float64
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ItemRef locates the dragged item at gesture start.
type ItemRef struct {
	ID          idwrap.IDWrap
	ContainerID idwrap.IDWrap
	Index       int
}

// Target is the drop slot currently under the pointer.
type Target struct {
	ContainerID idwrap.IDWrap
	Index       int
}

// Event is the terminal output of a completed gesture.
type Event interface{ isDragEvent() }

// Reorder is a same-container move.
type Reorder struct {
	ItemID    idwrap.IDWrap
	FromIndex int
	ToIndex   int
}

// Transfer moves an item into another container. Kanban columns are not
// internally order-sensitive, so a transfer carries no index.
type Transfer struct {
	ItemID            idwrap.IDWrap
	SourceContainerID idwrap.IDWrap
	TargetContainerID idwrap.IDWrap
}

func (Reorder) isDragEvent()  {}
func (Transfer) isDragEvent() {}

type Config struct {
	ActivationDistance float64
	HoldDelay          time.Duration
}

func (c Config) withDefaults() Config {
	if c.ActivationDistance <= 0 {
		c.ActivationDistance = DefaultActivationDistance
	}
	if c.HoldDelay <= 0 {
		c.HoldDelay = DefaultHoldDelay
	}
	return c
}

// Session mediates one pointer gesture. Not safe for concurrent use; UI event
// loops are single-threaded.
type Session struct {
	cfg       Config
	state     State
	item      ItemRef
	origin    Point
	pressedAt time.Time
	touch     bool
	target    *Target
}

func NewSession(cfg Config) *Session {
	return &Session{cfg: cfg.withDefaults()}
}

func (s *Session) State() State { return s.state }

// PointerDown begins tracking a press on item. The session stays idle until
// the activation threshold is crossed.
func (s *Session) PointerDown(item ItemRef, at Point, touch bool, now time.Time) {
	s.item = item
	s.origin = at
	s.pressedAt = now
	s.touch = touch
	s.state = StateIdle
	s.target = nil
}

// PointerMove reports pointer travel. It transitions to Dragging once the
// distance threshold is exceeded, or once the hold delay has elapsed for touch
// input.
func (s *Session) PointerMove(at Point, now time.Time) {
	if s.state != StateIdle || s.pressedAt.IsZero() {
		return
	}
	if distance(s.origin, at) >= s.cfg.ActivationDistance {
		s.state = StateDragging
		return
	}
	s.Tick(now)
}

// Tick advances time-based activation: a touch press held perfectly still
// becomes a drag once the hold delay elapses, without waiting for a move
// event. The UI calls this from its frame timer while a press is down.
func (s *Session) Tick(now time.Time) {
	if s.state != StateIdle || s.pressedAt.IsZero() {
		return
	}
	if s.touch && now.Sub(s.pressedAt) >= s.cfg.HoldDelay {
		s.state = StateDragging
	}
}

// SetDropTarget records the slot currently under the pointer. Ignored while
// idle: a press that never activated has no drop target.
func (s *Session) SetDropTarget(t Target) {
	if s.state != StateDragging {
		return
	}
	copied := t
	s.target = &copied
}

// ClearDropTarget marks the pointer as outside every container.
func (s *Session) ClearDropTarget() {
	s.target = nil
}

// PointerUp ends the gesture. It returns the terminal event and true when the
// drop commits a move; a sub-threshold press, a drop outside any container and
// a drop back onto the item's own slot all return false.
func (s *Session) PointerUp() (Event, bool) {
	defer s.reset()

	if s.state != StateDragging || s.target == nil {
		return nil, false
	}
	t := *s.target
	if t.ContainerID.Compare(s.item.ContainerID) != 0 {
		return Transfer{
			ItemID:            s.item.ID,
			SourceContainerID: s.item.ContainerID,
			TargetContainerID: t.ContainerID,
		}, true
	}
	if t.Index == s.item.Index {
		return nil, false
	}
	return Reorder{ItemID: s.item.ID, FromIndex: s.item.Index, ToIndex: t.Index}, true
}

// Cancel aborts the gesture (escape key, window blur). No event is emitted.
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.state = StateIdle
	s.target = nil
	s.pressedAt = time.Time{}
	s.touch = false
}
