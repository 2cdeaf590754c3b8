package dragdrop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funil-crm/funil/pkg/dragdrop"
	"github.com/funil-crm/funil/pkg/idwrap"
)

func newItem(container idwrap.IDWrap, index int) dragdrop.ItemRef {
	return dragdrop.ItemRef{ID: idwrap.NewNow(), ContainerID: container, Index: index}
}

func TestSubThresholdMovementEmitsNothing(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{ActivationDistance: 8})
	col := idwrap.NewNow()
	now := time.Now()

	s.PointerDown(newItem(col, 1), dragdrop.Point{X: 100, Y: 100}, false, now)
	s.PointerMove(dragdrop.Point{X: 103, Y: 104}, now.Add(10*time.Millisecond))
	assert.Equal(t, dragdrop.StateIdle, s.State(), "5px travel stays idle")

	// A drop target seen while idle must not stick.
	s.SetDropTarget(dragdrop.Target{ContainerID: col, Index: 0})

	ev, ok := s.PointerUp()
	assert.False(t, ok)
	assert.Nil(t, ev)
}

func TestDistanceActivationAndReorder(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{})
	col := idwrap.NewNow()
	item := newItem(col, 2)
	now := time.Now()

	s.PointerDown(item, dragdrop.Point{X: 0, Y: 0}, false, now)
	s.PointerMove(dragdrop.Point{X: 0, Y: 10}, now)
	require.Equal(t, dragdrop.StateDragging, s.State())

	s.SetDropTarget(dragdrop.Target{ContainerID: col, Index: 0})
	ev, ok := s.PointerUp()
	require.True(t, ok)

	reorder, isReorder := ev.(dragdrop.Reorder)
	require.True(t, isReorder)
	assert.Equal(t, item.ID, reorder.ItemID)
	assert.Equal(t, 2, reorder.FromIndex)
	assert.Equal(t, 0, reorder.ToIndex)

	assert.Equal(t, dragdrop.StateIdle, s.State(), "session resets after drop")
}

func TestTouchHoldActivation(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{HoldDelay: 250 * time.Millisecond})
	col := idwrap.NewNow()
	now := time.Now()

	s.PointerDown(newItem(col, 0), dragdrop.Point{X: 50, Y: 50}, true, now)
	s.PointerMove(dragdrop.Point{X: 51, Y: 50}, now.Add(100*time.Millisecond))
	assert.Equal(t, dragdrop.StateIdle, s.State())

	s.PointerMove(dragdrop.Point{X: 51, Y: 51}, now.Add(300*time.Millisecond))
	assert.Equal(t, dragdrop.StateDragging, s.State())
}

// A perfectly still touch press must activate on the frame timer alone.
func TestTouchHoldActivationWithoutMovement(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{HoldDelay: 250 * time.Millisecond})
	col := idwrap.NewNow()
	now := time.Now()

	s.PointerDown(newItem(col, 0), dragdrop.Point{X: 50, Y: 50}, true, now)
	s.Tick(now.Add(100 * time.Millisecond))
	assert.Equal(t, dragdrop.StateIdle, s.State())

	s.Tick(now.Add(300 * time.Millisecond))
	assert.Equal(t, dragdrop.StateDragging, s.State())
}

func TestTickIgnoresMousePress(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{HoldDelay: 250 * time.Millisecond})
	col := idwrap.NewNow()
	now := time.Now()

	s.PointerDown(newItem(col, 0), dragdrop.Point{X: 50, Y: 50}, false, now)
	s.Tick(now.Add(time.Second))
	assert.Equal(t, dragdrop.StateIdle, s.State(), "hold delay only applies to touch")
}

func TestCrossContainerTransfer(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{})
	colA, colB := idwrap.NewNow(), idwrap.NewNow()
	item := newItem(colA, 3)
	now := time.Now()

	s.PointerDown(item, dragdrop.Point{}, false, now)
	s.PointerMove(dragdrop.Point{X: 40, Y: 0}, now)
	s.SetDropTarget(dragdrop.Target{ContainerID: colB, Index: 0})

	ev, ok := s.PointerUp()
	require.True(t, ok)

	transfer, isTransfer := ev.(dragdrop.Transfer)
	require.True(t, isTransfer)
	assert.Equal(t, item.ID, transfer.ItemID)
	assert.Equal(t, colA, transfer.SourceContainerID)
	assert.Equal(t, colB, transfer.TargetContainerID)
}

func TestDropOutsideAnyContainerCancels(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{})
	col := idwrap.NewNow()
	now := time.Now()

	s.PointerDown(newItem(col, 1), dragdrop.Point{}, false, now)
	s.PointerMove(dragdrop.Point{X: 0, Y: 20}, now)
	s.SetDropTarget(dragdrop.Target{ContainerID: col, Index: 0})
	s.ClearDropTarget()

	ev, ok := s.PointerUp()
	assert.False(t, ok)
	assert.Nil(t, ev)
}

func TestExplicitCancel(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{})
	col := idwrap.NewNow()
	now := time.Now()

	s.PointerDown(newItem(col, 1), dragdrop.Point{}, false, now)
	s.PointerMove(dragdrop.Point{X: 0, Y: 20}, now)
	s.SetDropTarget(dragdrop.Target{ContainerID: col, Index: 0})
	s.Cancel()

	ev, ok := s.PointerUp()
	assert.False(t, ok)
	assert.Nil(t, ev)
}

func TestDropOnOwnSlotEmitsNothing(t *testing.T) {
	s := dragdrop.NewSession(dragdrop.Config{})
	col := idwrap.NewNow()
	item := newItem(col, 2)
	now := time.Now()

	s.PointerDown(item, dragdrop.Point{}, false, now)
	s.PointerMove(dragdrop.Point{X: 20, Y: 0}, now)
	s.SetDropTarget(dragdrop.Target{ContainerID: col, Index: 2})

	ev, ok := s.PointerUp()
	assert.False(t, ok)
	assert.Nil(t, ev)
}

func TestKeyboardReorder(t *testing.T) {
	k := dragdrop.NewKeyboardSession()
	col := idwrap.NewNow()
	item := newItem(col, 1)

	k.Grab(item, 4)
	k.MoveDown()
	k.MoveDown()
	k.MoveDown() // clamped at tail
	ev, ok := k.Drop()
	require.True(t, ok)

	reorder := ev.(dragdrop.Reorder)
	assert.Equal(t, 1, reorder.FromIndex)
	assert.Equal(t, 3, reorder.ToIndex)
	assert.False(t, k.Grabbed())
}

func TestKeyboardCancelAndNoOpDrop(t *testing.T) {
	k := dragdrop.NewKeyboardSession()
	col := idwrap.NewNow()

	k.Grab(newItem(col, 0), 3)
	k.MoveUp() // clamped at head
	ev, ok := k.Drop()
	assert.False(t, ok)
	assert.Nil(t, ev)

	k.Grab(newItem(col, 1), 3)
	k.MoveDown()
	k.Cancel()
	ev, ok = k.Drop()
	assert.False(t, ok)
	assert.Nil(t, ev)
}
