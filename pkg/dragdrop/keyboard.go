package dragdrop

// Keyboard-driven reordering: focus a grab handle, press space to lift, move
// with the arrow keys, space again to drop, escape to cancel. Terminates in
// the same Reorder event shape as the pointer path.

type KeyboardSession struct {
	grabbed bool
	item    ItemRef
	listLen int
	index   int
}

func NewKeyboardSession() *KeyboardSession {
	return &KeyboardSession{}
}

func (k *KeyboardSession) Grabbed() bool { return k.grabbed }

// Grab lifts item out of a list of listLen entries.
func (k *KeyboardSession) Grab(item ItemRef, listLen int) {
	k.grabbed = true
	k.item = item
	k.listLen = listLen
	k.index = item.Index
}

// MoveUp shifts the lifted item one slot toward the head; MoveDown toward the
// tail. Both clamp at the list boundaries.
func (k *KeyboardSession) MoveUp() {
	if k.grabbed && k.index > 0 {
		k.index--
	}
}

func (k *KeyboardSession) MoveDown() {
	if k.grabbed && k.index < k.listLen-1 {
		k.index++
	}
}

// Drop releases the item at its current slot. Dropping where the item started
// emits nothing.
func (k *KeyboardSession) Drop() (Event, bool) {
	defer k.reset()
	if !k.grabbed || k.index == k.item.Index {
		return nil, false
	}
	return Reorder{ItemID: k.item.ID, FromIndex: k.item.Index, ToIndex: k.index}, true
}

func (k *KeyboardSession) Cancel() {
	k.reset()
}

func (k *KeyboardSession) reset() {
	k.grabbed = false
	k.listLen = 0
	k.index = 0
}
