package minteraction

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const (
	KindNote    = "note"
	KindCall    = "call"
	KindEmail   = "email"
	KindMeeting = "meeting"
)

func ValidKind(name string) bool {
	switch name {
	case KindNote, KindCall, KindEmail, KindMeeting:
		return true
	}
	return false
}

type Interaction struct {
	ID         idwrap.IDWrap
	CompanyID  idwrap.IDWrap
	ContactID  *idwrap.IDWrap
	DealID     *idwrap.IDWrap
	Kind       string
	Body       string
	OccurredAt time.Time
	Updated    time.Time
}

func (i Interaction) GetCreatedTime() time.Time {
	return i.ID.Time()
}
