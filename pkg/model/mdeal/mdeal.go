package mdeal

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

type Status int8

const (
	StatusOpen Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

type Deal struct {
	ID           idwrap.IDWrap
	Title        string
	ValueCents   int64
	CompanyID    idwrap.IDWrap
	ContactID    idwrap.IDWrap
	StageID      idwrap.IDWrap
	LostReasonID *idwrap.IDWrap
	ClosedAt     *time.Time
	Updated      time.Time
}

func (d Deal) GetCreatedTime() time.Time {
	return d.ID.Time()
}

// Status derives from the closing fields: a closed deal with a loss reason
// is lost, a closed deal without one is won.
func (d Deal) Status() Status {
	if d.ClosedAt == nil {
		return StatusOpen
	}
	if d.LostReasonID != nil {
		return StatusLost
	}
	return StatusWon
}
