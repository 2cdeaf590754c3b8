package mlossreason

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

type LossReason struct {
	ID          idwrap.IDWrap
	Name        string
	Description string
	Order       int
	Updated     time.Time
}

func (r LossReason) GetCreatedTime() time.Time {
	return r.ID.Time()
}

// PipelineLink associates a reason with one pipeline, carrying the order
// the reason takes inside that pipeline's lose dialog.
type PipelineLink struct {
	PipelineID   idwrap.IDWrap
	LossReasonID idwrap.IDWrap
	Order        int
}
