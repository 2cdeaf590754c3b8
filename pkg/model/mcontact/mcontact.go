package mcontact

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/mcompany"
)

type Contact struct {
	ID           idwrap.IDWrap
	Name         string
	Position     *string
	CompanyID    *idwrap.IDWrap
	Phones       []mcompany.Phone
	Emails       []mcompany.Email
	CustomValues map[string]any
	Updated      time.Time
}

func (c Contact) GetCreatedTime() time.Time {
	return c.ID.Time()
}
