package mcompany

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

// Labeled phone/email entries as captured on the company form.
type Phone struct {
	Label  string `json:"label"`
	Number string `json:"number"`
}

type Email struct {
	Label   string `json:"label"`
	Address string `json:"address"`
}

type Address struct {
	Cep        *string
	Street     *string
	Number     *string
	Complement *string
	District   *string
	City       *string
	State      *string
	PostalBox  *string
}

type Company struct {
	ID           idwrap.IDWrap
	Name         string
	LegalName    string
	Cnpj         *string
	Website      *string
	Phones       []Phone
	Emails       []Email
	Address      Address
	CustomValues map[string]any
	Updated      time.Time
}

func (c Company) GetCreatedTime() time.Time {
	return c.ID.Time()
}
