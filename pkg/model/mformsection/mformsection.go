package mformsection

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

// Entity names the form an editable section belongs to.
const (
	EntityCompany = "company"
	EntityContact = "contact"
	EntityDeal    = "deal"
)

func ValidEntity(name string) bool {
	switch name {
	case EntityCompany, EntityContact, EntityDeal:
		return true
	}
	return false
}

// Field types the form builder offers.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeTextarea = "textarea"
)

func ValidFieldType(name string) bool {
	switch name {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate,
		FieldTypeSelect, FieldTypeCheckbox, FieldTypeTextarea:
		return true
	}
	return false
}

type Section struct {
	ID      idwrap.IDWrap
	Name    string
	Entity  string
	Order   int
	Updated time.Time
}

func (s Section) GetCreatedTime() time.Time {
	return s.ID.Time()
}

type Field struct {
	ID             idwrap.IDWrap
	SectionID      idwrap.IDWrap
	Name           string
	FieldType      string
	Required       bool
	Options        []string
	MultipleSelect bool
	Entity         string
	Order          int
	Updated        time.Time
}

func (f Field) GetCreatedTime() time.Time {
	return f.ID.Time()
}
