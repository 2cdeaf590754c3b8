package gen

import (
	"database/sql"

	"github.com/funil-crm/funil/pkg/idwrap"
)

type User struct {
	ID                  idwrap.IDWrap
	Email               string
	Name                string
	PasswordHash        []byte
	ResetToken          sql.NullString
	ResetTokenExpiresAt sql.NullInt64
	CreatedAt           int64
	UpdatedAt           int64
}

type Company struct {
	ID           idwrap.IDWrap
	Name         string
	LegalName    string
	Cnpj         sql.NullString
	Website      sql.NullString
	Phones       string
	Emails       string
	Cep          sql.NullString
	Street       sql.NullString
	Number       sql.NullString
	Complement   sql.NullString
	District     sql.NullString
	City         sql.NullString
	State        sql.NullString
	PostalBox    sql.NullString
	CustomValues string
	CreatedAt    int64
	UpdatedAt    int64
	DeletedAt    sql.NullInt64
}

type Contact struct {
	ID           idwrap.IDWrap
	Name         string
	Position     sql.NullString
	CompanyID    *idwrap.IDWrap
	Phones       string
	Emails       string
	CustomValues string
	CreatedAt    int64
	UpdatedAt    int64
	DeletedAt    sql.NullInt64
}

type Pipeline struct {
	ID           idwrap.IDWrap
	Name         string
	Description  string
	Icon         string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
	DeletedAt    sql.NullInt64
}

type Stage struct {
	ID           idwrap.IDWrap
	PipelineID   idwrap.IDWrap
	Name         string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
}

type Deal struct {
	ID           idwrap.IDWrap
	Title        string
	ValueCents   int64
	CompanyID    idwrap.IDWrap
	ContactID    idwrap.IDWrap
	StageID      idwrap.IDWrap
	LostReasonID *idwrap.IDWrap
	ClosedAt     sql.NullInt64
	CreatedAt    int64
	UpdatedAt    int64
	DeletedAt    sql.NullInt64
}

type LossReason struct {
	ID           idwrap.IDWrap
	Name         string
	Description  string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
	DeletedAt    sql.NullInt64
}

type PipelineLossReason struct {
	PipelineID   idwrap.IDWrap
	LossReasonID idwrap.IDWrap
	DisplayOrder int64
}

type FormSection struct {
	ID           idwrap.IDWrap
	Name         string
	Entity       string
	DisplayOrder int64
	CreatedAt    int64
	UpdatedAt    int64
}

type FormField struct {
	ID             idwrap.IDWrap
	SectionID      idwrap.IDWrap
	Name           string
	FieldType      string
	Required       bool
	Options        string
	MultipleSelect bool
	Entity         string
	DisplayOrder   int64
	CreatedAt      int64
	UpdatedAt      int64
}

type Interaction struct {
	ID         idwrap.IDWrap
	CompanyID  idwrap.IDWrap
	ContactID  *idwrap.IDWrap
	DealID     *idwrap.IDWrap
	Kind       string
	Body       string
	OccurredAt int64
	CreatedAt  int64
	UpdatedAt  int64
}
