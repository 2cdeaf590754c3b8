package muser

import (
	"time"

	"github.com/funil-crm/funil/pkg/idwrap"
)

type User struct {
	ID           idwrap.IDWrap
	Email        string
	Name         string
	PasswordHash []byte
	Updated      time.Time
}

func (u User) GetCreatedTime() time.Time {
	return u.ID.Time()
}
