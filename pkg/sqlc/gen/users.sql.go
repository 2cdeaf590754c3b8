package gen

import (
	"context"
	"database/sql"

	"github.com/funil-crm/funil/pkg/idwrap"
)

const createUser = `
INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateUserParams struct {
	ID           idwrap.IDWrap
	Email        string
	Name         string
	PasswordHash []byte
	CreatedAt    int64
	UpdatedAt    int64
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) error {
	_, err := q.db.ExecContext(ctx, createUser,
		arg.ID, arg.Email, arg.Name, arg.PasswordHash, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getUser = `
SELECT id, email, name, password_hash, reset_token, reset_token_expires_at, created_at, updated_at
FROM users WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id idwrap.IDWrap) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.ResetToken, &u.ResetTokenExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, name, password_hash, reset_token, reset_token_expires_at, created_at, updated_at
FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.ResetToken, &u.ResetTokenExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const setUserResetToken = `
UPDATE users SET reset_token = ?, reset_token_expires_at = ?, updated_at = ? WHERE id = ?
`

type SetUserResetTokenParams struct {
	ResetToken          sql.NullString
	ResetTokenExpiresAt sql.NullInt64
	UpdatedAt           int64
	ID                  idwrap.IDWrap
}

func (q *Queries) SetUserResetToken(ctx context.Context, arg SetUserResetTokenParams) error {
	_, err := q.db.ExecContext(ctx, setUserResetToken,
		arg.ResetToken, arg.ResetTokenExpiresAt, arg.UpdatedAt, arg.ID)
	return err
}

const getUserByResetToken = `
SELECT id, email, name, password_hash, reset_token, reset_token_expires_at, created_at, updated_at
FROM users WHERE reset_token = ?
`

func (q *Queries) GetUserByResetToken(ctx context.Context, token string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByResetToken, token)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.ResetToken, &u.ResetTokenExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const updateUserPassword = `
UPDATE users SET password_hash = ?, reset_token = NULL, reset_token_expires_at = NULL, updated_at = ? WHERE id = ?
`

type UpdateUserPasswordParams struct {
	PasswordHash []byte
	UpdatedAt    int64
	ID           idwrap.IDWrap
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}
