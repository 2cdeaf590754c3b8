package suser

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/funil-crm/funil/pkg/dbtime"
	"github.com/funil-crm/funil/pkg/idwrap"
	"github.com/funil-crm/funil/pkg/model/muser"
	"github.com/funil-crm/funil/pkg/sqlc/gen"
)

var (
	ErrNoUserFound        = sql.ErrNoRows
	ErrBadCredentials     = errors.New("email or password incorrect")
	ErrResetTokenNotValid = errors.New("reset token invalid or expired")
)

const resetTokenTTL = 2 * time.Hour

type UserService struct {
	queries *gen.Queries
}

func New(queries *gen.Queries) UserService {
	return UserService{queries: queries}
}

func (s UserService) TX(tx *sql.Tx) UserService {
	return UserService{queries: s.queries.WithTx(tx)}
}

func ConvertToModelUser(u gen.User) muser.User {
	return muser.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Updated:      dbtime.DBTime(time.Unix(u.UpdatedAt, 0)),
	}
}

func (s UserService) Create(ctx context.Context, email, name, password string) (muser.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return muser.User{}, err
	}
	now := dbtime.DBNow()
	user := muser.User{
		ID:           idwrap.NewNow(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Updated:      now,
	}
	err = s.queries.CreateUser(ctx, gen.CreateUserParams{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	})
	if err != nil {
		return muser.User{}, err
	}
	return user, nil
}

func (s UserService) Get(ctx context.Context, id idwrap.IDWrap) (muser.User, error) {
	u, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return muser.User{}, err
	}
	return ConvertToModelUser(u), nil
}

func (s UserService) GetByEmail(ctx context.Context, email string) (muser.User, error) {
	u, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return muser.User{}, err
	}
	return ConvertToModelUser(u), nil
}

// Authenticate checks the password against the stored hash. The same error
// comes back for an unknown email and a wrong password.
func (s UserService) Authenticate(ctx context.Context, email, password string) (muser.User, error) {
	u, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return muser.User{}, ErrBadCredentials
		}
		return muser.User{}, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return muser.User{}, ErrBadCredentials
	}
	return ConvertToModelUser(u), nil
}

// StartPasswordReset issues a single-use token for the account. The token is
// returned to the caller for delivery; it is never logged.
func (s UserService) StartPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	now := dbtime.DBNow()
	err = s.queries.SetUserResetToken(ctx, gen.SetUserResetTokenParams{
		ResetToken:          sql.NullString{String: token, Valid: true},
		ResetTokenExpiresAt: sql.NullInt64{Int64: now.Add(resetTokenTTL).Unix(), Valid: true},
		UpdatedAt:           now.Unix(),
		ID:                  u.ID,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// FinishPasswordReset consumes the token and replaces the password.
func (s UserService) FinishPasswordReset(ctx context.Context, token, newPassword string) error {
	u, err := s.queries.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrResetTokenNotValid
		}
		return err
	}
	now := dbtime.DBNow()
	if !u.ResetTokenExpiresAt.Valid || u.ResetTokenExpiresAt.Int64 < now.Unix() {
		return ErrResetTokenNotValid
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.queries.UpdateUserPassword(ctx, gen.UpdateUserPasswordParams{
		PasswordHash: hash,
		UpdatedAt:    now.Unix(),
		ID:           u.ID,
	})
}
