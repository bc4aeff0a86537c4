package core

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blogspace/internal/auth"
	"blogspace/internal/utils/databaseutils"
	"blogspace/internal/utils/stringutils"
	"github.com/mdobak/go-xerrors"
)

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}

	if err := rows.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.Avatar,
		&user.Bio,
		&user.CreatedAt,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func (c *Core) CreateUser(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
`
	args := []any{user.Name, user.Email, user.Password, user.Role}
	_, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, func(rows *sql.Rows) (*auth.User, error) {
		if err := rows.Scan(&user.ID, &user.CreatedAt); err != nil {
			return nil, xerrors.New(err)
		}
		return user, nil
	}, args...)

	if err != nil {
		switch {
		case isUniqueViolation(err, "users_email_key"):
			return xerrors.New(ErrDuplicateEmail)
		default:
			return xerrors.New(err)
		}
	}

	return nil
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `
		SELECT id, name, email, password, role, avatar, bio, created_at
		FROM users
		WHERE email = $1
	`

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

func (c *Core) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	query := `
		SELECT id, name, email, password, role, avatar, bio, created_at
		FROM users
		WHERE id = $1
	`

	user, err := databaseutils.ExecuteSingleQuery(c.sqlTemplate, ctx, query, scanUser, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(NoRecordFound)
		default:
			return nil, xerrors.New(err)
		}
	}

	return user, nil
}

func (c *Core) GetUsersByIDList(ctx context.Context, userIDList []int64) ([]*auth.User, error) {
	if len(userIDList) == 0 {
		return []*auth.User{}, nil
	}

	placeholders, args := stringutils.INClause(userIDList)
	query := fmt.Sprintf(`
		SELECT id, name, email, password, role, avatar, bio, created_at
		FROM users
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", "))

	queryResultList, err := databaseutils.ExecuteQuery(c.sqlTemplate, ctx, query, scanUser, args...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return queryResultList, nil
}
