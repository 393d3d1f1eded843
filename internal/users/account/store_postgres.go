// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed account store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var accountSelect = fmt.Sprintf(`SELECT %s FROM %s`,
	strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table)

func scanUser(row pgx.Row) (*User, error) {
	var (
		user   = &User{}
		avatar *string
	)
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Gender, &user.IsAdult,
		&avatar, &user.Slug, &user.Role, &user.IsVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Avatar = pointer.Val(avatar)
	return user, nil
}

/*
Create inserts the account.

Description: Unique violations keep the pgx error as their cause so the
service can retry on the slug constraint and report the others.
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		table.Table,
		table.ID, table.Username, table.Email, table.Password, table.Gender,
		table.IsAdult, table.Slug, table.Role, table.IsVerified,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Gender,
		user.IsAdult, user.Slug, user.Role, user.IsVerified,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.WrapEntity(err, "Account", "create_account")
	}
	return nil
}

func (repository *PostgresRepository) findOne(context context.Context, where string, arg any) (*User, error) {
	user, err := scanUser(repository.pool.QueryRow(context, accountSelect+" WHERE "+where, arg))
	if err != nil {
		return nil, dberr.WrapEntity(err, "User", "find_account")
	}
	return user, nil
}

// FindByID returns one account.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.ID+" = $1", id)
}

// FindBySlug returns one account.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*User, error) {
	return repository.findOne(context, schema.UserAccount.Slug+" = $1", slug)
}

// FindByLogin matches the username exactly or the email case-insensitively.
func (repository *PostgresRepository) FindByLogin(context context.Context, login string) (*User, error) {
	where := fmt.Sprintf(`%s = $1 OR LOWER(%s) = LOWER($1)`, schema.UserAccount.Username, schema.UserAccount.Email)
	return repository.findOne(context, where, login)
}

// Recent returns the newest accounts.
func (repository *PostgresRepository) Recent(context context.Context, limit int) ([]*User, error) {
	query := fmt.Sprintf(`%s ORDER BY %s DESC LIMIT $1`, accountSelect, schema.UserAccount.CreatedAt)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "recent_accounts")
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, dberr.Wrap(err, "scan_account")
	}
	return users, nil
}

// UpdateProfile applies the patch in a single statement.
func (repository *PostgresRepository) UpdateProfile(context context.Context, id string, patch ProfilePatch) error {
	table := schema.UserAccount
	sets := []string{table.UpdatedAt + " = NOW()"}
	args := []any{id}

	if patch.Gender != nil {
		args = append(args, *patch.Gender)
		sets = append(sets, fmt.Sprintf("%s = $%d", table.Gender, len(args)))
	}
	if patch.IsAdult != nil {
		args = append(args, *patch.IsAdult)
		sets = append(sets, fmt.Sprintf("%s = $%d", table.IsAdult, len(args)))
	}

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`, table.Table, strings.Join(sets, ", "), table.ID)
	return repository.exec(context, "update_profile", query, args...)
}

// SetAvatar swaps the avatar ref and returns the previous one.
func (repository *PostgresRepository) SetAvatar(context context.Context, id, avatar string) (string, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		WITH previous AS (
			SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE
		)
		UPDATE %s u
		SET %s = $2, %s = NOW()
		FROM previous
		WHERE u.%s = previous.%s
		RETURNING previous.%s`,
		table.ID, table.Avatar, table.Table, table.ID,
		table.Table,
		table.Avatar, table.UpdatedAt,
		table.ID, table.ID,
		table.Avatar,
	)

	var previous *string
	if err := repository.pool.QueryRow(context, query, id, avatar).Scan(&previous); err != nil {
		return "", dberr.WrapEntity(err, "User", "set_user_avatar")
	}
	return pointer.Val(previous), nil
}

// UpdateEmail replaces the email and marks the account unverified.
func (repository *PostgresRepository) UpdateEmail(context context.Context, id, email string) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = FALSE, %s = NOW() WHERE %s = $1`,
		table.Table, table.Email, table.IsVerified, table.UpdatedAt, table.ID)

	err := repository.exec(context, "update_email", query, id, email)
	if dberr.IsUniqueViolation(err, table.EmailConstraint) {
		return apperr.Conflict("Email is already registered").WithCause(err)
	}
	return err
}

// UpdatePassword replaces the bcrypt hash.
func (repository *PostgresRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		table.Table, table.Password, table.UpdatedAt, table.ID)
	return repository.exec(context, "update_password", query, id, passwordHash)
}

// MarkVerified sets isverified.
func (repository *PostgresRepository) MarkVerified(context context.Context, id string) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		table.Table, table.IsVerified, table.UpdatedAt, table.ID)
	return repository.exec(context, "mark_verified", query, id)
}

// exec runs a single-row update and reports a missing row as NOT_FOUND.
func (repository *PostgresRepository) exec(context context.Context, action, query string, args ...any) error {
	result, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.WrapEntity(err, "User", action)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
