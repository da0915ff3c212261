package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrUserExists is returned by CreateUser when the username is taken.
var ErrUserExists = errors.New("user already exists")

type userRepo struct {
	db *sql.DB
}

var userColumns = []string{"id", "username", "password_hash", "created_at"}

func (r *userRepo) CreateUser(ctx context.Context, username, passwordHash string, now time.Time) (*User, error) {
	ins := builder.Insert(usersTable.Name).
		Columns(userColumns[1:]...).
		Values(username, passwordHash, now.UTC())
	res, err := execQuery(ctx, r.db, ins)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &User{ID: int(id), Username: username, PasswordHash: passwordHash, CreatedAt: now.UTC()}, nil
}

func (r *userRepo) GetUser(ctx context.Context, username string) (*User, error) {
	query, args := builder.Select(userColumns...).
		From(builder.Table(usersTable.Name)).
		Where(entsql.EQ("username", username)).
		Query()

	var u User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	upd := builder.Update(usersTable.Name).
		Set("password_hash", passwordHash).
		Where(entsql.EQ("username", username))
	res, err := execQuery(ctx, r.db, upd)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireAffected(res)
}

func (r *userRepo) DeleteUser(ctx context.Context, username string) error {
	del := builder.Delete(usersTable.Name).Where(entsql.EQ("username", username))
	res, err := execQuery(ctx, r.db, del)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res)
}

func (r *userRepo) ListUsers(ctx context.Context) ([]User, error) {
	query, args := builder.Select(userColumns...).
		From(builder.Table(usersTable.Name)).
		OrderBy("username").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
