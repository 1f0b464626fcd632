package database

import (
	"context"
	"time"
)

const upsertUser = `
INSERT INTO users (id, name, email, username, image, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    name = excluded.name,
    email = excluded.email,
    username = excluded.username,
    image = excluded.image,
    updated_at = excluded.updated_at
`

type UpsertUserParams struct {
	ID        string
	Name      string
	Email     string
	Username  string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) UpsertUser(ctx context.Context, arg *UpsertUserParams) error {
	_, err := q.db.ExecContext(ctx, upsertUser,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Username,
		arg.Image,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const userColumns = `id, name, email, username, image, created_at, updated_at`

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (*User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Username,
		&i.Image,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return &i, err
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Username,
		&i.Image,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return &i, err
}

const deleteUser = `DELETE FROM users WHERE id = $1`

func (q *Queries) DeleteUser(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteUser, id)
	return err
}
