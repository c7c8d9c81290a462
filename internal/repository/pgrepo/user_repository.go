package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-bank/internal/domain"
	"github.com/fsdevblog/groph-bank/internal/repository/repoargs"
	"github.com/fsdevblog/groph-bank/pkg/uow/pguow"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, phone, address, password_hash, upi_id, is_active, created_at, updated_at`

type UserRepository struct {
	conn pguow.DBTX
}

func NewUserRepository(conn pguow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	row := r.conn.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, address, password_hash, upi_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.ID, user.Name, user.Email, user.Phone, user.Address, user.PasswordHash, user.UPIID, user.IsActive,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, convertErr(err, "find user by id `%s`", id)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, convertErr(err, "find user by email")
	}
	return user, nil
}

func (r *UserRepository) FindByUPI(ctx context.Context, upiID string) (*domain.User, error) {
	user, err := scanUser(r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE upi_id = $1`, upiID))
	if err != nil {
		return nil, convertErr(err, "find user by upi `%s`", upiID)
	}
	return user, nil
}

func (r *UserRepository) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	args repoargs.UpdateProfile,
) (*domain.User, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE users
		SET name       = COALESCE($2, name),
		    phone      = COALESCE($3, phone),
		    address    = COALESCE($4, address),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, args.Name, args.Phone, args.Address,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "update profile `%s`", id)
	}
	return user, nil
}

func (r *UserRepository) SetUPI(ctx context.Context, id uuid.UUID, upiID *string) (*domain.User, error) {
	row := r.conn.QueryRow(ctx, `
		UPDATE users SET upi_id = $2, updated_at = NOW() WHERE id = $1
		RETURNING `+userColumns,
		id, upiID,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "set upi `%s`", id)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.PasswordHash, &u.UPIID, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &u, nil
}
