package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ruangpuisi/api/internal/common"
	"github.com/ruangpuisi/api/internal/dbx"
	"github.com/ruangpuisi/api/internal/server/models"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, nama, email, role, bio, profile_picture, is_active, tanggal_daftar, terakhir_login, created_at, updated_at`

func scanUser(row *sql.Row, u *models.User) error {
	return row.Scan(&u.ID, &u.Nama, &u.Email, &u.Role, &u.Bio, &u.ProfilePicture,
		&u.IsActive, &u.TanggalDaftar, &u.TerakhirLogin, &u.CreatedAt, &u.UpdatedAt)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (nama, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING ` + userColumns

	created := &models.User{}
	err := scanUser(r.db.QueryRowContext(ctx, query, user.Nama, user.Email, user.PasswordHash), created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, nama, email, password_hash, role, bio, profile_picture, is_active,
		        tanggal_daftar, terakhir_login, created_at, updated_at
		 FROM users
		 WHERE email = $1`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Nama, &u.Email, &u.PasswordHash, &u.Role, &u.Bio, &u.ProfilePicture,
		&u.IsActive, &u.TanggalDaftar, &u.TerakhirLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u := &models.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) GetHashByID(ctx context.Context, id string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return hash, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error) {
	query :=
		`UPDATE users
		 SET nama = $2, bio = $3, profile_picture = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	u := &models.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, id, upd.Nama, upd.Bio, upd.ProfilePicture), u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	affected, err := dbx.ExecAffected(ctx, r.db, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET terakhir_login = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	affected, err := dbx.ExecAffected(ctx, r.db, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
