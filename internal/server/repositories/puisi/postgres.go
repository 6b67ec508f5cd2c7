package puisi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ruangpuisi/api/internal/common"
	"github.com/ruangpuisi/api/internal/dbx"
	"github.com/ruangpuisi/api/internal/server/models"
)

const pgForeignKeyViolation = "23503"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const puisiColumns = `id, judul, konten, penulis_id, penulis_nama, kategori, musik,
	jumlah_suka, jumlah_dilihat, status, tanggal, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPuisi(row rowScanner, p *models.Puisi, withDisukai bool) error {
	dest := []any{&p.ID, &p.Judul, &p.Konten, &p.PenulisID, &p.PenulisNama, &p.Kategori,
		&p.Musik, &p.JumlahSuka, &p.JumlahDilihat, &p.Status, &p.Tanggal, &p.CreatedAt, &p.UpdatedAt}
	if withDisukai {
		dest = append(dest, &p.Disukai)
	}
	return row.Scan(dest...)
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Puisi) (*models.Puisi, error) {
	query :=
		`INSERT INTO puisi (judul, konten, penulis_id, penulis_nama, kategori, musik, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING ` + puisiColumns

	created := &models.Puisi{}
	row := r.db.QueryRowContext(ctx, query,
		p.Judul, p.Konten, p.PenulisID, p.PenulisNama, p.Kategori, p.Musik, p.Status)
	if err := scanPuisi(row, created, false); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Puisi, error) {
	query := `SELECT ` + puisiColumns + `,
		 CASE WHEN $2 = '' THEN false
		      ELSE EXISTS (SELECT 1 FROM puisi_suka s WHERE s.puisi_id = puisi.id AND s.user_id::text = $2)
		 END AS disukai
		 FROM puisi
		 WHERE id = $1`

	p := &models.Puisi{}
	if err := scanPuisi(r.db.QueryRowContext(ctx, query, id, viewerID), p, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]*models.Puisi, int, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Kategori != "" && f.Kategori != "all" {
		conds = append(conds, "kategori = "+arg(f.Kategori))
	}
	if f.PenulisID != "" {
		conds = append(conds, "penulis_id = "+arg(f.PenulisID))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := arg("%" + s + "%")
		conds = append(conds, fmt.Sprintf("(judul ILIKE %s OR konten ILIKE %s)", pattern, pattern))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT count(*) FROM puisi` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	var order string
	switch f.SortBy {
	case "popular":
		order = "jumlah_suka DESC, tanggal DESC"
	case "oldest":
		order = "tanggal ASC"
	default:
		order = "tanggal DESC"
	}

	disukai := "false AS disukai"
	if f.ViewerID != "" {
		disukai = fmt.Sprintf(
			"EXISTS (SELECT 1 FROM puisi_suka s WHERE s.puisi_id = puisi.id AND s.user_id::text = %s) AS disukai",
			arg(f.ViewerID))
	}

	query := `SELECT ` + puisiColumns + `, ` + disukai + ` FROM puisi` + where +
		` ORDER BY ` + order +
		` LIMIT ` + arg(f.Pagination.Limit) + ` OFFSET ` + arg(f.Pagination.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Puisi
	for rows.Next() {
		p := &models.Puisi{}
		if err := scanPuisi(rows, p, true); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Puisi) (*models.Puisi, error) {
	query :=
		`UPDATE puisi
		 SET judul = $2, konten = $3, kategori = $4, musik = $5, status = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + puisiColumns

	updated := &models.Puisi{}
	row := r.db.QueryRowContext(ctx, query, p.ID, p.Judul, p.Konten, p.Kategori, p.Musik, p.Status)
	if err := scanPuisi(row, updated, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	affected, err := dbx.ExecAffected(ctx, r.db, `DELETE FROM puisi WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE puisi SET jumlah_dilihat = jumlah_dilihat + 1 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertSuka(ctx context.Context, puisiID, userID string) (bool, error) {
	query :=
		`INSERT INTO puisi_suka (puisi_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`

	affected, err := dbx.ExecAffected(ctx, r.db, query, puisiID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			// post deleted between the lookup and the insert
			return false, common.ErrorNotFound
		}
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected > 0, nil
}

func (r *PostgresRepository) DeleteSuka(ctx context.Context, puisiID, userID string) (bool, error) {
	query := `DELETE FROM puisi_suka WHERE puisi_id = $1 AND user_id = $2`

	affected, err := dbx.ExecAffected(ctx, r.db, query, puisiID, userID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected > 0, nil
}

func (r *PostgresRepository) RecountSuka(ctx context.Context, puisiID string) (int, error) {
	// Lock the row before counting. Under READ COMMITTED a single
	// UPDATE that blocked on a concurrent toggle would still count with
	// its original snapshot after resuming; the count as a separate
	// statement after the lock gets a snapshot that includes whatever
	// the other toggle committed.
	var locked string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM puisi WHERE id = $1 FOR UPDATE`, puisiID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	query :=
		`UPDATE puisi
		 SET jumlah_suka = (SELECT count(*) FROM puisi_suka WHERE puisi_id = $1)
		 WHERE id = $1
		 RETURNING jumlah_suka`

	var count int
	if err := r.db.QueryRowContext(ctx, query, puisiID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) RemoveSukaByUser(ctx context.Context, userID string) error {
	// The outer UPDATE shares its snapshot with the CTE and cannot see
	// the deleted rows, so the subquery must exclude the user itself or
	// it would write the old count back.
	query :=
		`WITH removed AS (
		     DELETE FROM puisi_suka WHERE user_id = $1 RETURNING puisi_id
		 )
		 UPDATE puisi
		 SET jumlah_suka = (SELECT count(*) FROM puisi_suka ps
		                    WHERE ps.puisi_id = puisi.id AND ps.user_id <> $1)
		 WHERE id IN (SELECT puisi_id FROM removed)`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByPenulis(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM puisi WHERE penulis_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePenulisNama(ctx context.Context, userID, nama string) error {
	query := `UPDATE puisi SET penulis_nama = $2 WHERE penulis_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, nama); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) StatsByPenulis(ctx context.Context, userID string) (*Stats, error) {
	query :=
		`SELECT count(*) FILTER (WHERE status = 'published'),
		        count(*) FILTER (WHERE status = 'draft'),
		        COALESCE(sum(jumlah_suka), 0)
		 FROM puisi
		 WHERE penulis_id = $1`

	s := &Stats{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.TotalPublished, &s.TotalDrafts, &s.TotalLikes); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
