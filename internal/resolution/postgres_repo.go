package resolution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo is a Cache over the books table and its tsvector index.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string, timeout time.Duration) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	repo := NewPostgresRepo(pool, timeout)
	if err := repo.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return repo, nil
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Lookup treats the query as an OR of its stemmed terms and returns the
// best-ranked title. Equal ranks go to the oldest record.
// The lexemes are stemmed once; the rewritten query is cast, not re-parsed.
func (r *PostgresRepo) Lookup(ctx context.Context, title string) (BookRecord, error) {
	const query = `
		WITH q AS (
			SELECT replace(plainto_tsquery('english', $1)::text, ' & ', ' | ')::tsquery AS tsq
		)
		SELECT b.id, b.title, b.author, b.publish_year, b.pdf_url, b.created_at
		FROM books b, q
		WHERE numnode(q.tsq) > 0 AND b.search_vector @@ q.tsq
		ORDER BY ts_rank(b.search_vector, q.tsq) DESC, b.created_at ASC
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rec BookRecord
	err := r.db.QueryRow(timeoutCtx, query, title).Scan(
		&rec.ID, &rec.Title, &rec.Author, &rec.PublishYear, &rec.PdfURL, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookRecord{}, ErrCacheMiss
		}
		return BookRecord{}, err
	}
	return rec, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, rec *BookRecord) error {
	const sql = `
		INSERT INTO books (title, author, publish_year, pdf_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, sql, rec.Title, rec.Author, rec.PublishYear, rec.PdfURL).
		Scan(&rec.ID, &rec.CreatedAt)
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func (r *PostgresRepo) Close() error {
	r.db.Close()
	return nil
}
