package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/idilsaglam/reviews/internal/model"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// updated is stored as fixed-width UTC RFC 3339 so it sorts lexically.
const storedTimeLayout = "2006-01-02T15:04:05Z"

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer at a time: the poller and HTTP handlers share this handle.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var count int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		body, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertReviews(ctx context.Context, appID string, reviews []model.Review) (int, error) {
	if len(reviews) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO reviews
		(app_id, id, author_name, author_uri, rating, title, content, updated, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, r := range reviews {
		updated, ok := r.UpdatedAt()
		if !ok {
			return 0, fmt.Errorf("review %d: unparseable updated %q", r.ID, r.Updated)
		}
		res, err := stmt.ExecContext(ctx, appID, r.ID, r.AuthorName, r.AuthorURI, r.Rating,
			r.Title, r.Content, updated.UTC().Format(storedTimeLayout), r.Version)
		if err != nil {
			return 0, fmt.Errorf("insert review %d: %w", r.ID, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return added, nil
}

const reviewColumns = "id, author_name, author_uri, rating, title, content, updated, version"

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var r model.Review
	err := row.Scan(&r.ID, &r.AuthorName, &r.AuthorURI, &r.Rating, &r.Title, &r.Content, &r.Updated, &r.Version)
	return r, err
}

func (s *SQLiteStore) ReviewsSince(ctx context.Context, appID string, since time.Time) ([]model.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE app_id = ? AND updated > ? ORDER BY updated DESC, id DESC",
		appID, since.UTC().Format(storedTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}

func (s *SQLiteStore) NewestReview(ctx context.Context, appID string) (*model.Review, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE app_id = ? ORDER BY updated DESC, id DESC LIMIT 1", appID)
	r, err := scanReview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("newest review: %w", err)
	}
	return &r, nil
}

func (s *SQLiteStore) AppExists(ctx context.Context, appID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM reviews WHERE app_id = ? LIMIT 1", appID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("app exists: %w", err)
	}
	return true, nil
}
