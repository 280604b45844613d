package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const librarySchema = `
CREATE TABLE IF NOT EXISTS comics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	format TEXT NOT NULL,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	page_count INTEGER NOT NULL DEFAULT 0,
	current_page INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL DEFAULT 'unread',
	added_at DATETIME NOT NULL,
	last_read_at DATETIME
);

CREATE TABLE IF NOT EXISTS page_actions (
	comic_id INTEGER NOT NULL,
	page_number INTEGER NOT NULL,
	is_favorite BOOLEAN NOT NULL DEFAULT 0,
	note TEXT,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (comic_id, page_number),
	FOREIGN KEY (comic_id) REFERENCES comics(id) ON DELETE CASCADE
);
`

// ComicRecord is a row of the comics table
type ComicRecord struct {
	ID          int64      `json:"id"`
	FilePath    string     `json:"file_path"`
	Title       string     `json:"title"`
	Format      string     `json:"format"`
	SizeBytes   int64      `json:"size_bytes"`
	PageCount   int        `json:"page_count"`
	CurrentPage int        `json:"current_page"`
	Status      string     `json:"status"`
	AddedAt     time.Time  `json:"added_at"`
	LastReadAt  *time.Time `json:"last_read_at"`
}

// Comic returns the reader's view of the record
func (r ComicRecord) Comic() Comic {
	return Comic{
		ID:          r.ID,
		Title:       r.Title,
		PageCount:   r.PageCount,
		CurrentPage: r.CurrentPage,
	}
}

// LibraryDB persists comics, reading progress and page annotations
type LibraryDB struct {
	DB  *sql.DB
	now func() time.Time
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".kubrick", "library.db")
}

// OpenLibrary opens (creating if needed) the database at path and applies
// the schema
func OpenLibrary(path string) (*LibraryDB, error) {
	if path == "" {
		path = defaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// writes arrive from several goroutines; one connection serializes them
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma foreign_keys: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(librarySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &LibraryDB{DB: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (l *LibraryDB) Close() error {
	return l.DB.Close()
}

// AddComic inserts a comic or refreshes the size of an existing one with
// the same path. It returns the comic id.
func (l *LibraryDB) AddComic(ctx context.Context, path, title, format string, size int64) (int64, error) {
	_, err := l.DB.ExecContext(ctx, `
		INSERT INTO comics (file_path, title, format, size_bytes, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET size_bytes = excluded.size_bytes
	`, path, title, format, size, l.now())
	if err != nil {
		return 0, fmt.Errorf("upsert comic: %w", err)
	}

	var id int64
	if err := l.DB.QueryRowContext(ctx, `SELECT id FROM comics WHERE file_path = ?`, path).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup comic id: %w", err)
	}
	return id, nil
}

const comicColumns = `id, file_path, title, format, size_bytes, page_count, current_page, status, added_at, last_read_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComic(row rowScanner) (ComicRecord, error) {
	var rec ComicRecord
	var lastRead sql.NullTime
	err := row.Scan(&rec.ID, &rec.FilePath, &rec.Title, &rec.Format, &rec.SizeBytes,
		&rec.PageCount, &rec.CurrentPage, &rec.Status, &rec.AddedAt, &lastRead)
	if err != nil {
		return ComicRecord{}, err
	}
	if lastRead.Valid {
		t := lastRead.Time
		rec.LastReadAt = &t
	}
	return rec, nil
}

// GetComic returns one comic or ErrComicNotFound
func (l *LibraryDB) GetComic(ctx context.Context, id int64) (ComicRecord, error) {
	row := l.DB.QueryRowContext(ctx, `SELECT `+comicColumns+` FROM comics WHERE id = ?`, id)
	rec, err := scanComic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ComicRecord{}, ErrComicNotFound
	}
	if err != nil {
		return ComicRecord{}, fmt.Errorf("get comic %d: %w", id, err)
	}
	return rec, nil
}

// ListComics returns the library, most recently read first
func (l *LibraryDB) ListComics(ctx context.Context) ([]ComicRecord, error) {
	rows, err := l.DB.QueryContext(ctx, `
		SELECT `+comicColumns+` FROM comics
		ORDER BY last_read_at IS NULL, last_read_at DESC, title
	`)
	if err != nil {
		return nil, fmt.Errorf("list comics: %w", err)
	}
	defer rows.Close()

	out := []ComicRecord{}
	for rows.Next() {
		rec, err := scanComic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comic: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows comics: %w", err)
	}
	return out, nil
}

// SetPageCount stores the number of pages once it is known
func (l *LibraryDB) SetPageCount(ctx context.Context, id int64, count int) error {
	res, err := l.DB.ExecContext(ctx, `UPDATE comics SET page_count = ? WHERE id = ?`, count, id)
	if err != nil {
		return fmt.Errorf("set page count: %w", err)
	}
	return requireRow(res, ErrComicNotFound)
}

// SaveProgress records the current page and marks the comic as being read
func (l *LibraryDB) SaveProgress(ctx context.Context, id int64, page int) error {
	res, err := l.DB.ExecContext(ctx, `
		UPDATE comics SET current_page = ?, status = 'reading', last_read_at = ?
		WHERE id = ?
	`, page, l.now(), id)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return requireRow(res, ErrComicNotFound)
}

// PageActions returns every annotated page of a comic
func (l *LibraryDB) PageActions(ctx context.Context, id int64) (PageActions, error) {
	rows, err := l.DB.QueryContext(ctx, `
		SELECT page_number, is_favorite, note FROM page_actions WHERE comic_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list page actions: %w", err)
	}
	defer rows.Close()

	actions := make(PageActions)
	for rows.Next() {
		var page int
		var fav bool
		var note sql.NullString
		if err := rows.Scan(&page, &fav, &note); err != nil {
			return nil, fmt.Errorf("scan page action: %w", err)
		}
		action := PageAction{IsFavorite: fav}
		if note.Valid && note.String != "" {
			action.Note = stringPtr(note.String)
		}
		actions[page] = action
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows page actions: %w", err)
	}
	return actions, nil
}

// UpsertPageAction merges a partial update into the stored annotations of
// one page. Fields left nil keep their stored value.
func (l *LibraryDB) UpsertPageAction(ctx context.Context, id int64, page int, update PageActionUpdate) error {
	var fav, note any
	if update.IsFavorite != nil {
		fav = *update.IsFavorite
	}
	if update.Note != nil {
		note = *update.Note
	}

	_, err := l.DB.ExecContext(ctx, `
		INSERT INTO page_actions (comic_id, page_number, is_favorite, note, updated_at)
		VALUES (?, ?, COALESCE(?, 0), ?, ?)
		ON CONFLICT(comic_id, page_number) DO UPDATE SET
			is_favorite = COALESCE(?, is_favorite),
			note = COALESCE(?, note),
			updated_at = excluded.updated_at
	`, id, page, fav, note, l.now(), fav, note)
	if err != nil {
		return fmt.Errorf("upsert page action: %w", err)
	}
	return nil
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
