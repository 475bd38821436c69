package scrapbooks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evfilters/scrapbook-api/internal/scrapbook"
	"github.com/evfilters/scrapbook-api/internal/validate"
)

const (
	// MaxDocumentBytes caps the serialized document. Media lives inline as
	// data URIs, so the document itself is the payload.
	MaxDocumentBytes = 5 << 20

	// DefaultCacheTTL bounds how stale a read can be; every write also
	// invalidates explicitly.
	DefaultCacheTTL = 30 * time.Second
)

// Store persists one scrapbook document per userId in Postgres (JSONB) with
// a read-through cache in front. Writes are last-write-wins: the version
// column is bumped server-side on every successful write and is never
// compared against the caller's copy.
type Store struct {
	db    *sql.DB
	cache Cache
}

func New(db *sql.DB, cache Cache) *Store {
	return &Store{db: db, cache: cache}
}

// Get returns the user's book, seeding a default single-page document when
// none exists yet. Absence is never surfaced to the caller.
func (s *Store) Get(ctx context.Context, userID string) (*scrapbook.Book, error) {
	if raw, ok := s.cache.Get(ctx, userID); ok {
		var b scrapbook.Book
		if err := json.Unmarshal(raw, &b); err == nil {
			return &b, nil
		}
		// Unreadable entry: drop it and fall through to storage.
		s.cache.Delete(ctx, userID)
	}

	var (
		raw                  []byte
		version              int64
		createdAt, updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT doc, version, created_at, updated_at FROM scrapbook_documents WHERE user_id = $1`,
		userID,
	).Scan(&raw, &version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s.seed(ctx, userID)
	} else if err != nil {
		return nil, err
	}

	var b scrapbook.Book
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("corrupt document for %q: %w", userID, err)
	}
	b.UserID = userID
	b.Version = version
	b.CreatedAt = createdAt
	b.UpdatedAt = updatedAt
	b.Normalize()

	s.fillCache(ctx, userID, &b)
	return &b, nil
}

// Put validates and replaces the whole document, creating it when absent.
// Callers send the complete book; this is not a field merge.
func (s *Store) Put(ctx context.Context, userID string, b *scrapbook.Book) (*scrapbook.Book, error) {
	b.UserID = userID
	b.Normalize()
	if err := validate.Book(b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	// Storage owns version and timestamps; zero them so the stored JSON
	// never carries stale copies.
	b.Version = 0
	b.CreatedAt, b.UpdatedAt = time.Time{}, time.Time{}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxDocumentBytes {
		return nil, ErrTooLarge
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO scrapbook_documents (user_id, doc, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id) DO UPDATE
		SET doc = EXCLUDED.doc, version = scrapbook_documents.version + 1, updated_at = now()
		RETURNING version, created_at, updated_at`,
		userID, raw,
	).Scan(&b.Version, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, userID)
	return b, nil
}

// PatchPage replaces the page at idx, or appends when idx equals the
// current page count. Any other index is rejected. Returns the new version.
func (s *Store) PatchPage(ctx context.Context, userID string, idx int, page scrapbook.Page) (int64, error) {
	for ei := range page.Elements {
		page.Elements[ei].Normalize()
	}
	if err := validate.Page(&page); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var version int64
	err := withinTx(ctx, s.db, func(tx *sql.Tx) error {
		var raw []byte
		err := tx.QueryRowContext(ctx,
			`SELECT doc FROM scrapbook_documents WHERE user_id = $1 FOR UPDATE`,
			userID,
		).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		var b scrapbook.Book
		if err := json.Unmarshal(raw, &b); err != nil {
			return fmt.Errorf("corrupt document for %q: %w", userID, err)
		}

		switch {
		case idx >= 0 && idx < len(b.Pages):
			b.Pages[idx] = page
		case idx == len(b.Pages):
			b.Pages = append(b.Pages, page)
		default:
			return fmt.Errorf("%w: page index %d out of range", ErrInvalid, idx)
		}

		out, err := json.Marshal(&b)
		if err != nil {
			return err
		}
		if len(out) > MaxDocumentBytes {
			return ErrTooLarge
		}

		return tx.QueryRowContext(ctx,
			`UPDATE scrapbook_documents SET doc = $2, version = version + 1, updated_at = now() WHERE user_id = $1 RETURNING version`,
			userID, out,
		).Scan(&version)
	})
	if err != nil {
		return 0, err
	}

	s.cache.Delete(ctx, userID)
	return version, nil
}

// Remove deletes the document. Deleting an absent document is not an error.
func (s *Store) Remove(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM scrapbook_documents WHERE user_id = $1`, userID,
	); err != nil {
		return err
	}
	s.cache.Delete(ctx, userID)
	return nil
}

// seed creates and persists the default book on first read. A concurrent
// seed for the same user loses the insert and re-reads the winner's row.
func (s *Store) seed(ctx context.Context, userID string) (*scrapbook.Book, error) {
	b := scrapbook.DefaultBook(userID)
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO scrapbook_documents (user_id, doc, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING created_at, updated_at`,
		userID, raw,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race; someone else's document is now the truth.
		return s.Get(ctx, userID)
	} else if err != nil {
		return nil, err
	}

	b.Version = 1
	s.fillCache(ctx, userID, b)
	return b, nil
}

func (s *Store) fillCache(ctx context.Context, userID string, b *scrapbook.Book) {
	if raw, err := json.Marshal(b); err == nil {
		s.cache.Set(ctx, userID, raw)
	}
}

// withinTx runs fn in a transaction: commit on nil, rollback on error.
func withinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
