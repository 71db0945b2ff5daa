package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a show after checking, in the same transaction, that both
// the venue and the artist exist. A missing venue yields ErrVenueNotFound, a
// missing artist ErrArtistNotFound (venue first when both are missing). A
// foreign key failure raised by the database is reported as
// ErrInvalidReference.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, s.VenueID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVenueNotFound
			}
			return err
		}
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM artists WHERE id = ?`, s.ArtistID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArtistNotFound
			}
			return err
		}

		const q = `INSERT INTO shows (venue_id, artist_id, start_time, image_link) VALUES (?, ?, ?, ?)`
		res, err := tx.ExecContext(ctx, q, s.VenueID, s.ArtistID, s.StartTime.UTC(), s.ImageLink)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrInvalidReference
			}
			return fmt.Errorf("insert show: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
		return nil
	})
}

// GetByID retrieves a show by its ID.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, venue_id, artist_id, start_time, image_link FROM shows WHERE id = ?`
	var s model.Show
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.VenueID, &s.ArtistID, &s.StartTime, &s.ImageLink); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	s.StartTime = s.StartTime.UTC()
	return &s, nil
}

// ListAll returns every show with its venue and artist labels, ordered by
// start time.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.ShowListing, error) {
	const q = `SELECT s.id, v.id, v.name, a.id, a.name, a.image_link, s.start_time
		FROM shows s
		JOIN venues v  ON v.id = s.venue_id
		JOIN artists a ON a.id = s.artist_id
		ORDER BY s.start_time, s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()
	out := []model.ShowListing{}
	for rows.Next() {
		var sl model.ShowListing
		if err := rows.Scan(&sl.ID, &sl.VenueID, &sl.VenueName, &sl.ArtistID, &sl.ArtistName,
			&sl.ArtistImageLink, &sl.StartTime); err != nil {
			return nil, err
		}
		sl.StartTime = sl.StartTime.UTC()
		out = append(out, sl)
	}
	return out, rows.Err()
}

// Count returns the number of stored shows.
func (r *ShowRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
