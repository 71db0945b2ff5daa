package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/model"
)

// ErrArtistNotFound is returned when an artist cannot be found in the DB.
var ErrArtistNotFound = errors.New("artist not found")

// ArtistRepo manages persistence for artists.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the given DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

const artistColumns = `id, name, city, state, phone, genres, image_link,
	facebook_link, website_link, seeking_venue, seeking_description`

func scanArtist(s rowScanner) (*model.Artist, error) {
	var a model.Artist
	var genres string
	if err := s.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &genres,
		&a.ImageLink, &a.FacebookLink, &a.WebsiteLink, &a.SeekingVenue, &a.SeekingDescription); err != nil {
		return nil, err
	}
	a.Genres = model.SplitGenres(genres)
	return &a, nil
}

// Create inserts a new artist and sets its ID.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link,
		facebook_link, website_link, seeking_venue, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone,
		model.JoinGenres(a.Genres), a.ImageLink, a.FacebookLink, a.WebsiteLink,
		a.SeekingVenue, a.SeekingDescription)
	if err != nil {
		return fmt.Errorf("insert artist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID retrieves an artist by its ID. It returns ErrArtistNotFound if
// there is no matching row.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	q := "SELECT " + artistColumns + " FROM artists WHERE id = ?"
	a, err := scanArtist(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return a, nil
}

// Update replaces every editable column of the artist with a.ID. Only the
// artists table is written.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	const q = `UPDATE artists
		SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?,
		    facebook_link = ?, website_link = ?, seeking_venue = ?, seeking_description = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone,
		model.JoinGenres(a.Genres), a.ImageLink, a.FacebookLink, a.WebsiteLink,
		a.SeekingVenue, a.SeekingDescription, a.ID)
	if err != nil {
		return fmt.Errorf("update artist %d: %w", a.ID, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM artists WHERE id = ?", a.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrArtistNotFound
		}
		return err
	}
	return nil
}

// List returns all artists ordered by name.
func (r *ArtistRepo) List(ctx context.Context) ([]model.ArtistSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()
	out := []model.ArtistSummary{}
	for rows.Next() {
		var as model.ArtistSummary
		if err := rows.Scan(&as.ID, &as.Name); err != nil {
			return nil, err
		}
		out = append(out, as)
	}
	return out, rows.Err()
}

// ListRecent returns the most recently listed artists, newest first.
func (r *ArtistRepo) ListRecent(ctx context.Context, limit int) ([]model.ArtistSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent artists: %w", err)
	}
	defer rows.Close()
	out := []model.ArtistSummary{}
	for rows.Next() {
		var as model.ArtistSummary
		if err := rows.Scan(&as.ID, &as.Name); err != nil {
			return nil, err
		}
		out = append(out, as)
	}
	return out, rows.Err()
}

// Search matches artist names case-insensitively against term as a
// substring.
func (r *ArtistRepo) Search(ctx context.Context, term string, now time.Time) (model.SearchResult[model.ArtistSummary], error) {
	const q = `SELECT a.id, a.name,
		       COALESCE(SUM(CASE WHEN s.start_time > ? THEN 1 ELSE 0 END), 0) AS upcoming
		FROM artists a
		LEFT JOIN shows s ON s.artist_id = a.id
		WHERE LOWER(a.name) LIKE LOWER(?) ESCAPE '!'
		GROUP BY a.id, a.name
		ORDER BY a.name, a.id`
	out := model.SearchResult[model.ArtistSummary]{Data: []model.ArtistSummary{}}
	rows, err := r.db.QueryContext(ctx, q, now.UTC(), likePattern(term))
	if err != nil {
		return out, fmt.Errorf("search artists: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var as model.ArtistSummary
		if err := rows.Scan(&as.ID, &as.Name, &as.NumUpcomingShows); err != nil {
			return out, err
		}
		out.Data = append(out.Data, as)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	out.Count = len(out.Data)
	return out, nil
}

// Detail loads the artist and its shows split into past and upcoming,
// each annotated with the hosting venue.
func (r *ArtistRepo) Detail(ctx context.Context, id uint64, now time.Time) (*model.ArtistDetail, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT s.id, v.id, v.name, v.image_link, s.start_time
		FROM shows s
		JOIN venues v ON v.id = s.venue_id
		WHERE s.artist_id = ?
		ORDER BY s.start_time, s.id`
	shows, err := queryCounterparts(ctx, r.db, q, id)
	if err != nil {
		return nil, fmt.Errorf("load shows of artist %d: %w", id, err)
	}
	d := &model.ArtistDetail{Artist: *a}
	d.PastShows, d.UpcomingShows = model.PartitionShows(shows, now)
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d, nil
}

// Delete removes the artist and its shows in one transaction.
func (r *ArtistRepo) Delete(ctx context.Context, id uint64) (DeleteResult, error) {
	var out DeleteResult
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT name FROM artists WHERE id = ?`, id).Scan(&out.Name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArtistNotFound
			}
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE artist_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete shows of artist %d: %w", id, err)
		}
		out.ShowsRemoved, _ = res.RowsAffected()
		res, err = tx.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete artist %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrArtistNotFound
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return out, nil
}
