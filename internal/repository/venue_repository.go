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

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// DeleteResult reports what a cascading delete removed.
type DeleteResult struct {
	Name         string // name of the deleted venue or artist
	ShowsRemoved int64  // shows deleted with it
}

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, name, city, state, address, phone, genres, image_link,
	facebook_link, website_link, seeking_talent, seeking_description`

func scanVenue(s rowScanner) (*model.Venue, error) {
	var v model.Venue
	var genres string
	if err := s.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &genres,
		&v.ImageLink, &v.FacebookLink, &v.WebsiteLink, &v.SeekingTalent, &v.SeekingDescription); err != nil {
		return nil, err
	}
	v.Genres = model.SplitGenres(genres)
	return &v, nil
}

// Create inserts a new venue and sets its ID.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, city, state, address, phone, genres, image_link,
		facebook_link, website_link, seeking_talent, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone,
		model.JoinGenres(v.Genres), v.ImageLink, v.FacebookLink, v.WebsiteLink,
		v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID fetches a venue by its ID. It returns ErrVenueNotFound if no row
// is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	q := "SELECT " + venueColumns + " FROM venues WHERE id = ?"
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// Update replaces every editable column of the venue with v.ID. Writing the
// same values again is not an error; a missing row is ErrVenueNotFound.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues
		SET name = ?, city = ?, state = ?, address = ?, phone = ?, genres = ?, image_link = ?,
		    facebook_link = ?, website_link = ?, seeking_talent = ?, seeking_description = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone,
		model.JoinGenres(v.Genres), v.ImageLink, v.FacebookLink, v.WebsiteLink,
		v.SeekingTalent, v.SeekingDescription, v.ID)
	if err != nil {
		return fmt.Errorf("update venue %d: %w", v.ID, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// MySQL reports 0 affected rows when nothing changed, so tell
	// "missing" apart from "identical".
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM venues WHERE id = ?", v.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	return nil
}

// ListAreas returns every venue grouped by (city, state). Each venue carries
// the number of its shows starting after now.
func (r *VenueRepo) ListAreas(ctx context.Context, now time.Time) ([]model.Area, error) {
	const q = `SELECT v.id, v.name, v.city, v.state,
		       COALESCE(SUM(CASE WHEN s.start_time > ? THEN 1 ELSE 0 END), 0) AS upcoming
		FROM venues v
		LEFT JOIN shows s ON s.venue_id = v.id
		GROUP BY v.id, v.name, v.city, v.state
		ORDER BY v.state, v.city, v.name, v.id`
	rows, err := r.db.QueryContext(ctx, q, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("list venue areas: %w", err)
	}
	defer rows.Close()

	areas := []model.Area{}
	for rows.Next() {
		var vs model.VenueSummary
		var city, state string
		if err := rows.Scan(&vs.ID, &vs.Name, &city, &state, &vs.NumUpcomingShows); err != nil {
			return nil, err
		}
		if n := len(areas); n == 0 || areas[n-1].City != city || areas[n-1].State != state {
			areas = append(areas, model.Area{City: city, State: state})
		}
		last := &areas[len(areas)-1]
		last.Venues = append(last.Venues, vs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return areas, nil
}

// Search matches venue names case-insensitively against term as a
// substring. An empty term matches every venue.
func (r *VenueRepo) Search(ctx context.Context, term string, now time.Time) (model.SearchResult[model.VenueSummary], error) {
	const q = `SELECT v.id, v.name,
		       COALESCE(SUM(CASE WHEN s.start_time > ? THEN 1 ELSE 0 END), 0) AS upcoming
		FROM venues v
		LEFT JOIN shows s ON s.venue_id = v.id
		WHERE LOWER(v.name) LIKE LOWER(?) ESCAPE '!'
		GROUP BY v.id, v.name
		ORDER BY v.name, v.id`
	out := model.SearchResult[model.VenueSummary]{Data: []model.VenueSummary{}}
	rows, err := r.db.QueryContext(ctx, q, now.UTC(), likePattern(term))
	if err != nil {
		return out, fmt.Errorf("search venues: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var vs model.VenueSummary
		if err := rows.Scan(&vs.ID, &vs.Name, &vs.NumUpcomingShows); err != nil {
			return out, err
		}
		out.Data = append(out.Data, vs)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	out.Count = len(out.Data)
	return out, nil
}

// ListRecent returns the most recently listed venues, newest first.
func (r *VenueRepo) ListRecent(ctx context.Context, limit int) ([]model.VenueSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM venues ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent venues: %w", err)
	}
	defer rows.Close()
	out := []model.VenueSummary{}
	for rows.Next() {
		var vs model.VenueSummary
		if err := rows.Scan(&vs.ID, &vs.Name); err != nil {
			return nil, err
		}
		out = append(out, vs)
	}
	return out, rows.Err()
}

// Detail loads the venue and its shows split into past (start <= now) and
// upcoming (start > now), each annotated with the performing artist.
func (r *VenueRepo) Detail(ctx context.Context, id uint64, now time.Time) (*model.VenueDetail, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT s.id, a.id, a.name, a.image_link, s.start_time
		FROM shows s
		JOIN artists a ON a.id = s.artist_id
		WHERE s.venue_id = ?
		ORDER BY s.start_time, s.id`
	shows, err := queryCounterparts(ctx, r.db, q, id)
	if err != nil {
		return nil, fmt.Errorf("load shows of venue %d: %w", id, err)
	}
	d := &model.VenueDetail{Venue: *v}
	d.PastShows, d.UpcomingShows = model.PartitionShows(shows, now)
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d, nil
}

// Delete removes the venue and its shows in one transaction. If the venue
// does not exist ErrVenueNotFound is returned and nothing is touched.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) (DeleteResult, error) {
	var out DeleteResult
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT name FROM venues WHERE id = ?`, id).Scan(&out.Name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVenueNotFound
			}
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete shows of venue %d: %w", id, err)
		}
		out.ShowsRemoved, _ = res.RowsAffected()
		res, err = tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete venue %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// lost a race with another delete
			return ErrVenueNotFound
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return out, nil
}

// queryCounterparts runs a query selecting (show id, counterpart id, name,
// image_link, start_time).
func queryCounterparts(ctx context.Context, db *sql.DB, q string, args ...any) ([]model.CounterpartShow, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CounterpartShow
	for rows.Next() {
		var cs model.CounterpartShow
		if err := rows.Scan(&cs.ShowID, &cs.ID, &cs.Name, &cs.ImageLink, &cs.StartTime); err != nil {
			return nil, err
		}
		cs.StartTime = cs.StartTime.UTC()
		out = append(out, cs)
	}
	return out, rows.Err()
}
