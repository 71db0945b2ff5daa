package form

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
)

// VenueForm is the venue create/edit form.
type VenueForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,max=120,phone"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,max=500,url"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,max=120,url"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,max=120,url"`
	SeekingTalent      string   `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

// Normalize trims surrounding whitespace from every text field.
func (f *VenueForm) Normalize() {
	trimAll(&f.Name, &f.City, &f.State, &f.Address, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingTalent, &f.SeekingDescription)
	f.Genres = trimList(f.Genres)
}

// Seeking reports whether the seeking_talent box was ticked.
func (f VenueForm) Seeking() bool { return Checked(f.SeekingTalent) }

// HasGenre is used by the template to pre-select genres.
func (f VenueForm) HasGenre(g string) bool { return contains(f.Genres, g) }

// Venue converts the form into a model; id is zero for new venues.
func (f VenueForm) Venue(id uint64) model.Venue {
	return model.Venue{
		ID:                 id,
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Address:            f.Address,
		Phone:              f.Phone,
		Genres:             append([]string(nil), f.Genres...),
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		WebsiteLink:        f.WebsiteLink,
		SeekingTalent:      f.Seeking(),
		SeekingDescription: f.SeekingDescription,
	}
}

// VenueFormFrom pre-fills the edit form from a stored venue.
func VenueFormFrom(v model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		Genres:             append([]string(nil), v.Genres...),
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.WebsiteLink,
		SeekingTalent:      checkbox(v.SeekingTalent),
		SeekingDescription: v.SeekingDescription,
	}
}

// ArtistForm is the artist create/edit form.
type ArtistForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Phone              string   `form:"phone" validate:"omitempty,max=120,phone"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,max=500,url"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,max=120,url"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,max=120,url"`
	SeekingVenue       string   `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

// Normalize trims surrounding whitespace from every text field.
func (f *ArtistForm) Normalize() {
	trimAll(&f.Name, &f.City, &f.State, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingVenue, &f.SeekingDescription)
	f.Genres = trimList(f.Genres)
}

func (f ArtistForm) Seeking() bool         { return Checked(f.SeekingVenue) }
func (f ArtistForm) HasGenre(g string) bool { return contains(f.Genres, g) }

// Artist converts the form into a model; id is zero for new artists.
func (f ArtistForm) Artist(id uint64) model.Artist {
	return model.Artist{
		ID:                 id,
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		Genres:             append([]string(nil), f.Genres...),
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		WebsiteLink:        f.WebsiteLink,
		SeekingVenue:       f.Seeking(),
		SeekingDescription: f.SeekingDescription,
	}
}

// ArtistFormFrom pre-fills the edit form from a stored artist.
func ArtistFormFrom(a model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Genres:             append([]string(nil), a.Genres...),
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.WebsiteLink,
		SeekingVenue:       checkbox(a.SeekingVenue),
		SeekingDescription: a.SeekingDescription,
	}
}

// ShowForm is the show creation form. IDs arrive as text and are checked
// by the dbid tag before Show parses them.
type ShowForm struct {
	ArtistID  string `form:"artist_id" validate:"required,dbid"`
	VenueID   string `form:"venue_id" validate:"required,dbid"`
	StartTime string `form:"start_time" validate:"required,starttime"`
	ImageLink string `form:"image_link" validate:"omitempty,max=500,url"`
}

// Normalize trims surrounding whitespace from every field.
func (f *ShowForm) Normalize() {
	trimAll(&f.ArtistID, &f.VenueID, &f.StartTime, &f.ImageLink)
}

// Show converts a validated form into a model.
func (f ShowForm) Show() (model.Show, error) {
	artistID, err := strconv.ParseUint(f.ArtistID, 10, 64)
	if err != nil {
		return model.Show{}, err
	}
	venueID, err := strconv.ParseUint(f.VenueID, 10, 64)
	if err != nil {
		return model.Show{}, err
	}
	start, err := ParseStartTime(f.StartTime)
	if err != nil {
		return model.Show{}, err
	}
	return model.Show{
		ArtistID:  artistID,
		VenueID:   venueID,
		StartTime: start,
		ImageLink: f.ImageLink,
	}, nil
}

// StartTimeLayout is the layout the show form pre-fills and documents.
const StartTimeLayout = "2006-01-02 15:04:05"

var startTimeLayouts = []string{
	StartTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var errBadStartTime = errors.New("unrecognised start time")

// ParseStartTime accepts "2006-01-02 15:04:05", the datetime-local input
// format, or RFC 3339. Times without an offset are taken as UTC. The result
// is in UTC, truncated to the second.
func ParseStartTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, errBadStartTime
}

// Checked reports whether a checkbox value means "on".
func Checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "on", "true", "1":
		return true
	}
	return false
}

func checkbox(b bool) string {
	if b {
		return "y"
	}
	return ""
}

func trimAll(ps ...*string) {
	for _, p := range ps {
		*p = strings.TrimSpace(*p)
	}
}

func trimList(xs []string) []string {
	if xs == nil {
		return nil
	}
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
