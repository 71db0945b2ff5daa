package model

import "strings"

// Venue is a location that can host shows. It corresponds to a row in the
// `venues` table. Genres are kept as a list here and stored as a single
// comma-joined column.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – display name.
//  City, State        – the area the venue is listed under.
//  Address            – street address.
//  Phone              – contact number, free form.
//  Genres             – genres the venue books.
//  ImageLink          – URL of the venue picture.
//  FacebookLink       – URL of the facebook page.
//  WebsiteLink        – URL of the website.
//  SeekingTalent      – whether the venue is looking for artists.
//  SeekingDescription – text shown when SeekingTalent is set.
type Venue struct {
	ID                 uint64   // venues.id
	Name               string   // venues.name
	City               string   // venues.city
	State              string   // venues.state
	Address            string   // venues.address
	Phone              string   // venues.phone
	Genres             []string // venues.genres (comma-joined)
	ImageLink          string   // venues.image_link
	FacebookLink       string   // venues.facebook_link
	WebsiteLink        string   // venues.website_link
	SeekingTalent      bool     // venues.seeking_talent
	SeekingDescription string   // venues.seeking_description
}

// JoinGenres encodes genres for the single genres column.
func JoinGenres(genres []string) string {
	clean := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			clean = append(clean, g)
		}
	}
	return strings.Join(clean, ",")
}

// SplitGenres decodes the genres column. An empty column yields nil.
func SplitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
