package model

import "time"

// The types below are read models assembled by the repositories for the
// listing, search and detail pages.

// VenueSummary is a venue line in the area listing and in search results.
type VenueSummary struct {
	ID               uint64
	Name             string
	NumUpcomingShows int
}

// Area groups venues sharing a city and state.
type Area struct {
	City   string
	State  string
	Venues []VenueSummary
}

// ArtistSummary is an artist line in listings and search results.
type ArtistSummary struct {
	ID               uint64
	Name             string
	NumUpcomingShows int
}

// SearchResult carries the match count and the matches of a name search.
type SearchResult[T any] struct {
	Count int
	Data  []T
}

// ShowListing is a show joined with both sides, used on /shows.
type ShowListing struct {
	ID              uint64
	VenueID         uint64
	VenueName       string
	ArtistID        uint64
	ArtistName      string
	ArtistImageLink string
	StartTime       time.Time
}

// CounterpartShow is a show seen from one side: on a venue page the
// counterpart is the artist, on an artist page it is the venue.
type CounterpartShow struct {
	ShowID    uint64
	ID        uint64
	Name      string
	ImageLink string
	StartTime time.Time
}

// VenueDetail is everything the venue page shows.
type VenueDetail struct {
	Venue
	PastShows          []CounterpartShow
	UpcomingShows      []CounterpartShow
	PastShowsCount     int
	UpcomingShowsCount int
}

// ArtistDetail is everything the artist page shows.
type ArtistDetail struct {
	Artist
	PastShows          []CounterpartShow
	UpcomingShows      []CounterpartShow
	PastShowsCount     int
	UpcomingShowsCount int
}

// PartitionShows splits shows into past and upcoming relative to now,
// keeping their order.
func PartitionShows(shows []CounterpartShow, now time.Time) (past, upcoming []CounterpartShow) {
	past = []CounterpartShow{}
	upcoming = []CounterpartShow{}
	for _, s := range shows {
		if s.StartTime.After(now) {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	return past, upcoming
}
