package model

import "time"

// Show links one artist and one venue at a start time. Shows are created
// once and never edited; they disappear only when their venue or artist is
// deleted.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – venue hosting the show.
//  ArtistID  – artist performing.
//  StartTime – when the show begins, UTC.
//  ImageLink – optional poster URL.
type Show struct {
	ID        uint64    // shows.id
	VenueID   uint64    // shows.venue_id
	ArtistID  uint64    // shows.artist_id
	StartTime time.Time // shows.start_time
	ImageLink string    // shows.image_link
}

// IsPast reports whether the show counts as past at now. A show starting
// exactly at now is past.
func (s Show) IsPast(now time.Time) bool {
	return !s.StartTime.After(now)
}
