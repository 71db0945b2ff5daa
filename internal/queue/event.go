// Package queue defines the listing activity messages exchanged over
// RabbitMQ and the consumer that records them.
package queue

// ActivityQueue is the durable queue listing events are published to.
const ActivityQueue = "fyyur.activity"

// Entity kinds and actions carried by ListingEvent.
const (
	KindVenue  = "venue"
	KindArtist = "artist"
	KindShow   = "show"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ListingEvent is published after a venue, artist or show change has been
// committed. It carries enough for the activity log without a database
// lookup.
type ListingEvent struct {
	Kind         string `json:"kind"`
	Action       string `json:"action"`
	ID           uint64 `json:"id"`
	Name         string `json:"name,omitempty"`
	VenueID      uint64 `json:"venue_id,omitempty"`
	ArtistID     uint64 `json:"artist_id,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	ShowsRemoved int64  `json:"shows_removed,omitempty"`
	OccurredAt   string `json:"occurred_at"`
}
