package model

// Artist is a performer that can appear in shows. It mirrors Venue without
// the address and with SeekingVenue instead of SeekingTalent. This struct
// corresponds to a row in the `artists` table.
type Artist struct {
	ID                 uint64   // artists.id
	Name               string   // artists.name
	City               string   // artists.city
	State              string   // artists.state
	Phone              string   // artists.phone
	Genres             []string // artists.genres (comma-joined)
	ImageLink          string   // artists.image_link
	FacebookLink       string   // artists.facebook_link
	WebsiteLink        string   // artists.website_link
	SeekingVenue       bool     // artists.seeking_venue
	SeekingDescription string   // artists.seeking_description
}
