package router // router defines how HTTP routes are registered for the site

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/handler"
)

// RegisterListings registers the venue, artist and show pages. Static
// segments such as /venues/create take precedence over /venues/:id in echo's
// router, so registration order does not matter.
func RegisterListings(e *echo.Echo, h *handler.Handler) {
	e.GET("/", h.Home)

	// ---- Venues ----
	e.GET("/venues", h.ListVenues)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/create", h.CreateVenueForm)
	e.POST("/venues/create", h.CreateVenue)
	e.GET("/venues/:id", h.ShowVenue)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.EditVenue)
	e.DELETE("/venues/:id", h.DeleteVenue)
	e.POST("/venues/:id/delete", h.DeleteVenue) // plain HTML forms cannot send DELETE

	// ---- Artists ----
	e.GET("/artists", h.ListArtists)
	e.POST("/artists/search", h.SearchArtists)
	e.GET("/artists/create", h.CreateArtistForm)
	e.POST("/artists/create", h.CreateArtist)
	e.GET("/artists/:id", h.ShowArtist)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.EditArtist)
	e.DELETE("/artists/:id", h.DeleteArtist)
	e.POST("/artists/:id/delete", h.DeleteArtist)

	// ---- Shows ----
	// shows are immutable once created: no edit or delete routes
	e.GET("/shows", h.ListShows)
	e.GET("/shows/create", h.CreateShowForm)
	e.POST("/shows/create", h.CreateShow)
}
