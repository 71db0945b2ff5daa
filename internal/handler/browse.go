package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
)

type homePage struct {
	Venues  []model.VenueSummary
	Artists []model.ArtistSummary
}

// Home handles GET / and lists the most recently added venues and artists.
func (h *Handler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	venues, err := h.Venues.ListRecent(ctx, recentLimit)
	if err != nil {
		c.Logger().Errorf("home: list recent venues: %v", err)
		return serverError(err)
	}
	artists, err := h.Artists.ListRecent(ctx, recentLimit)
	if err != nil {
		c.Logger().Errorf("home: list recent artists: %v", err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "home.html", homePage{Venues: venues, Artists: artists})
}

// ListVenues handles GET /venues: venues grouped by city and state, each
// with its number of upcoming shows.
func (h *Handler) ListVenues(c echo.Context) error {
	areas, err := h.Venues.ListAreas(c.Request().Context(), h.now())
	if err != nil {
		c.Logger().Errorf("list venues: %v", err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "venues/index.html", areas)
}

// ListArtists handles GET /artists.
func (h *Handler) ListArtists(c echo.Context) error {
	artists, err := h.Artists.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list artists: %v", err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "artists/index.html", artists)
}

// ListShows handles GET /shows, ordered by start time.
func (h *Handler) ListShows(c echo.Context) error {
	shows, err := h.Shows.ListAll(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list shows: %v", err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "shows/index.html", shows)
}
