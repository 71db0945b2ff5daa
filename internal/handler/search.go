package handler // search handlers for venues and artists

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
)

// searchPage is shared by venues/search.html and artists/search.html.
type searchPage[T any] struct {
	Term    string
	Results model.SearchResult[T]
}

// SearchVenues handles POST /venues/search. The search_term field is matched
// case-insensitively as a substring of the venue name; an empty term lists
// every venue.
func (h *Handler) SearchVenues(c echo.Context) error {
	term := c.FormValue("search_term") // raw term, trimmed by the repository
	res, err := h.Venues.Search(c.Request().Context(), term, h.now())
	if err != nil {
		c.Logger().Errorf("search venues %q: %v", term, err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "venues/search.html", searchPage[model.VenueSummary]{Term: term, Results: res})
}

// SearchArtists handles POST /artists/search with the same matching rules.
func (h *Handler) SearchArtists(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Artists.Search(c.Request().Context(), term, h.now())
	if err != nil {
		c.Logger().Errorf("search artists %q: %v", term, err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "artists/search.html", searchPage[model.ArtistSummary]{Term: term, Results: res})
}
