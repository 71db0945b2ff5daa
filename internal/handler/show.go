package handler // show creation handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/session"
)

// CreateShowForm handles GET /shows/create.
func (h *Handler) CreateShowForm(c echo.Context) error {
	f := form.ShowForm{StartTime: h.now().Format(form.StartTimeLayout)} // pre-fill with the current time
	return c.Render(http.StatusOK, "shows/form.html", showFormPage{Form: f})
}

// CreateShow handles POST /shows/create. The venue and artist must both
// exist; a missing one is reported on its form field with 422 and nothing is
// stored.
func (h *Handler) CreateShow(c echo.Context) error {
	var f form.ShowForm
	if err := c.Bind(&f); err != nil { // bind urlencoded body
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed form submission.")
	}
	f.Normalize()
	if err := c.Validate(&f); err != nil {
		errs := form.FieldErrors(err)
		if errs == nil {
			return err
		}
		h.flash(c, session.Error, "An error occurred. Show could not be listed.")
		return c.Render(http.StatusUnprocessableEntity, "shows/form.html", showFormPage{Form: f, Errors: errs})
	}

	s, err := f.Show() // validated above, so this only fails on overflow
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed form submission.")
	}
	if err := h.Shows.Create(c.Request().Context(), &s); err != nil {
		var errs form.Errors
		switch {
		case errors.Is(err, repository.ErrVenueNotFound):
			errs = form.Errors{"venue_id": "No venue with this id."}
		case errors.Is(err, repository.ErrArtistNotFound):
			errs = form.Errors{"artist_id": "No artist with this id."}
		case errors.Is(err, repository.ErrInvalidReference):
			errs = form.Errors{"venue_id": "Venue or artist does not exist."}
		default:
			c.Logger().Errorf("create show venue=%d artist=%d: %v", s.VenueID, s.ArtistID, err)
			h.flash(c, session.Error, "An error occurred. Show could not be listed.")
			return c.Render(http.StatusInternalServerError, "shows/form.html", showFormPage{Form: f})
		}
		h.flash(c, session.Error, "An error occurred. Show could not be listed.")
		return c.Render(http.StatusUnprocessableEntity, "shows/form.html", showFormPage{Form: f, Errors: errs})
	}

	h.publish(c, queue.ListingEvent{
		Kind:      queue.KindShow,
		Action:    queue.ActionCreated,
		ID:        s.ID,
		VenueID:   s.VenueID,
		ArtistID:  s.ArtistID,
		StartTime: s.StartTime.Format(form.StartTimeLayout),
	})
	h.flash(c, session.Info, "Show was successfully listed!")
	return c.Redirect(http.StatusSeeOther, "/shows")
}
