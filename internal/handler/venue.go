package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/session"
)

type venueDetailPage struct {
	Venue              model.Venue
	Upcoming           []showLine
	Past               []showLine
	UpcomingShowsCount int
	PastShowsCount     int
}

// ShowVenue handles GET /venues/:id.
func (h *Handler) ShowVenue(c echo.Context) error {
	id, err := pathID(c, "Venue")
	if err != nil {
		return err
	}
	d, err := h.Venues.Detail(c.Request().Context(), id, h.now())
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return notFound("Venue")
		}
		c.Logger().Errorf("venue detail id=%d: %v", id, err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "venues/show.html", venueDetailPage{
		Venue:              d.Venue,
		Upcoming:           showLines("/artists/", d.UpcomingShows),
		Past:               showLines("/artists/", d.PastShows),
		UpcomingShowsCount: d.UpcomingShowsCount,
		PastShowsCount:     d.PastShowsCount,
	})
}

func newVenuePage(f form.VenueForm, errs form.Errors) venueFormPage {
	return venueFormPage{
		Title:  "List a new venue",
		Action: "/venues/create",
		Submit: "Create venue",
		Form:   f,
		Errors: errs,
		States: form.States,
		Genres: form.Genres,
	}
}

func editVenuePage(id uint64, f form.VenueForm, errs form.Errors) venueFormPage {
	return venueFormPage{
		Title:  "Edit venue " + f.Name,
		Action: fmt.Sprintf("/venues/%d/edit", id),
		Submit: "Save changes",
		Form:   f,
		Errors: errs,
		States: form.States,
		Genres: form.Genres,
	}
}

// bindVenue binds and validates the posted venue form. errs is non-nil when
// validation failed; err is set for malformed requests.
func bindVenue(c echo.Context) (f form.VenueForm, errs form.Errors, err error) {
	if err = c.Bind(&f); err != nil {
		return f, nil, echo.NewHTTPError(http.StatusBadRequest, "Malformed form submission.")
	}
	f.Normalize()
	if verr := c.Validate(&f); verr != nil {
		if errs = form.FieldErrors(verr); errs == nil {
			return f, nil, verr
		}
	}
	return f, errs, nil
}

// CreateVenueForm handles GET /venues/create.
func (h *Handler) CreateVenueForm(c echo.Context) error {
	return c.Render(http.StatusOK, "venues/form.html", newVenuePage(form.VenueForm{}, nil))
}

// CreateVenue handles POST /venues/create. Invalid input re-renders the form
// with 422; a persistence failure re-renders it with 500. On success the
// browser is sent to the new venue's page.
func (h *Handler) CreateVenue(c echo.Context) error {
	f, errs, err := bindVenue(c)
	if err != nil {
		return err
	}
	if errs != nil {
		h.flash(c, session.Error, "An error occurred. Venue "+f.Name+" could not be listed.")
		return c.Render(http.StatusUnprocessableEntity, "venues/form.html", newVenuePage(f, errs))
	}

	v := f.Venue(0)
	if err := h.Venues.Create(c.Request().Context(), &v); err != nil {
		c.Logger().Errorf("create venue %q: %v", f.Name, err)
		h.flash(c, session.Error, "An error occurred. Venue "+f.Name+" could not be listed.")
		return c.Render(http.StatusInternalServerError, "venues/form.html", newVenuePage(f, nil))
	}
	h.publish(c, queue.ListingEvent{Kind: queue.KindVenue, Action: queue.ActionCreated, ID: v.ID, Name: v.Name})
	h.flash(c, session.Info, "Venue "+v.Name+" was successfully listed!")
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/venues/%d", v.ID))
}

// EditVenueForm handles GET /venues/:id/edit.
func (h *Handler) EditVenueForm(c echo.Context) error {
	id, err := pathID(c, "Venue")
	if err != nil {
		return err
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return notFound("Venue")
		}
		c.Logger().Errorf("load venue id=%d: %v", id, err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "venues/form.html", editVenuePage(id, form.VenueFormFrom(*v), nil))
}

// EditVenue handles POST /venues/:id/edit and replaces every editable field.
func (h *Handler) EditVenue(c echo.Context) error {
	id, err := pathID(c, "Venue")
	if err != nil {
		return err
	}
	f, errs, err := bindVenue(c)
	if err != nil {
		return err
	}
	if errs != nil {
		h.flash(c, session.Error, "An error occurred. Venue "+f.Name+" could not be updated.")
		return c.Render(http.StatusUnprocessableEntity, "venues/form.html", editVenuePage(id, f, errs))
	}

	v := f.Venue(id)
	if err := h.Venues.Update(c.Request().Context(), &v); err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return notFound("Venue")
		}
		c.Logger().Errorf("update venue id=%d: %v", id, err)
		h.flash(c, session.Error, "An error occurred. Venue "+f.Name+" could not be updated.")
		return c.Render(http.StatusInternalServerError, "venues/form.html", editVenuePage(id, f, nil))
	}
	h.publish(c, queue.ListingEvent{Kind: queue.KindVenue, Action: queue.ActionUpdated, ID: v.ID, Name: v.Name})
	h.flash(c, session.Info, "Venue "+v.Name+" was successfully updated!")
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/venues/%d", id))
}
