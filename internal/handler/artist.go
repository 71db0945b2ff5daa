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

type artistDetailPage struct {
	Artist             model.Artist
	Upcoming           []showLine
	Past               []showLine
	UpcomingShowsCount int
	PastShowsCount     int
}

// ShowArtist handles GET /artists/:id.
func (h *Handler) ShowArtist(c echo.Context) error {
	id, err := pathID(c, "Artist")
	if err != nil {
		return err
	}
	d, err := h.Artists.Detail(c.Request().Context(), id, h.now())
	if err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return notFound("Artist")
		}
		c.Logger().Errorf("artist detail id=%d: %v", id, err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "artists/show.html", artistDetailPage{
		Artist:             d.Artist,
		Upcoming:           showLines("/venues/", d.UpcomingShows),
		Past:               showLines("/venues/", d.PastShows),
		UpcomingShowsCount: d.UpcomingShowsCount,
		PastShowsCount:     d.PastShowsCount,
	})
}

func newArtistPage(f form.ArtistForm, errs form.Errors) artistFormPage {
	return artistFormPage{
		Title:  "List a new artist",
		Action: "/artists/create",
		Submit: "Create artist",
		Form:   f,
		Errors: errs,
		States: form.States,
		Genres: form.Genres,
	}
}

func editArtistPage(id uint64, f form.ArtistForm, errs form.Errors) artistFormPage {
	return artistFormPage{
		Title:  "Edit artist " + f.Name,
		Action: fmt.Sprintf("/artists/%d/edit", id),
		Submit: "Save changes",
		Form:   f,
		Errors: errs,
		States: form.States,
		Genres: form.Genres,
	}
}

func bindArtist(c echo.Context) (f form.ArtistForm, errs form.Errors, err error) {
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

// CreateArtistForm handles GET /artists/create.
func (h *Handler) CreateArtistForm(c echo.Context) error {
	return c.Render(http.StatusOK, "artists/form.html", newArtistPage(form.ArtistForm{}, nil))
}

// CreateArtist handles POST /artists/create.
func (h *Handler) CreateArtist(c echo.Context) error {
	f, errs, err := bindArtist(c)
	if err != nil {
		return err
	}
	if errs != nil {
		h.flash(c, session.Error, "An error occurred. Artist "+f.Name+" could not be listed.")
		return c.Render(http.StatusUnprocessableEntity, "artists/form.html", newArtistPage(f, errs))
	}

	a := f.Artist(0)
	if err := h.Artists.Create(c.Request().Context(), &a); err != nil {
		c.Logger().Errorf("create artist %q: %v", f.Name, err)
		h.flash(c, session.Error, "An error occurred. Artist "+f.Name+" could not be listed.")
		return c.Render(http.StatusInternalServerError, "artists/form.html", newArtistPage(f, nil))
	}
	h.publish(c, queue.ListingEvent{Kind: queue.KindArtist, Action: queue.ActionCreated, ID: a.ID, Name: a.Name})
	h.flash(c, session.Info, "Artist "+a.Name+" was successfully listed!")
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/artists/%d", a.ID))
}

// EditArtistForm handles GET /artists/:id/edit.
func (h *Handler) EditArtistForm(c echo.Context) error {
	id, err := pathID(c, "Artist")
	if err != nil {
		return err
	}
	a, err := h.Artists.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return notFound("Artist")
		}
		c.Logger().Errorf("load artist id=%d: %v", id, err)
		return serverError(err)
	}
	return c.Render(http.StatusOK, "artists/form.html", editArtistPage(id, form.ArtistFormFrom(*a), nil))
}

// EditArtist handles POST /artists/:id/edit. Only the artists table is
// written.
func (h *Handler) EditArtist(c echo.Context) error {
	id, err := pathID(c, "Artist")
	if err != nil {
		return err
	}
	f, errs, err := bindArtist(c)
	if err != nil {
		return err
	}
	if errs != nil {
		h.flash(c, session.Error, "An error occurred. Artist "+f.Name+" could not be updated.")
		return c.Render(http.StatusUnprocessableEntity, "artists/form.html", editArtistPage(id, f, errs))
	}

	a := f.Artist(id)
	if err := h.Artists.Update(c.Request().Context(), &a); err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return notFound("Artist")
		}
		c.Logger().Errorf("update artist id=%d: %v", id, err)
		h.flash(c, session.Error, "An error occurred. Artist "+f.Name+" could not be updated.")
		return c.Render(http.StatusInternalServerError, "artists/form.html", editArtistPage(id, f, nil))
	}
	h.publish(c, queue.ListingEvent{Kind: queue.KindArtist, Action: queue.ActionUpdated, ID: a.ID, Name: a.Name})
	h.flash(c, session.Info, "Artist "+a.Name+" was successfully updated!")
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/artists/%d", id))
}
