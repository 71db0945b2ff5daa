package handler // delete handlers for venues and artists

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/session"
)

// deletedMessage is the success flash. It mentions removed shows only when
// there were any.
func deletedMessage(kind, name string, shows int64) string {
	msg := fmt.Sprintf("%s %s was successfully deleted", kind, name)
	switch shows {
	case 0:
	case 1:
		msg += " along with 1 show"
	default:
		msg += fmt.Sprintf(" along with %d shows", shows)
	}
	return msg + "."
}

// DeleteVenue handles DELETE /venues/:id and POST /venues/:id/delete. The
// venue and its shows go in one transaction. An unknown id is a 404 with no
// flash; a failed delete rolls back and sends the user back to the venue.
func (h *Handler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c, "Venue")
	if err != nil {
		return err
	}
	res, err := h.Venues.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) { // nothing to delete
			return notFound("Venue")
		}
		c.Logger().Errorf("delete venue id=%d: %v", id, err)
		h.flash(c, session.Error, fmt.Sprintf("An error occurred. Venue %d could not be deleted.", id))
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/venues/%d", id))
	}
	h.publish(c, queue.ListingEvent{Kind: queue.KindVenue, Action: queue.ActionDeleted, ID: id, Name: res.Name, ShowsRemoved: res.ShowsRemoved})
	h.flash(c, session.Info, deletedMessage("Venue", res.Name, res.ShowsRemoved))
	return c.Redirect(http.StatusSeeOther, "/")
}

// DeleteArtist handles DELETE /artists/:id and POST /artists/:id/delete with
// the same contract as DeleteVenue.
func (h *Handler) DeleteArtist(c echo.Context) error {
	id, err := pathID(c, "Artist")
	if err != nil {
		return err
	}
	res, err := h.Artists.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return notFound("Artist")
		}
		c.Logger().Errorf("delete artist id=%d: %v", id, err)
		h.flash(c, session.Error, fmt.Sprintf("An error occurred. Artist %d could not be deleted.", id))
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/artists/%d", id))
	}
	h.publish(c, queue.ListingEvent{Kind: queue.KindArtist, Action: queue.ActionDeleted, ID: id, Name: res.Name, ShowsRemoved: res.ShowsRemoved})
	h.flash(c, session.Info, deletedMessage("Artist", res.Name, res.ShowsRemoved))
	return c.Redirect(http.StatusSeeOther, "/")
}
