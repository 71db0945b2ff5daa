package handler // handler contains the HTTP handlers of the site

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/form"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/service"
	"github.com/iliyamo/fyyur/internal/session"
)

// recentLimit is how many venues and artists the home page lists.
const recentLimit = 10

// Handler bundles the repositories and collaborators every page needs.
type Handler struct {
	Venues   *repository.VenueRepo  // venue persistence
	Artists  *repository.ArtistRepo // artist persistence
	Shows    *repository.ShowRepo   // show persistence
	Sessions *session.Store         // flash messages
	Events   service.EventPublisher // listing events, best effort
	Now      func() time.Time       // clock used for past/upcoming splits
}

// NewHandler constructs a Handler and panics if a dependency is nil. A nil
// publisher is replaced by service.NopPublisher.
func NewHandler(venues *repository.VenueRepo, artists *repository.ArtistRepo, shows *repository.ShowRepo, sessions *session.Store, events service.EventPublisher) *Handler {
	if venues == nil || artists == nil || shows == nil || sessions == nil {
		panic("nil dependency passed to NewHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &Handler{
		Venues:   venues,
		Artists:  artists,
		Shows:    shows,
		Sessions: sessions,
		Events:   events,
		Now:      time.Now,
	}
}

// now is the request's reference instant, in UTC and second precision like
// stored start times.
func (h *Handler) now() time.Time {
	return h.Now().UTC().Truncate(time.Second)
}

// pathID parses the :id path parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(c echo.Context, what string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound(what)
	}
	return id, nil
}

func notFound(what string) error {
	return echo.NewHTTPError(http.StatusNotFound, what+" not found.")
}

// serverError hides err from the user but keeps it for the error handler's
// log line.
func serverError(err error) error {
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}

func (h *Handler) flash(c echo.Context, category, msg string) {
	h.Sessions.AddFlash(c, category, msg)
}

// publish sends a listing event after a committed change. Failures are
// logged only; the change itself already succeeded.
func (h *Handler) publish(c echo.Context, ev queue.ListingEvent) {
	ev.OccurredAt = h.now().Format(time.RFC3339)
	if err := h.Events.Publish(c.Request().Context(), ev); err != nil {
		c.Logger().Warnf("publish %s %s id=%d: %v", ev.Kind, ev.Action, ev.ID, err)
	}
}

// showLine is one entry of the past/upcoming lists on a detail page.
type showLine struct {
	Href      string
	Name      string
	ImageLink string
	StartTime time.Time
}

func showLines(prefix string, shows []model.CounterpartShow) []showLine {
	out := make([]showLine, 0, len(shows))
	for _, s := range shows {
		out = append(out, showLine{
			Href:      prefix + strconv.FormatUint(s.ID, 10),
			Name:      s.Name,
			ImageLink: s.ImageLink,
			StartTime: s.StartTime,
		})
	}
	return out
}

// venueFormPage feeds venues/form.html.
type venueFormPage struct {
	Title  string
	Action string
	Submit string
	Form   form.VenueForm
	Errors form.Errors
	States []string
	Genres []string
}

// artistFormPage feeds artists/form.html.
type artistFormPage struct {
	Title  string
	Action string
	Submit string
	Form   form.ArtistForm
	Errors form.Errors
	States []string
	Genres []string
}

// showFormPage feeds shows/form.html.
type showFormPage struct {
	Form   form.ShowForm
	Errors form.Errors
}
