package router_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/middleware"
	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/session"
)

var (
	secret = []byte("0123456789abcdef0123456789abcdef")
	now    = time.Date(2030, 5, 1, 20, 0, 0, 0, time.UTC)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ListingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.ListingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Events() []queue.ListingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.ListingEvent(nil), p.events...)
}

type app struct {
	e      *echo.Echo
	db     *sql.DB
	events *recordingPublisher
}

func newApp(t *testing.T, csrf bool) app {
	t.Helper()
	db, err := database.Open("sqlite", database.SQLiteDSN(":memory:"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	events := &recordingPublisher{}
	e, err := router.New(router.Options{
		DB:        db,
		Sessions:  session.NewStore(secret, false),
		CSRF:      middleware.CSRFConfig{Enabled: csrf, Secret: secret, TTL: time.Hour},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Events:    events,
		LogLevel:  "OFF",
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return app{e: e, db: db, events: events}
}

func (a app) do(t *testing.T, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// cookiesOf returns the last value set for each cookie name.
func cookiesOf(rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	out := make([]*http.Cookie, 0, len(order))
	for _, n := range order {
		out = append(out, byName[n])
	}
	return out
}

func venueForm(name string) url.Values {
	return url.Values{
		"name":                {name},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"genres":              {"Jazz", "Reggae"},
		"website_link":        {"https://www.themusicalhop.com"},
		"facebook_link":       {"https://www.facebook.com/TheMusicalHop"},
		"image_link":          {"https://images.example.com/hop.jpg"},
		"seeking_talent":      {"y"},
		"seeking_description": {"Looking for a local artist."},
	}
}

func artistForm(name string) url.Values {
	return url.Values{
		"name":   {name},
		"city":   {"San Francisco"},
		"state":  {"CA"},
		"phone":  {"326-123-5000"},
		"genres": {"Rock n Roll"},
	}
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body:\n%s", rec.Code, want, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	a := newApp(t, false)
	rec := a.do(t, http.MethodGet, "/healthz", nil, nil)
	mustStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "ok" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestCreateVenueIsRetrievable(t *testing.T) {
	a := newApp(t, false)

	rec := a.do(t, http.MethodPost, "/venues/create", venueForm("The Musical Hop"), nil)
	mustStatus(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/venues/1" {
		t.Fatalf("location = %q", loc)
	}

	got, err := repository.NewVenueRepo(a.db).GetByID(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	want := model.Venue{
		ID:                 1,
		Name:               "The Musical Hop",
		City:               "San Francisco",
		State:              "CA",
		Address:            "1015 Folsom Street",
		Phone:              "123-123-1234",
		Genres:             []string{"Jazz", "Reggae"},
		ImageLink:          "https://images.example.com/hop.jpg",
		FacebookLink:       "https://www.facebook.com/TheMusicalHop",
		WebsiteLink:        "https://www.themusicalhop.com",
		SeekingTalent:      true,
		SeekingDescription: "Looking for a local artist.",
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("stored venue (-want +got):\n%s", diff)
	}

	page := a.do(t, http.MethodGet, "/venues/1", nil, cookiesOf(rec))
	mustStatus(t, page, http.StatusOK)
	body := page.Body.String()
	for _, s := range []string{"The Musical Hop", "Venue The Musical Hop was successfully listed!", "Jazz, Reggae", "Currently seeking talent"} {
		if !strings.Contains(body, s) {
			t.Errorf("detail page lacks %q", s)
		}
	}

	evs := a.events.Events()
	if len(evs) != 1 || evs[0].Kind != queue.KindVenue || evs[0].Action != queue.ActionCreated || evs[0].ID != 1 {
		t.Errorf("events = %+v", evs)
	}
}

func TestCreateVenueValidationFailure(t *testing.T) {
	a := newApp(t, false)
	form := venueForm("")
	form.Set("state", "ZZ")

	rec := a.do(t, http.MethodPost, "/venues/create", form, nil)
	mustStatus(t, rec, http.StatusUnprocessableEntity)
	body := rec.Body.String()
	for _, s := range []string{"This field is required.", "Not a valid choice.", "could not be listed", "1015 Folsom Street"} {
		if !strings.Contains(body, s) {
			t.Errorf("form page lacks %q", s)
		}
	}
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM venues").Scan(&n); err != nil || n != 0 {
		t.Fatalf("nothing should be stored: n=%d err=%v", n, err)
	}
	if len(a.events.Events()) != 0 {
		t.Errorf("no event expected")
	}
}

func TestDeleteVenue(t *testing.T) {
	type When struct {
		Method string
		Path   func(id string) string
	}

	theory := func(when When) func(t *testing.T) {
		return func(t *testing.T) {
			a := newApp(t, false)
			mustStatus(t, a.do(t, http.MethodPost, "/venues/create", venueForm("The Musical Hop"), nil), http.StatusSeeOther)
			mustStatus(t, a.do(t, http.MethodPost, "/artists/create", artistForm("Guns N Petals"), nil), http.StatusSeeOther)
			mustStatus(t, a.do(t, http.MethodPost, "/shows/create", url.Values{
				"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2035-04-01 20:00:00"},
			}, nil), http.StatusSeeOther)

			rec := a.do(t, when.Method, when.Path("1"), url.Values{}, nil)
			mustStatus(t, rec, http.StatusSeeOther)
			if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
				t.Fatalf("location = %q", loc)
			}
			home := a.do(t, http.MethodGet, "/", nil, cookiesOf(rec))
			mustStatus(t, home, http.StatusOK)
			if !strings.Contains(home.Body.String(), "Venue The Musical Hop was successfully deleted along with 1 show.") {
				t.Errorf("home page lacks the delete flash:\n%s", home.Body.String())
			}
			mustStatus(t, a.do(t, http.MethodGet, "/venues/1", nil, nil), http.StatusNotFound)

			var shows int
			if err := a.db.QueryRow("SELECT COUNT(*) FROM shows").Scan(&shows); err != nil || shows != 0 {
				t.Fatalf("shows should be gone: n=%d err=%v", shows, err)
			}
		}
	}

	t.Run("DELETE verb", theory(When{Method: http.MethodDelete, Path: func(id string) string { return "/venues/" + id }}))
	t.Run("HTML form post", theory(When{Method: http.MethodPost, Path: func(id string) string { return "/venues/" + id + "/delete" }}))
}

func TestDeleteNonexistentVenueIsNotFound(t *testing.T) {
	a := newApp(t, false)

	rec := a.do(t, http.MethodDelete, "/venues/42", nil, nil)
	mustStatus(t, rec, http.StatusNotFound)
	if !strings.Contains(rec.Body.String(), "Venue not found.") {
		t.Errorf("404 page lacks message:\n%s", rec.Body.String())
	}

	home := a.do(t, http.MethodGet, "/", nil, cookiesOf(rec))
	if strings.Contains(home.Body.String(), "successfully deleted") {
		t.Fatalf("no success flash expected:\n%s", home.Body.String())
	}
	if len(a.events.Events()) != 0 {
		t.Errorf("no event expected")
	}
}

func TestDeleteArtist(t *testing.T) {
	a := newApp(t, false)
	mustStatus(t, a.do(t, http.MethodPost, "/artists/create", artistForm("Guns N Petals"), nil), http.StatusSeeOther)

	rec := a.do(t, http.MethodPost, "/artists/1/delete", url.Values{}, nil)
	mustStatus(t, rec, http.StatusSeeOther)
	home := a.do(t, http.MethodGet, "/", nil, cookiesOf(rec))
	if !strings.Contains(home.Body.String(), "Artist Guns N Petals was successfully deleted.") {
		t.Errorf("home page lacks the delete flash:\n%s", home.Body.String())
	}
	mustStatus(t, a.do(t, http.MethodDelete, "/artists/1", nil, nil), http.StatusNotFound)
}

func TestNotFoundPages(t *testing.T) {
	a := newApp(t, false)
	for _, p := range []string{"/venues/7", "/artists/7", "/venues/abc", "/venues/7/edit", "/artists/7/edit", "/no-such-page"} {
		rec := a.do(t, http.MethodGet, p, nil, nil)
		if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "404") {
			t.Errorf("%s: status %d", p, rec.Code)
		}
	}
	rec := a.do(t, http.MethodPost, "/artists/7/edit", artistForm("Nobody"), nil)
	mustStatus(t, rec, http.StatusNotFound)
}

func TestEditArtistOnlyTouchesArtist(t *testing.T) {
	a := newApp(t, false)
	mustStatus(t, a.do(t, http.MethodPost, "/venues/create", venueForm("The Musical Hop"), nil), http.StatusSeeOther)
	mustStatus(t, a.do(t, http.MethodPost, "/artists/create", artistForm("Guns N Petals"), nil), http.StatusSeeOther)

	ctx := context.Background()
	before, err := repository.NewVenueRepo(a.db).GetByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}

	edit := a.do(t, http.MethodGet, "/artists/1/edit", nil, nil)
	mustStatus(t, edit, http.StatusOK)
	if !strings.Contains(edit.Body.String(), `value="Guns N Petals"`) {
		t.Errorf("edit form not pre-filled:\n%s", edit.Body.String())
	}

	form := artistForm("Guns N Roses")
	form.Set("seeking_venue", "y")
	rec := a.do(t, http.MethodPost, "/artists/1/edit", form, nil)
	mustStatus(t, rec, http.StatusSeeOther)
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/artists/1" {
		t.Fatalf("location = %q", loc)
	}

	artist, err := repository.NewArtistRepo(a.db).GetByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if artist.Name != "Guns N Roses" || !artist.SeekingVenue {
		t.Errorf("artist not updated: %+v", artist)
	}
	after, err := repository.NewVenueRepo(a.db).GetByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("venue changed (-before +after):\n%s", diff)
	}
}

func TestEditVenue(t *testing.T) {
	a := newApp(t, false)
	mustStatus(t, a.do(t, http.MethodPost, "/venues/create", venueForm("The Musical Hop"), nil), http.StatusSeeOther)

	form := venueForm("The Musical Hop")
	form.Del("seeking_talent")
	form["genres"] = []string{"Blues"}
	rec := a.do(t, http.MethodPost, "/venues/1/edit", form, nil)
	mustStatus(t, rec, http.StatusSeeOther)

	v, err := repository.NewVenueRepo(a.db).GetByID(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if v.SeekingTalent || !cmp.Equal(v.Genres, []string{"Blues"}) {
		t.Errorf("venue not updated: %+v", v)
	}

	bad := venueForm("The Musical Hop")
	bad.Set("website_link", "nope")
	rec = a.do(t, http.MethodPost, "/venues/1/edit", bad, nil)
	mustStatus(t, rec, http.StatusUnprocessableEntity)
	if !strings.Contains(rec.Body.String(), "Invalid URL.") {
		t.Errorf("missing field error:\n%s", rec.Body.String())
	}
}

func TestCreateShowRejectsMissingReferences(t *testing.T) {
	a := newApp(t, false)
	mustStatus(t, a.do(t, http.MethodPost, "/venues/create", venueForm("The Musical Hop"), nil), http.StatusSeeOther)
	mustStatus(t, a.do(t, http.MethodPost, "/artists/create", artistForm("Guns N Petals"), nil), http.StatusSeeOther)

	type When struct {
		ArtistID, VenueID string
	}
	type Then struct {
		Message string
	}
	theory := func(when When, then Then) func(t *testing.T) {
		return func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/shows/create", url.Values{
				"artist_id":  {when.ArtistID},
				"venue_id":   {when.VenueID},
				"start_time": {"2035-04-01 20:00:00"},
			}, nil)
			mustStatus(t, rec, http.StatusUnprocessableEntity)
			if !strings.Contains(rec.Body.String(), then.Message) {
				t.Errorf("form lacks %q:\n%s", then.Message, rec.Body.String())
			}
			var n int
			if err := a.db.QueryRow("SELECT COUNT(*) FROM shows").Scan(&n); err != nil || n != 0 {
				t.Fatalf("nothing should be stored: n=%d err=%v", n, err)
			}
		}
	}

	t.Run("unknown artist", theory(When{ArtistID: "99", VenueID: "1"}, Then{Message: "No artist with this id."}))
	t.Run("unknown venue", theory(When{ArtistID: "1", VenueID: "99"}, Then{Message: "No venue with this id."}))
	t.Run("not an id", theory(When{ArtistID: "x", VenueID: "1"}, Then{Message: "Must be a positive whole number."}))
}

func TestShowsListingAndUpcomingCounts(t *testing.T) {
	a := newApp(t, false)
	mustStatus(t, a.do(t, http.MethodPost, "/venues/create", venueForm("The Musical Hop"), nil), http.StatusSeeOther)
	mustStatus(t, a.do(t, http.MethodPost, "/artists/create", artistForm("Guns N Petals"), nil), http.StatusSeeOther)
	for _, start := range []string{"2030-05-01 20:00:00", "2030-05-01T20:00:01Z", "2019-05-21T21:30:00Z"} {
		rec := a.do(t, http.MethodPost, "/shows/create", url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {start}}, nil)
		mustStatus(t, rec, http.StatusSeeOther)
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/shows" {
			t.Fatalf("location = %q", loc)
		}
	}

	shows := a.do(t, http.MethodGet, "/shows", nil, nil)
	mustStatus(t, shows, http.StatusOK)
	body := shows.Body.String()
	first := strings.Index(body, "Tuesday May 21, 2019 9:30PM")
	last := strings.Index(body, "Wednesday May 1, 2030 8:00PM")
	if first < 0 || last < 0 || first > last {
		t.Errorf("shows not listed in start order:\n%s", body)
	}

	venues := a.do(t, http.MethodGet, "/venues", nil, nil)
	mustStatus(t, venues, http.StatusOK)
	if !strings.Contains(venues.Body.String(), "1 upcoming shows") {
		t.Errorf("venue listing lacks upcoming count:\n%s", venues.Body.String())
	}

	detail := a.do(t, http.MethodGet, "/artists/1", nil, nil)
	mustStatus(t, detail, http.StatusOK)
	if !strings.Contains(detail.Body.String(), "1 Upcoming Show") || !strings.Contains(detail.Body.String(), "2 Past Shows") {
		t.Errorf("artist page counts wrong:\n%s", detail.Body.String())
	}
}

func TestSearchPages(t *testing.T) {
	a := newApp(t, false)
	for _, n := range []string{"The Musical Hop", "The Dueling Pianos Bar", "Park Square Live Music & Coffee"} {
		mustStatus(t, a.do(t, http.MethodPost, "/venues/create", venueForm(n), nil), http.StatusSeeOther)
	}
	mustStatus(t, a.do(t, http.MethodPost, "/artists/create", artistForm("The Wild Sax Band"), nil), http.StatusSeeOther)

	rec := a.do(t, http.MethodPost, "/venues/search", url.Values{"search_term": {"music"}}, nil)
	mustStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `search results for "music": 2</h1>`) {
		t.Errorf("unexpected venue search page:\n%s", rec.Body.String())
	}

	rec = a.do(t, http.MethodPost, "/artists/search", url.Values{"search_term": {"band"}}, nil)
	mustStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), ": 1</h1>") || !strings.Contains(rec.Body.String(), "The Wild Sax Band") {
		t.Errorf("unexpected artist search page:\n%s", rec.Body.String())
	}
}

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func TestCSRF(t *testing.T) {
	a := newApp(t, true)

	page := a.do(t, http.MethodGet, "/venues/create", nil, nil)
	mustStatus(t, page, http.StatusOK)
	m := csrfInput.FindStringSubmatch(page.Body.String())
	if m == nil {
		t.Fatalf("no token in form:\n%s", page.Body.String())
	}
	cookies := cookiesOf(page)

	t.Run("missing token is rejected", func(t *testing.T) {
		rec := a.do(t, http.MethodPost, "/venues/create", venueForm("The Musical Hop"), cookies)
		mustStatus(t, rec, http.StatusForbidden)
	})

	t.Run("token without its session is rejected", func(t *testing.T) {
		form := venueForm("The Musical Hop")
		form.Set("csrf_token", m[1])
		rec := a.do(t, http.MethodPost, "/venues/create", form, nil)
		mustStatus(t, rec, http.StatusForbidden)
	})

	t.Run("token with its session is accepted", func(t *testing.T) {
		form := venueForm("The Musical Hop")
		form.Set("csrf_token", m[1])
		rec := a.do(t, http.MethodPost, "/venues/create", form, cookies)
		mustStatus(t, rec, http.StatusSeeOther)
	})
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]log.Lvl{
		"debug":   log.DEBUG,
		"warning": log.WARN,
		" ERROR ": log.ERROR,
		"off":     log.OFF,
		"":        log.INFO,
		"bogus":   log.INFO,
	} {
		if got := router.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
