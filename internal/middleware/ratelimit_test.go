package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/config"
)

func TestBuildRateKey(t *testing.T) {
	type When struct{ Strategy string }
	type Then struct{ Key string }

	theory := func(when When, then Then) func(t *testing.T) {
		return func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/venues/3/edit", nil)
			req.RemoteAddr = "10.0.0.7:51234"
			c := e.NewContext(req, httptest.NewRecorder())
			c.SetPath("/venues/:id/edit")

			cfg := config.RateLimitConfig{Prefix: "fyyur:rl", KeyStrategy: when.Strategy}
			if got := buildRateKey(cfg, c); got != then.Key {
				t.Fatalf("want %q, got %q", then.Key, got)
			}
		}
	}

	t.Run("ip", theory(When{"ip"}, Then{"fyyur:rl:ip:10.0.0.7"}))
	t.Run("route", theory(When{"route"}, Then{"fyyur:rl:route:POST /venues/:id/edit"}))
	t.Run("ip_route", theory(When{"ip_route"}, Then{"fyyur:rl:ip:10.0.0.7:route:POST /venues/:id/edit"}))
	t.Run("unknown falls back to ip_route", theory(When{"user"}, Then{"fyyur:rl:ip:10.0.0.7:route:POST /venues/:id/edit"}))
}

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{Enabled: true, Methods: map[string]bool{http.MethodPost: true}, Capacity: 1}
	called := 0
	h := NewTokenBucket(cfg, nil)(func(c echo.Context) error {
		called++
		return c.NoContent(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if called != 3 {
		t.Fatalf("want 3 calls, got %d", called)
	}
}

func TestAsInt64(t *testing.T) {
	for in, want := range map[any]int64{int64(3): 3, 4: 4, float64(5): 5, "6": 6, "x": 0, nil: 0} {
		if got := asInt64(in); got != want {
			t.Errorf("asInt64(%#v) = %d, want %d", in, got, want)
		}
	}
}
