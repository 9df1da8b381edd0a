package views

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/greenee/ecarbon/internal/api"
	"github.com/greenee/ecarbon/internal/model"
)

func TestLoadRanking(t *testing.T) {
	t.Parallel()

	t.Run("serverOrderPreserved", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"updatedAt": "2026-08-24",
				"topEmissionPlaces": [
					{"rank":1,"placeName":"Alpha","carbonEmission":9.1,"grade":"F"},
					{"rank":2,"placeName":"Beta","carbonEmission":4.2,"grade":"D"},
					{"rank":3,"placeName":"Gamma","carbonEmission":4.9,"grade":"D"}
				]
			}`))
		}))
		v := LoadRanking(context.Background(), c, "2026-08-24", model.CategoryUniversity)
		if v.Err != "" || v.Empty {
			t.Fatalf("unexpected state %+v", v)
		}
		got := []string{v.Places[0].PlaceName, v.Places[1].PlaceName, v.Places[2].PlaceName}
		want := []string{"Alpha", "Beta", "Gamma"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("row %d: got %q, want %q (server order must not be re-sorted)", i, got[i], want[i])
			}
		}
	})

	t.Run("emptySnapshot", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		v := LoadRanking(context.Background(), c, "", "")
		if !v.Empty || v.Err != "" {
			t.Fatalf("204 must render the empty state, got %+v", v)
		}
	})

	t.Run("serverErrorBecomesBanner", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		v := LoadRanking(context.Background(), c, "", "")
		if v.Err == "" || v.Empty {
			t.Fatalf("failure must carry a message, got %+v", v)
		}
	})
}

func TestSortCountryAveragesDescendingStable(t *testing.T) {
	t.Parallel()
	avgs := []model.CountryCarbonAvg{
		{Country: "KR", AverageCarbon: 1.1},
		{Country: "DE", AverageCarbon: 3.3},
		{Country: "FR", AverageCarbon: 3.3},
		{Country: "US", AverageCarbon: 2.2},
	}
	SortCountryAverages(avgs)
	want := []string{"DE", "FR", "US", "KR"}
	for i, c := range avgs {
		if c.Country != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, c.Country, want[i])
		}
	}
}

func TestLoadStats(t *testing.T) {
	t.Parallel()

	t.Run("bothSidesIndependent", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/global-stats":
				_, _ = w.Write([]byte(`{
					"weekStartDate": "2026-08-24",
					"countryCarbonAvgs": [
						{"country":"KR","averageCarbon":1.0},
						{"country":"DE","averageCarbon":2.0}
					],
					"emissionMapMarkers": [
						{"placeName":"ok","latitude":37.5,"longitude":127.0},
						{"placeName":"junk","latitude":999,"longitude":0}
					]
				}`))
			case "/api/carbon-savings":
				w.WriteHeader(http.StatusInternalServerError)
			}
		}))
		v := LoadStats(context.Background(), c, "2026-08-24", model.CategoryPublicInstitution)
		if v.Stats == nil || v.StatsErr != "" {
			t.Fatalf("stats side must survive the savings failure: %+v", v)
		}
		if v.Savings != nil || v.SavingsErr == "" {
			t.Fatalf("savings failure must be its own message: %+v", v)
		}
		if v.Stats.CountryCarbonAvgs[0].Country != "DE" {
			t.Fatalf("country averages not re-sorted descending: %+v", v.Stats.CountryCarbonAvgs)
		}
		markers := v.Markers()
		if len(markers) != 1 || markers[0].PlaceName != "ok" {
			t.Fatalf("out-of-bounds marker not filtered: %+v", markers)
		}
	})

	t.Run("emptySnapshotsAreNotErrors", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		v := LoadStats(context.Background(), c, "", "")
		if v.Stats != nil || v.Savings != nil || v.StatsErr != "" || v.SavingsErr != "" {
			t.Fatalf("204 on both fetches must render empty without banners: %+v", v)
		}
		if v.Markers() != nil {
			t.Fatal("no stats means no markers")
		}
	})

	t.Run("weeklySeriesSortedAscending", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/global-stats":
				w.WriteHeader(http.StatusNoContent)
			case "/api/carbon-savings":
				_, _ = w.Write([]byte(`{
					"url": "https://example.com",
					"totalSavingsInGrams": 12.5,
					"weeklySavingsGraph": [
						{"weekStartDate":"2026-08-24","savingsInGrams":3},
						{"weekStartDate":"2026-08-10","savingsInGrams":1},
						{"weekStartDate":"2026-08-17","savingsInGrams":2}
					]
				}`))
			}
		}))
		v := LoadStats(context.Background(), c, "", "")
		if v.Savings == nil {
			t.Fatalf("savings missing: %+v", v)
		}
		want := []string{"2026-08-10", "2026-08-17", "2026-08-24"}
		for i, p := range v.Savings.WeeklySavingsGraph {
			if p.WeekStartDate != want[i] {
				t.Fatalf("position %d: got %s, want %s", i, p.WeekStartDate, want[i])
			}
		}
	})
}

func TestLoadUserPage(t *testing.T) {
	t.Parallel()

	t.Run("historyDerivedAndSorted", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"reduction_bytes_graph": [
					{"date":"2026-08-02","reductionByte":2097152},
					{"date":"2026-08-01","reductionByte":1048576}
				],
				"reduction_count_graph": [
					{"date":"2026-08-02","count":2},
					{"date":"2026-08-01","count":1}
				],
				"total_reduction_bytes": 3145728,
				"total_reduction_count": 3
			}`))
		}))
		v := LoadUserPage(context.Background(), c)
		if v.AuthRequired || v.Err != "" {
			t.Fatalf("unexpected state %+v", v)
		}
		if v.TotalBytes != 3145728 || v.TotalCount != 3 {
			t.Fatalf("totals wrong: %+v", v)
		}
		if v.TotalGrams != 3 {
			t.Fatalf("3 MiB must convert to 3 g, got %v", v.TotalGrams)
		}
		if v.BytesSeries[0].Date != "2026-08-01" || v.CountSeries[0].Date != "2026-08-01" {
			t.Fatalf("series must be date-ascending: %+v", v)
		}
		if v.BytesSeries[0].ReductionGrams != 1 || v.BytesSeries[1].ReductionGrams != 2 {
			t.Fatalf("per-point gram derivation wrong: %+v", v.BytesSeries)
		}
	})

	t.Run("redirectMeansLogin", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/", http.StatusFound)
		}))
		v := LoadUserPage(context.Background(), c)
		if !v.AuthRequired || v.Err != "" {
			t.Fatalf("302 must mean auth required, got %+v", v)
		}
	})
}

func TestProbeSession(t *testing.T) {
	t.Parallel()

	t.Run("loggedIn", func(t *testing.T) {
		t.Parallel()
		c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":7,"username":"greta","email":"greta@example.com"}`))
		}))
		s := ProbeSession(context.Background(), c)
		if s.State != SessionLoggedIn || s.User == nil || s.User.Username != "greta" {
			t.Fatalf("unexpected session %+v", s)
		}
	})

	t.Run("failuresDegradeToAnonymous", func(t *testing.T) {
		t.Parallel()
		for name, status := range map[string]int{
			"unauthorized": http.StatusUnauthorized,
			"redirect":     http.StatusFound,
			"serverError":  http.StatusInternalServerError,
		} {
			status := status
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				c, _ := measureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if status == http.StatusFound {
						http.Redirect(w, r, "/", status)
						return
					}
					w.WriteHeader(status)
				}))
				if s := ProbeSession(context.Background(), c); s.State != SessionAnonymous {
					t.Fatalf("%s must degrade to anonymous, got %+v", name, s)
				}
			})
		}
	})

	t.Run("unreachableBackend", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c, err := api.New(api.Config{BaseURL: srv.URL})
		if err != nil {
			t.Fatalf("api.New: %v", err)
		}
		if s := ProbeSession(context.Background(), c); s.State != SessionAnonymous {
			t.Fatalf("connection failure must degrade to anonymous, got %+v", s)
		}
	})
}
