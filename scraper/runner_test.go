package scraper

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"turbomaster-scraper/fetcher"
	"turbomaster-scraper/models"
	"turbomaster-scraper/parser"
)

func TestRun_EmptyBrandList(t *testing.T) {
	out := &recordingWriter{}
	runner := NewRunner(newTestAggregator(&fakeFetcher{}), out, discardLogger())

	summary, err := runner.Run(nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Written {
		t.Error("Summary.Written = true, want false")
	}
	if len(out.tables) != 0 {
		t.Errorf("writer called %d times, want 0", len(out.tables))
	}
}

func TestRun_NoDataFromAnyBrand(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		garrettURL: landingPage(),
	}}
	out := &recordingWriter{}

	summary, err := NewRunner(newTestAggregator(f), out, discardLogger()).Run([]string{garrettURL})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Written || len(out.tables) != 0 {
		t.Errorf("summary = %+v, writes = %d, want nothing written", summary, len(out.tables))
	}
	if summary.Brands != 1 {
		t.Errorf("Summary.Brands = %d, want 1", summary.Brands)
	}
}

func TestRun_ConcatenatesInBrandOrder(t *testing.T) {
	holsetURL := origin + "/eng/catalogs/holset/"
	f := &fakeFetcher{pages: map[string]string{
		garrettURL:           landingPage("/eng/catalogs/garrett/gt15/"),
		garrettURL + "gt15/": tablePage([]string{"Part", "Model"}, [][]string{{"g1", "gm"}}, ""),
		holsetURL:            landingPage("/eng/catalogs/holset/hx35/"),
		holsetURL + "hx35/":  tablePage([]string{"Part", "Engine"}, [][]string{{"h1", "he"}}, ""),
	}}
	out := &recordingWriter{}
	mirror := &recordingWriter{}

	summary, err := NewRunner(newTestAggregator(f), out, discardLogger(), mirror).Run([]string{garrettURL, holsetURL})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !summary.Written || summary.Rows != 4 || summary.Brands != 2 {
		t.Errorf("summary = %+v", summary)
	}
	if len(out.tables) != 1 {
		t.Fatalf("writer called %d times, want 1", len(out.tables))
	}

	want := models.Table{
		Headers: []string{"Part", "Model", "Engine"},
		Rows: []models.Row{
			{"Garrett", "", ""}, {"g1", "gm", ""},
			{"Holset", "", ""}, {"h1", "", "he"},
		},
	}
	if !reflect.DeepEqual(out.tables[0], want) {
		t.Errorf("written = %#v, want %#v", out.tables[0], want)
	}
	if len(mirror.tables) != 1 || !reflect.DeepEqual(mirror.tables[0], want) {
		t.Errorf("mirror got %d tables, want the same dataset once", len(mirror.tables))
	}
}

func TestRun_FetchFailureWritesNothing(t *testing.T) {
	holsetURL := origin + "/eng/catalogs/holset/"
	f := &fakeFetcher{pages: map[string]string{
		garrettURL:           landingPage("/eng/catalogs/garrett/gt15/"),
		garrettURL + "gt15/": tablePage(headersAB, [][]string{{"1", "2"}}, ""),
	}}
	out := &recordingWriter{}

	_, err := NewRunner(newTestAggregator(f), out, discardLogger()).Run([]string{garrettURL, holsetURL})
	if !errors.Is(err, fetcher.ErrBadStatus) {
		t.Fatalf("Run() error = %v, want ErrBadStatus", err)
	}
	if len(out.tables) != 0 {
		t.Errorf("writer called %d times after a fetch failure, want 0", len(out.tables))
	}
}

func TestRun_WriterErrors(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		garrettURL:           landingPage("/eng/catalogs/garrett/gt15/"),
		garrettURL + "gt15/": tablePage(headersAB, [][]string{{"1", "2"}}, ""),
	}}
	diskFull := errors.New("disk full")

	t.Run("output failure fails the run", func(t *testing.T) {
		out := &recordingWriter{err: diskFull}
		summary, err := NewRunner(newTestAggregator(f), out, discardLogger()).Run([]string{garrettURL})
		if !errors.Is(err, diskFull) {
			t.Errorf("Run() error = %v, want %v", err, diskFull)
		}
		if summary.Written {
			t.Error("Summary.Written = true after output failure")
		}
	})

	t.Run("mirror failure is tolerated", func(t *testing.T) {
		mirror := &recordingWriter{err: diskFull}
		summary, err := NewRunner(newTestAggregator(f), &recordingWriter{}, discardLogger(), mirror).Run([]string{garrettURL})
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
		if !summary.Written {
			t.Error("Summary.Written = false, want true")
		}
	})
}

func TestRun_OverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/eng/catalogs/garrett/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(landingPage("/eng/series/gt15/", "/eng/series/gt17/")))
	})
	mux.HandleFunc("/eng/series/gt15/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.Write([]byte(tablePage(headersAB, [][]string{{"3", "4"}}, nextControl("?page=3", true))))
			return
		}
		w.Write([]byte(tablePage(headersAB, [][]string{{"1", "2"}}, nextControl("?page=2", false))))
	})
	mux.HandleFunc("/eng/series/gt17/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tablePage(headersAB, [][]string{{"5", "6"}}, "")))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := fetcher.NewCollyFetcher("test-agent", 0, discardLogger())
	p := parser.NewParser()
	agg := NewAggregator(f, p, NewWalker(f, p, 10, discardLogger()), "", discardLogger())
	out := &recordingWriter{}

	summary, err := NewRunner(agg, out, discardLogger()).Run([]string{srv.URL + "/eng/catalogs/garrett/"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !summary.Written {
		t.Fatal("nothing written")
	}

	wantRows := []models.Row{
		{"Garrett", ""}, {"1", "2"}, {"3", "4"},
		{"Garrett", ""}, {"5", "6"},
	}
	if !reflect.DeepEqual(out.tables[0].Rows, wantRows) {
		t.Errorf("rows = %#v, want %#v", out.tables[0].Rows, wantRows)
	}
}
