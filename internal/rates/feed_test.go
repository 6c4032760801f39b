package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTextFeedDaily(t *testing.T) {
	var gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer srv.Close()

	feed := NewTextFeed(srv.URL, time.Second)
	table, err := feed.Daily(context.Background(), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if gotDate != "10.01.2025" {
		t.Errorf("date query = %q, want 10.01.2025", gotDate)
	}
	if rate, ok := table.Lookup("EUR"); !ok || rate != 25.123 {
		t.Errorf("Lookup(EUR) = %v,%v", rate, ok)
	}
}

func TestTextFeedLatestOmitsDateParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("date") {
			t.Error("latest fetch must not carry a date parameter")
		}
		_, _ = w.Write([]byte(sampleDocument))
	}))
	defer srv.Close()

	feed := NewTextFeed(srv.URL, time.Second)
	if _, err := feed.Latest(context.Background()); err != nil {
		t.Fatalf("latest: %v", err)
	}
}

func TestTextFeedErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>maintenance</html>"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			feed := NewTextFeed(srv.URL, time.Second)
			if _, err := feed.Daily(context.Background(), time.Now()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestJSONFeedDaily(t *testing.T) {
	var gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":[
			{"validFor":"2025-01-10","country":"Japonsko","currency":"jen","amount":100,"currencyCode":"JPY","rate":1500.0},
			{"validFor":"2025-01-10","country":"EMU","currency":"euro","amount":1,"currencyCode":"EUR","rate":25.123}
		]}`))
	}))
	defer srv.Close()

	feed := NewJSONFeed(srv.URL, time.Second)
	table, err := feed.Daily(context.Background(), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if gotDate != "2025-01-10" {
		t.Errorf("date query = %q, want ISO format", gotDate)
	}
	if rate, ok := table.Lookup("JPY"); !ok || rate != 15.0 {
		t.Errorf("Lookup(JPY) = %v,%v want 15.0", rate, ok)
	}
	if want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC); !table.Date.Equal(want) {
		t.Errorf("table date = %v, want %v", table.Date, want)
	}
}

func TestJSONFeedRejectsEmptyDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":[]}`))
	}))
	defer srv.Close()

	feed := NewJSONFeed(srv.URL, time.Second)
	if _, err := feed.Daily(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
}
