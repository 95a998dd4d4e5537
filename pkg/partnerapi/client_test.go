package partnerapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookupUserStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    LookupStatus
	}{
		{"found", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"username":"alice","xp":4200,"underCode":true}`))
		}, StatusFound},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, StatusNotFound},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, StatusUnavailable},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}, StatusUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, "key", false)
			result, err := client.LookupUser(context.Background(), "alice")
			if err != nil {
				t.Fatalf("LookupUser: %v", err)
			}
			if result.Status != tt.want {
				t.Fatalf("status = %s, want %s", result.Status, tt.want)
			}
		})
	}
}

func TestLookupUserFoundValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"alice","xp":4200,"underCode":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", false)
	result, err := client.LookupUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LookupUser: %v", err)
	}
	if result.XP != 4200 || !result.UnderCode {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestLookupUserTransportFailureIsUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "key", false)
	result, err := client.LookupUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LookupUser: %v", err)
	}
	if result.Status != StatusUnavailable {
		t.Fatalf("status = %s, want %s", result.Status, StatusUnavailable)
	}
}

func TestMockLookupIsDeterministic(t *testing.T) {
	client := NewClient("", "", true)
	first, _ := client.LookupUser(context.Background(), "alice")
	second, _ := client.LookupUser(context.Background(), "alice")
	if first != second {
		t.Fatalf("mock lookup not deterministic: %+v vs %+v", first, second)
	}
}
