package imagesearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "pexels-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "margherita pizza" {
			t.Errorf("unexpected query %q", got)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"photos": []map[string]interface{}{
				{
					"photographer": "Ada",
					"src":          map[string]string{"large": "https://img/large.jpg", "medium": "https://img/med.jpg"},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "pexels-key")
	images, err := client.Search(context.Background(), "margherita pizza", 15)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://img/large.jpg" || images[0].ThumbnailURL != "https://img/med.jpg" {
		t.Errorf("unexpected image mapping: %+v", images[0])
	}
}

func TestSearchClientUnconfigured(t *testing.T) {
	client := NewClient("", "")
	if _, err := client.Search(context.Background(), "pizza", 5); err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}
