package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tunedock/tunedock/internal/shared"
)

// newTestCatalog wires a CatalogClient against a stub accounts + API server.
func newTestCatalog(t *testing.T, handler http.Handler) (*CatalogClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewCatalogClient(CatalogOpts{
		ClientID:     "test_client",
		ClientSecret: "test_secret",
		TokenURL:     server.URL + "/api/token",
		AuthURL:      server.URL + "/authorize",
		BaseURL:      server.URL + "/v1",
		HTTPClient:   server.Client(),
		RateLimit:    1000,
	})
	if err != nil {
		t.Fatalf("failed to create catalog client: %v", err)
	}

	return client, server
}

func tokenResponse(w http.ResponseWriter, token string, expiresIn int) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"access_token":%q,"token_type":"Bearer","expires_in":%d}`, token, expiresIn)
}

func TestCatalogClient_MissingCredentials(t *testing.T) {
	_, err := NewCatalogClient(CatalogOpts{})
	if !errors.Is(err, shared.ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestCatalogClient_TokenCaching(t *testing.T) {
	tokenCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("expected grant_type client_credentials, got %s", got)
		}
		tokenCalls++
		tokenResponse(w, fmt.Sprintf("token-%d", tokenCalls), 3600)
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("expected Bearer token-1, got %s", got)
		}
		fmt.Fprint(w, `{"tracks":{"items":[]},"albums":{"items":[]},"artists":{"items":[]}}`)
	})

	client, _ := newTestCatalog(t, mux)
	ctx := context.Background()

	for range 3 {
		if _, err := client.Search(ctx, "anything", nil); err != nil {
			t.Fatalf("search failed: %v", err)
		}
	}

	if tokenCalls != 1 {
		t.Errorf("expected a single token request for repeated searches, got %d", tokenCalls)
	}
}

func TestCatalogClient_TokenRefreshOnExpiry(t *testing.T) {
	tokenCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		// expires_in below the safety margin, so the cached token is
		// already considered expired on the next request.
		tokenResponse(w, fmt.Sprintf("token-%d", tokenCalls), 30)
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tracks":{"items":[]},"albums":{"items":[]},"artists":{"items":[]}}`)
	})

	client, _ := newTestCatalog(t, mux)
	ctx := context.Background()

	for range 2 {
		if _, err := client.Search(ctx, "anything", nil); err != nil {
			t.Fatalf("search failed: %v", err)
		}
	}

	if tokenCalls != 2 {
		t.Errorf("expected a token request per search once expired, got %d", tokenCalls)
	}
}

func TestCatalogClient_Search(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenResponse(w, "tok", 3600)
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "daft punk" {
			t.Errorf("expected query 'daft punk', got %q", got)
		}
		fmt.Fprint(w, `{
			"tracks":{"items":[{"id":"t1","name":"One More Time","artists":[{"id":"a1","name":"Daft Punk"}],"album":{"id":"al1","name":"Discovery"}}]},
			"albums":{"items":[{"id":"al1","name":"Discovery"}]},
			"artists":{"items":[{"id":"a1","name":"Daft Punk"}]}
		}`)
	})

	client, _ := newTestCatalog(t, mux)

	results, err := client.Search(context.Background(), "daft punk", []string{"track", "album", "artist"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(results.Tracks) != 1 || results.Tracks[0].Name != "One More Time" {
		t.Errorf("unexpected tracks: %+v", results.Tracks)
	}
	if results.Tracks[0].PrimaryArtist() != "Daft Punk" {
		t.Errorf("unexpected primary artist: %s", results.Tracks[0].PrimaryArtist())
	}
	if len(results.Albums) != 1 || len(results.Artists) != 1 {
		t.Errorf("unexpected albums/artists: %+v / %+v", results.Albums, results.Artists)
	}
}

func TestCatalogClient_SearchEmptyQuery(t *testing.T) {
	client, _ := newTestCatalog(t, http.NewServeMux())

	if _, err := client.Search(context.Background(), "   ", nil); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCatalogClient_AlbumTracks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenResponse(w, "tok", 3600)
	})
	mux.HandleFunc("/v1/albums/al1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"al1","name":"Discovery","images":[{"url":"https://img/cover.jpg"}]}`)
	})
	mux.HandleFunc("/v1/albums/al1/tracks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[
			{"id":"t1","name":"One More Time","artists":[{"id":"a1","name":"Daft Punk"}]},
			{"id":"t2","name":"Aerodynamic","artists":[{"id":"a1","name":"Daft Punk"}]}
		]}`)
	})

	client, _ := newTestCatalog(t, mux)

	tracks, err := client.AlbumTracks(context.Background(), "al1")
	if err != nil {
		t.Fatalf("album tracks failed: %v", err)
	}

	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	for _, track := range tracks {
		if track.Album.Name != "Discovery" {
			t.Errorf("expected album name filled in, got %q", track.Album.Name)
		}
		if track.Album.CoverURL() != "https://img/cover.jpg" {
			t.Errorf("expected album cover filled in, got %q", track.Album.CoverURL())
		}
	}
}

func TestCatalogClient_TrackNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenResponse(w, "tok", 3600)
	})
	mux.HandleFunc("/v1/tracks/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	client, _ := newTestCatalog(t, mux)

	if _, err := client.Track(context.Background(), "missing"); !errors.Is(err, shared.ErrTrackNotFound) {
		t.Errorf("expected ErrTrackNotFound, got %v", err)
	}
}

func TestCatalogClient_CheckCredentials(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
			tokenResponse(w, "tok", 3600)
		})

		client, _ := newTestCatalog(t, mux)
		if !client.CheckCredentials(context.Background()) {
			t.Error("expected credentials check to pass")
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad client", http.StatusBadRequest)
		})

		client, _ := newTestCatalog(t, mux)
		if client.CheckCredentials(context.Background()) {
			t.Error("expected credentials check to fail")
		}
	})
}

func TestCatalogClient_UnauthorizedDropsCachedToken(t *testing.T) {
	tokenCalls := 0
	apiCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		tokenResponse(w, fmt.Sprintf("token-%d", tokenCalls), 3600)
	})
	mux.HandleFunc("/v1/me", func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		if apiCalls == 1 {
			http.Error(w, "expired", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"id":"u1","display_name":"Test User"}`)
	})

	client, _ := newTestCatalog(t, mux)
	ctx := context.Background()

	if _, err := client.Me(ctx); !errors.Is(err, shared.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired on first call, got %v", err)
	}

	user, err := client.Me(ctx)
	if err != nil {
		t.Fatalf("second call should succeed with fresh token: %v", err)
	}
	if user.DisplayName != "Test User" {
		t.Errorf("unexpected user: %+v", user)
	}
	if tokenCalls != 2 {
		t.Errorf("expected 2 token acquisitions, got %d", tokenCalls)
	}
}
