// Catalog API implementation of [Catalog]
//
// Response types follow the catalog's public web API shapes.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/repositories"
	"github.com/tunedock/tunedock/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	defaultAuthURL  = "https://accounts.spotify.com/authorize"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
	defaultBaseURL  = "https://api.spotify.com/v1"

	// Tokens are considered expired this long before their advertised
	// expiry so an in-flight request never carries a token that lapses
	// mid-request.
	tokenSafetyMargin = 60 * time.Second
)

// CatalogOpts contains configuration for creating a CatalogClient.
type CatalogOpts struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Prefs        *repositories.Prefs
	HTTPClient   *http.Client
	AuthURL      string // Defaults to the public accounts endpoint
	TokenURL     string // Defaults to the public accounts endpoint
	BaseURL      string // Defaults to the public API endpoint
	RateLimit    float64
}

// CatalogClient implements [Catalog] against the remote catalog's web API.
//
// Token handling follows a lazy read-through cache: the current access token
// and its expiry are owned values, refreshed on the next request after the
// expiry passes. With a stored refresh token the client operates at user
// level; otherwise it falls back to the client-credentials grant.
type CatalogClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authURL      string
	tokenURL     string
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	prefs        *repositories.Prefs

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
	userLevel   bool
}

// NewCatalogClient creates a CatalogClient with the given options.
func NewCatalogClient(opts CatalogOpts) (*CatalogClient, error) {
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, shared.ErrMissingCredentials
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.AuthURL == "" {
		opts.AuthURL = defaultAuthURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = defaultTokenURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.RedirectURI == "" {
		opts.RedirectURI = "http://127.0.0.1:3000/callback"
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	return &CatalogClient{
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		redirectURI:  opts.RedirectURI,
		authURL:      opts.AuthURL,
		tokenURL:     opts.TokenURL,
		baseURL:      opts.BaseURL,
		httpClient:   opts.HTTPClient,
		limiter:      rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		prefs:        opts.Prefs,
	}, nil
}

func (c *CatalogClient) Name() string {
	return "Catalog"
}

// oauthConfig builds the [oauth2.Config] used for the user-level flows.
func (c *CatalogClient) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		RedirectURL:  c.redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"playlist-read-private",
			"user-top-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authURL,
			TokenURL: c.tokenURL,
		},
	}
}

// AuthCodeURL starts the PKCE authorization flow: it generates and stores a
// single-use code verifier and returns the browser URL carrying the S256
// challenge.
func (c *CatalogClient) AuthCodeURL(state string) (string, error) {
	verifier := oauth2.GenerateVerifier()
	if c.prefs != nil {
		if err := c.prefs.Set(repositories.KeyCatalogVerifier, verifier); err != nil {
			return "", fmt.Errorf("failed to store code verifier: %w", err)
		}
	}
	return c.oauthConfig().AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// Exchange completes the PKCE flow: it exchanges the authorization code using
// the stored verifier, persists the refresh token and caches the access token.
// The verifier is deleted after one use.
func (c *CatalogClient) Exchange(ctx context.Context, code string) error {
	if c.prefs == nil {
		return fmt.Errorf("%w: no durable store for PKCE verifier", shared.ErrInvalidConfig)
	}

	verifier, err := c.prefs.Get(repositories.KeyCatalogVerifier)
	if err != nil {
		return fmt.Errorf("%w: missing PKCE verifier", shared.ErrAuthFailed)
	}
	defer c.prefs.Delete(repositories.KeyCatalogVerifier)

	token, err := c.oauthConfig().Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if token.RefreshToken != "" {
		if err := c.prefs.Set(repositories.KeyCatalogRefreshTok, token.RefreshToken); err != nil {
			return fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	c.mu.Lock()
	c.accessToken = token.AccessToken
	c.tokenExpiry = token.Expiry.Add(-tokenSafetyMargin)
	c.userLevel = true
	c.mu.Unlock()

	return nil
}

// Logout discards the cached access token and the stored refresh token.
func (c *CatalogClient) Logout() error {
	c.mu.Lock()
	c.accessToken = ""
	c.tokenExpiry = time.Time{}
	c.userLevel = false
	c.mu.Unlock()

	if c.prefs != nil {
		return c.prefs.Delete(repositories.KeyCatalogRefreshTok)
	}
	return nil
}

// Authenticated reports whether a user-level session exists (cached token or
// stored refresh token).
func (c *CatalogClient) Authenticated() bool {
	c.mu.Lock()
	user := c.userLevel
	c.mu.Unlock()
	if user {
		return true
	}
	if c.prefs == nil {
		return false
	}
	_, err := c.prefs.Get(repositories.KeyCatalogRefreshTok)
	return err == nil
}

// CheckCredentials verifies that an app-level token can be acquired.
func (c *CatalogClient) CheckCredentials(ctx context.Context) bool {
	_, err := c.token(ctx)
	return err == nil
}

// token returns a valid bearer token, refreshing lazily once the cached one
// passes its expiry.
func (c *CatalogClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	// Prefer the user-level session when a refresh token is stored.
	if c.prefs != nil {
		if refresh, err := c.prefs.Get(repositories.KeyCatalogRefreshTok); err == nil {
			token, err := c.refreshToken(ctx, refresh)
			if err == nil {
				return token, nil
			}
			// A dead refresh token downgrades to app level rather than
			// failing every subsequent call.
			c.prefs.Delete(repositories.KeyCatalogRefreshTok)
		}
	}

	token, err := c.clientCredentialsToken(ctx)
	if err != nil {
		return "", err
	}
	return token, nil
}

// refreshToken exchanges a refresh token for a new access token.
// Caller must hold c.mu.
func (c *CatalogClient) refreshToken(ctx context.Context, refresh string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	src := c.oauthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: refresh})
	token, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if c.prefs != nil && token.RefreshToken != "" && token.RefreshToken != refresh {
		c.prefs.Set(repositories.KeyCatalogRefreshTok, token.RefreshToken)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = token.Expiry.Add(-tokenSafetyMargin)
	c.userLevel = true
	return c.accessToken, nil
}

// clientCredentialsToken acquires an app-level token.
// Caller must hold c.mu.
func (c *CatalogClient) clientCredentialsToken(ctx context.Context) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	conf := &clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.tokenURL,
	}

	token, err := conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = token.Expiry.Add(-tokenSafetyMargin)
	c.userLevel = false
	return c.accessToken, nil
}

// doRequest performs a rate-limited, bearer-authenticated GET against the catalog API.
func (c *CatalogClient) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Expired or revoked token; drop the cache so the next call
		// acquires a fresh one.
		c.mu.Lock()
		c.accessToken = ""
		c.mu.Unlock()
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

type pagedTracks struct {
	Items []models.Track `json:"items"`
}

type pagedAlbums struct {
	Items []models.Album `json:"items"`
}

type pagedArtists struct {
	Items []models.Artist `json:"items"`
}

type pagedPlaylists struct {
	Items []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Public      bool   `json:"public"`
		Tracks      struct {
			Total int `json:"total"`
		} `json:"tracks"`
	} `json:"items"`
}

// Search queries the catalog for the given types (any of "track", "album", "artist").
func (c *CatalogClient) Search(ctx context.Context, query string, types []string) (*SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty search query", shared.ErrInvalidInput)
	}
	if len(types) == 0 {
		types = []string{"album", "artist", "track"}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", strings.Join(types, ","))
	params.Set("limit", "10")

	var response struct {
		Tracks  pagedTracks  `json:"tracks"`
		Albums  pagedAlbums  `json:"albums"`
		Artists pagedArtists `json:"artists"`
	}

	if err := c.doRequest(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	return &SearchResults{
		Tracks:  response.Tracks.Items,
		Albums:  response.Albums.Items,
		Artists: response.Artists.Items,
	}, nil
}

// Album retrieves album metadata by catalog id.
func (c *CatalogClient) Album(ctx context.Context, albumID string) (*models.Album, error) {
	var album models.Album
	endpoint := fmt.Sprintf("/albums/%s", url.PathEscape(albumID))
	if err := c.doRequest(ctx, endpoint, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// AlbumTracks retrieves the track listing of an album.
//
// The listing endpoint returns simplified tracks without album metadata, so
// the parent album's name is filled in from a second lookup.
func (c *CatalogClient) AlbumTracks(ctx context.Context, albumID string) ([]models.Track, error) {
	album, err := c.Album(ctx, albumID)
	if err != nil {
		return nil, err
	}

	var response pagedTracks
	endpoint := fmt.Sprintf("/albums/%s/tracks?limit=50", url.PathEscape(albumID))
	if err := c.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	tracks := response.Items
	for i := range tracks {
		tracks[i].Album = *album
	}
	return tracks, nil
}

// Track retrieves a single track by catalog id.
func (c *CatalogClient) Track(ctx context.Context, trackID string) (*models.Track, error) {
	var track models.Track
	endpoint := fmt.Sprintf("/tracks/%s", url.PathEscape(trackID))
	if err := c.doRequest(ctx, endpoint, &track); err != nil {
		if errors.Is(err, shared.ErrAPIRequest) {
			return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
		}
		return nil, err
	}
	return &track, nil
}

// Me retrieves the authenticated user's profile.
func (c *CatalogClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists retrieves the authenticated user's playlists.
func (c *CatalogClient) UserPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var response pagedPlaylists
	if err := c.doRequest(ctx, "/me/playlists?limit=50", &response); err != nil {
		return nil, err
	}

	playlists := make([]models.Playlist, 0, len(response.Items))
	for _, item := range response.Items {
		playlists = append(playlists, models.Playlist{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			TrackCount:  item.Tracks.Total,
			Public:      item.Public,
		})
	}
	return playlists, nil
}

// TopArtists retrieves the authenticated user's top artists.
func (c *CatalogClient) TopArtists(ctx context.Context) ([]models.Artist, error) {
	var response pagedArtists
	if err := c.doRequest(ctx, "/me/top/artists?limit=20", &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}
