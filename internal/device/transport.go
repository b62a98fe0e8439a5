// Package device implements the HTTP transport to the embedded player.
//
// The player exposes two endpoints on its WiFi access point: GET /status
// reporting filesystem space, and POST /upload accepting one multipart file
// per request. The device runs a single-threaded HTTP server, so callers must
// not issue concurrent uploads; the transport itself only moves one file and
// reports progress.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tunedock/tunedock/internal/models"
	"github.com/tunedock/tunedock/internal/repositories"
	"github.com/tunedock/tunedock/internal/shared"
)

const (
	// DefaultAddress is the player's WiFi access point address.
	DefaultAddress = "192.168.4.1"

	// DefaultProbeTimeout bounds the connectivity probe.
	DefaultProbeTimeout = 3 * time.Second

	// historyLimit caps the persisted sync history at the most recent entries.
	historyLimit = 10
)

// TransportOpts contains configuration for creating a Transport.
type TransportOpts struct {
	Prefs         *repositories.Prefs
	Logger        *log.Logger
	HTTPClient    *http.Client
	ProbeTimeout  time.Duration
	UploadTimeout time.Duration // 0 disables the per-upload timeout
	Scheme        string        // Defaults to http
}

// Transport moves files to the player and tracks its reachability.
type Transport struct {
	prefs         *repositories.Prefs
	logger        *log.Logger
	httpClient    *http.Client
	probeTimeout  time.Duration
	uploadTimeout time.Duration
	scheme        string

	mu      sync.Mutex
	address string
	status  models.DeviceStatus
}

// NewTransport creates a Transport, restoring the persisted device address
// when one exists.
func NewTransport(opts TransportOpts) *Transport {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.Scheme == "" {
		opts.Scheme = "http"
	}

	t := &Transport{
		prefs:         opts.Prefs,
		logger:        opts.Logger,
		httpClient:    opts.HTTPClient,
		probeTimeout:  opts.ProbeTimeout,
		uploadTimeout: opts.UploadTimeout,
		scheme:        opts.Scheme,
		address:       DefaultAddress,
	}

	if t.prefs != nil {
		if saved, err := t.prefs.Get(repositories.KeyDeviceAddress); err == nil && saved != "" {
			t.address = saved
		}
	}
	t.status = models.DeviceStatus{Connected: false, Address: t.address}

	return t
}

// Address returns the current device address.
func (t *Transport) Address() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.address
}

// SetAddress updates and persists the device address, then probes it.
func (t *Transport) SetAddress(ctx context.Context, addr string) models.DeviceStatus {
	t.mu.Lock()
	t.address = addr
	t.mu.Unlock()

	if t.prefs != nil {
		if err := t.prefs.Set(repositories.KeyDeviceAddress, addr); err != nil {
			t.logger.Error("failed to persist device address", "err", err)
		}
	}

	return t.Probe(ctx)
}

// Status returns the result of the most recent probe.
func (t *Transport) Status() models.DeviceStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

type statusResponse struct {
	FSFree  int64 `json:"fs_free"`
	FSTotal int64 `json:"fs_total"`
}

// Probe issues a bounded-time status request against the device.
//
// It always completes with a DeviceStatus: any failure (timeout, network
// error, non-2xx, malformed body) yields Connected=false, never an error.
func (t *Transport) Probe(ctx context.Context) models.DeviceStatus {
	addr := t.Address()

	ctx, cancel := context.WithTimeout(ctx, t.probeTimeout)
	defer cancel()

	disconnected := models.DeviceStatus{Connected: false, Address: addr}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s://%s/status", t.scheme, addr), nil)
	if err != nil {
		return t.setStatus(disconnected)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Debug("device probe failed", "address", addr, "err", err)
		return t.setStatus(disconnected)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return t.setStatus(disconnected)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.logger.Debug("malformed device status", "address", addr, "err", err)
		return t.setStatus(disconnected)
	}

	return t.setStatus(models.DeviceStatus{
		Connected:  true,
		FreeSpace:  body.FSFree,
		TotalSpace: body.FSTotal,
		Address:    addr,
	})
}

func (t *Transport) setStatus(status models.DeviceStatus) models.DeviceStatus {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
	return status
}

// progressReader reports cumulative read progress as integer percentages.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	lastPct  int
	onChange func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.total > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		// Reads only move forward, so percentages are non-decreasing.
		if pct > p.lastPct {
			p.lastPct = pct
			if p.onChange != nil {
				p.onChange(pct)
			}
		}
	}
	return n, err
}

// Upload transfers one file to the device as a single multipart request under
// the given remote name.
//
// Progress is reported through onProgress as monotonically non-decreasing
// percentages; 100 is emitted only once the device acknowledges the transfer.
// Any failure returns an error without a preceding 100, which callers must
// treat as an incomplete transfer.
func (t *Transport) Upload(ctx context.Context, content io.Reader, remoteName string, onProgress func(pct int)) error {
	addr := t.Address()

	if t.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.uploadTimeout)
		defer cancel()
	}

	// The multipart body is assembled up front. Transfers are single music
	// files sized for an embedded target, and a fully buffered body keeps
	// byte-accurate progress accounting against a known total.
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", remoteName)
	if err != nil {
		return fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	total := int64(body.Len())
	reader := &progressReader{
		r:     &body,
		total: total,
		onChange: func(pct int) {
			// Cap transfer progress below 100 until the device responds.
			if pct > 99 {
				pct = 99
			}
			if onProgress != nil {
				onProgress(pct)
			}
		},
	}

	url := fmt.Sprintf("%s://%s/upload", t.scheme, addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: device returned status %d", shared.ErrUploadFailed, resp.StatusCode)
	}

	if onProgress != nil {
		onProgress(100)
	}
	return nil
}

// RecordHistory prepends a completed-transfer record, truncates the history
// to the most recent entries and persists it.
func (t *Transport) RecordHistory(item models.SyncHistoryItem) {
	if item.ID == "" {
		item.ID = shared.GenerateID()
	}
	if item.SyncedAt.IsZero() {
		item.SyncedAt = time.Now()
	}

	history := t.History()
	history = append([]models.SyncHistoryItem{item}, history...)
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}

	if t.prefs != nil {
		if err := t.prefs.SetJSON(repositories.KeySyncHistory, history); err != nil {
			t.logger.Error("failed to persist sync history", "err", err)
		}
	}
}

// History returns the persisted sync history, most recent first.
// Malformed persisted history is discarded.
func (t *Transport) History() []models.SyncHistoryItem {
	if t.prefs == nil {
		return nil
	}

	var history []models.SyncHistoryItem
	err := t.prefs.GetJSON(repositories.KeySyncHistory, &history)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		t.logger.Warn("discarding malformed sync history", "err", err)
		t.prefs.Delete(repositories.KeySyncHistory)
		return nil
	}
	return history
}
