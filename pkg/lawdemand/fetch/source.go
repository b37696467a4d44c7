// Package fetch retrieves the two raw documents over HTTP or from disk.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxDocumentBytes bounds a single raw document.
const maxDocumentBytes = 256 << 20

// Source returns the raw bytes stored at a location.
type Source interface {
	Get(ctx context.Context, location string) ([]byte, error)
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent wraps err so the loader does not retry it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// HTTPSource fetches documents with GET requests.
type HTTPSource struct {
	Client *http.Client
}

// Get fetches location. 5xx responses and transport errors are retryable,
// other non-200 responses are permanent.
func (s HTTPSource) Get(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("GET %s: status %d", location, resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, Permanent(err)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentBytes {
		return nil, Permanent(fmt.Errorf("GET %s: document larger than %d bytes", location, maxDocumentBytes))
	}
	return data, nil
}

func (s HTTPSource) httpClient() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// FileSource reads documents from the local filesystem.
type FileSource struct{}

// Get reads the file at location. A missing file is permanent.
func (FileSource) Get(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(location, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return nil, Permanent(fmt.Errorf("read file %s: %w", path, err))
		}
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return data, nil
}

// AutoSource dispatches http(s) URLs to HTTP and everything else to File.
type AutoSource struct {
	HTTP HTTPSource
	File FileSource
}

// Get implements Source.
func (s AutoSource) Get(ctx context.Context, location string) ([]byte, error) {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s.HTTP.Get(ctx, location)
	}
	return s.File.Get(ctx, location)
}
