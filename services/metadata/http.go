package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"reelhouse/models"
)

// statusError reports an unexpected HTTP status from an upstream provider.
type statusError struct {
	provider string
	code     int
	body     string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.provider, e.code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.provider, e.code, e.body)
}

// Is lets callers match upstream 404s against models.ErrNotFound.
func (e *statusError) Is(target error) bool {
	return target == models.ErrNotFound && e.code == http.StatusNotFound
}

// getJSON issues a GET against base+path with the given query and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, provider, base, path string, query url.Values, out any) error {
	endpoint := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{provider: provider, code: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}

// IsUpstreamError reports whether err came from a provider rather than from the caller's input.
func IsUpstreamError(err error) bool {
	var se *statusError
	return errors.As(err, &se) && !errors.Is(err, models.ErrNotFound)
}
