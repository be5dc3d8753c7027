package endpoint

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// httpClientFor builds an *http.Client honouring the descriptor's timeout.
func httpClientFor(d Descriptor) *http.Client {
	return &http.Client{Timeout: d.timeout()}
}

// buildRequest assembles a GET request carrying the printed query text
// as the `query` URL parameter, plus any extra descriptor params and
// headers, per spec.md §6's wire protocol.
func buildRequest(ctx context.Context, d Descriptor, queryText, accept string) (*http.Request, error) {
	u, err := url.Parse(d.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("endpoint: invalid base URL %q: %w", d.BaseURL, err)
	}
	q := u.Query()
	q.Set("query", queryText)
	for k, v := range d.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("endpoint: building request: %w", err)
	}
	req.Header.Set("Accept", accept)
	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// dispatchRaw issues the request and returns the response body, honouring
// the descriptor's ErrorPolicy by returning (nil, nil) for a swallowed
// failure under ReturnEmptyResult rather than an error.
func dispatchRaw(ctx context.Context, d Descriptor, queryText, accept string) ([]byte, error) {
	req, err := buildRequest(ctx, d, queryText, accept)
	if err != nil {
		return swallow(d, err)
	}
	resp, err := httpClientFor(d).Do(req)
	if err != nil {
		return swallow(d, fmt.Errorf("endpoint: request to %s failed: %w", d.BaseURL, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return swallow(d, fmt.Errorf("endpoint: reading response from %s: %w", d.BaseURL, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return swallow(d, fmt.Errorf("endpoint: %s returned status %d: %s", d.BaseURL, resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return body, nil
}

func swallow(d Descriptor, err error) ([]byte, error) {
	if d.ErrorPolicy == ReturnEmptyResult {
		return nil, nil
	}
	return nil, err
}
