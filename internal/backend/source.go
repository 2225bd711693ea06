package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// maxPayload caps how much of a response body is read.
const maxPayload = 8 << 20

// Source produces raw navigation payloads.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// HTTPSource fetches the payload with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) String() string { return s.URL }

func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build nav request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch nav: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayload))
		return nil, fmt.Errorf("fetch nav: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
	if err != nil {
		return nil, fmt.Errorf("read nav response: %w", err)
	}
	return data, nil
}

// FileSource reads the payload from disk.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read nav file: %w", err)
	}
	return data, nil
}
