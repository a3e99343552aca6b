package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/resilience"
)

const maxResourceBytes = 64 << 20

// Source fetches named resources relative to a base location.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	String() string
}

// NewSource picks an HTTP source for http(s) URLs and a directory source
// for anything else, including file:// URLs.
func NewSource(base string, breaker *resilience.CircuitBreaker) (Source, error) {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		if _, err := url.Parse(base); err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidInput, 0, "dataset base URL %q: %v", base, err)
		}
		return NewHTTPSource(base, &http.Client{}, breaker), nil
	}
	return NewFileSource(strings.TrimPrefix(base, "file://")), nil
}

// HTTPSource fetches resources over HTTP GET.
type HTTPSource struct {
	base    string
	client  *http.Client
	breaker *resilience.CircuitBreaker
}

// NewHTTPSource returns a source rooted at base. A nil breaker disables
// circuit breaking.
func NewHTTPSource(base string, client *http.Client, breaker *resilience.CircuitBreaker) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{base: strings.TrimRight(base, "/"), client: client, breaker: breaker}
}

func (s *HTTPSource) String() string { return s.base }

func (s *HTTPSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if s.breaker == nil {
		return s.get(ctx, ref)
	}
	var body []byte
	var fetchErr error
	err := s.breaker.Execute(func() error {
		body, fetchErr = s.get(ctx, ref)
		// Only host-level failures count against the breaker.
		if fetchErr != nil && apperrors.Retryable(fetchErr) {
			return fetchErr
		}
		return nil
	})
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, 0, "GET %s: %v", ref, err)
	}
	return body, nil
}

func (s *HTTPSource) get(ctx context.Context, ref string) ([]byte, error) {
	target := s.base + "/" + strings.TrimLeft(path.Clean("/"+ref), "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, 0, "building request for %s: %v", ref, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, 0, "GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, apperrors.Newf(apperrors.ErrBadStatus, resp.StatusCode, "GET %s: %s", target, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceBytes))
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, resp.StatusCode, "reading %s: %v", target, err)
	}
	return body, nil
}

// FileSource reads resources from a local directory.
type FileSource struct {
	root string
}

func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

func (s *FileSource) String() string { return s.root }

func (s *FileSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+ref)))
	body, err := os.ReadFile(name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, apperrors.Newf(apperrors.ErrNotFound, 0, "%s", name)
	case err != nil:
		return nil, apperrors.Newf(apperrors.ErrSourceUnavailable, 0, "reading %s: %v", name, err)
	}
	return body, nil
}

// PartitionRefs names count partitions from a printf pattern, numbered
// from 1. A zero count yields no partitions.
func PartitionRefs(pattern string, count int) []string {
	refs := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		refs = append(refs, fmt.Sprintf(pattern, i))
	}
	return refs
}
