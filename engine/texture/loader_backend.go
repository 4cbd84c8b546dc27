package texture

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
)

// maxImageBytes bounds a single fetched image.
const maxImageBytes = 256 << 20

// loaderBackend fetches the raw encoded bytes of an image.
// Concrete implementations handle local files and remote URLs.
type loaderBackend interface {
	// Fetch returns the encoded image bytes for source.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - source: the path or URL to read
	//
	// Returns:
	//   - []byte: the encoded image
	//   - error: error if the source cannot be read
	Fetch(ctx context.Context, source string) ([]byte, error)
}

type fileLoaderBackend struct{}

var _ loaderBackend = &fileLoaderBackend{}

func newFileLoaderBackend() loaderBackend {
	return &fileLoaderBackend{}
}

func (b *fileLoaderBackend) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", source)
	}
	return data, nil
}

type httpLoaderBackend struct {
	client     *http.Client
	maxElapsed time.Duration
}

var _ loaderBackend = &httpLoaderBackend{}

func newHTTPLoaderBackend(client *http.Client, maxElapsed time.Duration) *httpLoaderBackend {
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	return &httpLoaderBackend{client: client, maxElapsed: maxElapsed}
}

// Fetch downloads source with exponential backoff. Server errors and transport failures
// are retried until maxElapsed; client errors (4xx) fail immediately.
func (b *httpLoaderBackend) Fetch(ctx context.Context, source string) ([]byte, error) {
	var body []byte

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = b.maxElapsed

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return backoff.Permanent(errors.Wrap(err, "build request"))
		}
		resp, err := b.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return errors.Wrapf(err, "get %s", source)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(errors.Errorf("get %s: %s", source, resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("get %s: %s", source, resp.Status)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return errors.Wrapf(err, "read body of %s", source)
		}
		body = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Printf("[Texture] fetch failed, retrying in %s: %v", wait.Round(time.Millisecond), err)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}
