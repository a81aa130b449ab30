package seed

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ErrLoadTimeout is returned when the image does not arrive before the deadline.
var ErrLoadTimeout = errors.New("seed: image load timed out")

// LoadCanvas fetches and decodes the image at src (file path or http(s) URL)
// and rasterizes it onto a size×size canvas.
func LoadCanvas(ctx context.Context, src string, size int) (*image.RGBA, error) {
	rc, err := open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("decoding %s: %w", src, err)
	}

	return Rasterize(img, size), nil
}

func open(ctx context.Context, src string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", src, err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", src, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: status %s", src, resp.Status)
		}
		return resp.Body, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	return f, nil
}

// Load is an in-flight asynchronous canvas load.
// Poll is safe to call from the frame loop every tick; it never blocks.
type Load struct {
	cancel context.CancelFunc
	done   chan struct{}
	canvas *image.RGBA
	err    error
}

// StartLoad begins loading src in the background. The load fails with
// ErrLoadTimeout if it has not completed within timeout.
func StartLoad(ctx context.Context, src string, size int, timeout time.Duration) *Load {
	return StartLoadFunc(ctx, timeout, func(ctx context.Context) (*image.RGBA, error) {
		return LoadCanvas(ctx, src, size)
	})
}

// StartLoadFunc runs fn as the load task. It is the seam used by StartLoad
// and by tests that need a controllable source.
func StartLoadFunc(ctx context.Context, timeout time.Duration, fn func(context.Context) (*image.RGBA, error)) *Load {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	l := &Load{cancel: cancel, done: make(chan struct{})}

	g, gctx := errgroup.WithContext(ctx)
	var canvas *image.RGBA
	g.Go(func() error {
		c, err := fn(gctx)
		if err != nil {
			return err
		}
		canvas = c
		return nil
	})

	waited := make(chan error, 1)
	go func() { waited <- g.Wait() }()

	// The deadline wins even if fn ignores its context.
	go func() {
		var err error
		select {
		case err = <-waited:
			if err == nil {
				l.canvas = canvas
			}
		case <-ctx.Done():
			err = ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %v", ErrLoadTimeout, timeout)
		}
		l.err = err
		cancel()
		close(l.done)
	}()

	return l
}

// Poll reports the load result without blocking. done is false while the
// load is still in flight.
func (l *Load) Poll() (canvas *image.RGBA, done bool, err error) {
	select {
	case <-l.done:
		return l.canvas, true, l.err
	default:
		return nil, false, nil
	}
}

// Wait blocks until the load finishes.
func (l *Load) Wait() (*image.RGBA, error) {
	<-l.done
	return l.canvas, l.err
}

// Cancel abandons the load. A cancelled load reports context.Canceled.
func (l *Load) Cancel() {
	l.cancel()
}
