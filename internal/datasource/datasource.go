// Package datasource abstracts where raw annotation dumps come from. The
// core pipeline only ever sees a local file path; sources exist so the CLI
// can resolve "a path on disk" and "a URL to download first" uniformly.
package datasource

import (
	"context"
	"io"
)

// Source supplies the raw bytes of one annotation dump.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
