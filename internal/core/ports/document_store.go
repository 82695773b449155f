package ports

import (
	"context"
	"io"
)

// DocumentStore persists opaque bid documents. The core never interprets the
// content; only the returned reference is stored on the bid.
type DocumentStore interface {
	Store(ctx context.Context, filename string, r io.Reader) (ref string, err error)
	Fetch(ctx context.Context, ref string, w io.Writer) error
}
