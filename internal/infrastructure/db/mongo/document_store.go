package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"

	"github.com/opencity/tender-marketplace/internal/core/domain"
)

// DocumentStore implements ports.DocumentStore on a GridFS bucket. Bid
// documents are opaque blobs; only their hex file id travels back to the core.
type DocumentStore struct {
	bucket *gridfs.Bucket
}

func NewDocumentStore(db *mongo.Database) (*DocumentStore, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &DocumentStore{bucket: bucket}, nil
}

func (s *DocumentStore) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(deadline)
	} else {
		_ = s.bucket.SetWriteDeadline(time.Now().Add(defaultTimeout))
	}

	id, err := s.bucket.UploadFromStream(filename, r)
	if err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	return id.Hex(), nil
}

func (s *DocumentStore) Fetch(ctx context.Context, ref string, w io.Writer) error {
	oid, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return domain.ErrDocumentNotFound
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetReadDeadline(deadline)
	} else {
		_ = s.bucket.SetReadDeadline(time.Now().Add(defaultTimeout))
	}

	if _, err := s.bucket.DownloadToStream(oid, w); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("fetch document: %w", err)
	}
	return nil
}
