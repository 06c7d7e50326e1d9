package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectExists is returned when a key is written twice; objects are write-once.
var ErrObjectExists = errors.New("object already exists")

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

type Deleter interface {
	Delete(ctx context.Context, objectName string) error
}

// ObjectStore is what the submission flow needs from the attachment store.
type ObjectStore interface {
	Uploader
	Deleter
}

type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}
