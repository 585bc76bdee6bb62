package ports

import (
	"context"
	"io"
)

// PutObjectInput groups parameters for storing an object.
type PutObjectInput struct {
	Key         string
	ContentType string
	Body        io.Reader
	Length      int64
}

// ObjectStore stores uploaded files and resolves their public URLs.
type ObjectStore interface {
	// Put stores the object and returns its public URL.
	Put(ctx context.Context, in PutObjectInput) (string, error)
	// PublicURL returns the public URL for an already-stored key.
	PublicURL(key string) string
}
