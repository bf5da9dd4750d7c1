package adapter

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// Storage is the interface for saved session artifacts, such as the
// serialized event history.
type Storage interface {
	// Put returns a writer that saves an artifact under key
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Get loads a previously saved artifact
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// dirStorage implements Storage on a local directory. The only durable
// state of the application is written through here, on explicit user
// action.
type dirStorage struct {
	dir string
}

// NewStorage creates a Storage rooted at dir, creating it if needed.
func NewStorage(dir string) (Storage, error) {
	if dir == "" {
		return nil, goerr.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", dir))
	}

	return &dirStorage{dir: dir}, nil
}

func (s *dirStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	path := filepath.Join(s.dir, filepath.Clean(key))
	f, err := os.Create(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create artifact", goerr.V("key", key))
	}
	return f, nil
}

func (s *dirStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path := filepath.Join(s.dir, filepath.Clean(key))
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open artifact", goerr.V("key", key))
	}
	return f, nil
}
