package adapter_test

import (
	"context"
	"io"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/amal-assist/amal/pkg/adapter"
)

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, err := adapter.NewStorage(t.TempDir())
	gt.NoError(t, err)

	w, err := storage.Put(ctx, "history.json")
	gt.NoError(t, err)
	_, err = w.Write([]byte(`[{"type":"startup"}]`))
	gt.NoError(t, err)
	gt.NoError(t, w.Close())

	r, err := storage.Get(ctx, "history.json")
	gt.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	gt.NoError(t, err)
	gt.Equal(t, string(data), `[{"type":"startup"}]`)
}

func TestStorageRequiresDirectory(t *testing.T) {
	_, err := adapter.NewStorage("")
	gt.Error(t, err)
}
