package adapter_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/amal-assist/amal/pkg/adapter"
)

func TestDetect(t *testing.T) {
	var gotQuery, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"boxes":[{"class":"tumor","confidence":0.85,"box":[12,34,56,78]}]}`))
	}))
	defer srv.Close()

	detector := adapter.NewDetector(srv.URL, adapter.WithHTTPClient(srv.Client()))
	result, err := detector.Detect(context.Background(), []byte("image-bytes"), 0.25)
	gt.NoError(t, err)

	gt.Equal(t, gotQuery, "conf=0.25")
	gt.Equal(t, gotContentType, "application/octet-stream")
	gt.Equal(t, string(gotBody), "image-bytes")

	gt.A(t, result.Boxes).Length(1)
	gt.Equal(t, result.Boxes[0].Class, "tumor")
	gt.Equal(t, result.Boxes[0].Confidence, 0.85)
	gt.Equal(t, result.Boxes[0].X1, 12.0)
	gt.Equal(t, result.Boxes[0].Y2, 78.0)
}

func TestDetectBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	detector := adapter.NewDetector(srv.URL)
	_, err := detector.Detect(context.Background(), []byte("image-bytes"), 0.25)
	gt.Error(t, err)
}
