package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/amal-assist/amal/pkg/model"
)

// Detector is the interface for the tumor detection backend. The
// backend owns the model weights; this side only submits images and
// reads back candidate boxes.
type Detector interface {
	// Detect analyzes the image and returns candidate boxes with a
	// confidence no lower than confThreshold.
	Detect(ctx context.Context, image []byte, confThreshold float64) (*model.DetectionResult, error)
}

// httpDetector implements Detector against an HTTP inference endpoint.
type httpDetector struct {
	endpoint string
	client   *http.Client
}

type DetectorOption func(*httpDetector)

func WithHTTPClient(client *http.Client) DetectorOption {
	return func(d *httpDetector) {
		d.client = client
	}
}

// NewDetector creates a detection backend client for the given
// inference endpoint.
func NewDetector(endpoint string, opts ...DetectorOption) Detector {
	d := &httpDetector{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// detectResponse is the wire format of the inference endpoint.
type detectResponse struct {
	Boxes []struct {
		Class      string     `json:"class"`
		Confidence float64    `json:"confidence"`
		Box        [4]float64 `json:"box"`
	} `json:"boxes"`
}

func (d *httpDetector) Detect(ctx context.Context, image []byte, confThreshold float64) (*model.DetectionResult, error) {
	url := fmt.Sprintf("%s?conf=%.2f", d.endpoint, confThreshold)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(image))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build detection request")
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call detection backend")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("detection backend returned error", goerr.V("status", resp.StatusCode))
	}

	var decoded detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, goerr.Wrap(err, "failed to decode detection response")
	}

	result := &model.DetectionResult{}
	for _, b := range decoded.Boxes {
		result.Boxes = append(result.Boxes, model.Box{
			Class:      b.Class,
			Confidence: b.Confidence,
			X1:         b.Box[0],
			Y1:         b.Box[1],
			X2:         b.Box[2],
			Y2:         b.Box[3],
		})
	}

	return result, nil
}
