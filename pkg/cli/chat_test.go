package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/usecase/analyze"
)

type stubDetector struct {
	result *model.DetectionResult
}

func (s *stubDetector) Detect(ctx context.Context, image []byte, confThreshold float64) (*model.DetectionResult, error) {
	return s.result, nil
}

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	buf := &bytes.Buffer{}
	gt.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestPreloadConditionWithoutDetector(t *testing.T) {
	bus := eventbus.New()
	analyzer := analyze.New(nil, bus)
	out := &bytes.Buffer{}

	cond := preloadCondition(context.Background(), out, analyzer, testImage(t), analyze.DefaultConfThreshold)

	gt.Equal(t, cond, model.ConditionNone)
	gt.S(t, out.String()).Contains("Image analysis unavailable")
}

func TestPreloadConditionAnalysisSucceeds(t *testing.T) {
	bus := eventbus.New()
	detector := &stubDetector{result: &model.DetectionResult{
		Boxes: []model.Box{{Class: "tumor", Confidence: 0.85, X1: 10, Y1: 10, X2: 50, Y2: 50}},
	}}
	analyzer := analyze.New(detector, bus)
	out := &bytes.Buffer{}

	cond := preloadCondition(context.Background(), out, analyzer, testImage(t), analyze.DefaultConfThreshold)

	gt.Equal(t, cond, model.ConditionMalignant)
	gt.S(t, out.String()).Contains("Conclusion: malignant")
}
