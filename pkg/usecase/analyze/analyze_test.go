package analyze_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/usecase/analyze"
)

type mockDetector struct {
	result    *model.DetectionResult
	err       error
	threshold float64
}

func (m *mockDetector) Detect(ctx context.Context, image []byte, confThreshold float64) (*model.DetectionResult, error) {
	m.threshold = confThreshold
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	buf := &bytes.Buffer{}
	gt.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func box(class string, conf float64) model.Box {
	return model.Box{Class: class, Confidence: conf, X1: 10, Y1: 10, X2: 50, Y2: 50}
}

func eventsOfKind(bus *eventbus.Bus, kind model.EventKind) []model.Event {
	var out []model.Event
	for _, ev := range bus.History() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func TestRunClassifiesByThreshold(t *testing.T) {
	testCases := []struct {
		name       string
		confidence float64
		malignant  bool
	}{
		{"above threshold", 0.71, true},
		{"exactly at threshold", 0.70, false},
		{"below threshold", 0.30, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bus := eventbus.New()
			detector := &mockDetector{result: &model.DetectionResult{
				Boxes: []model.Box{box("tumor", tc.confidence)},
			}}
			analyzer := analyze.New(detector, bus)

			result, err := analyzer.Run(context.Background(), testImage(t), analyze.DefaultConfThreshold)
			gt.NoError(t, err)
			gt.A(t, result.Boxes).Length(1)
			gt.Equal(t, result.Boxes[0].Malignant, tc.malignant)

			expected := model.ConditionBenign
			if tc.malignant {
				expected = model.ConditionMalignant
			}
			gt.Equal(t, result.Condition, expected)
		})
	}
}

func TestRunMixedDetections(t *testing.T) {
	bus := eventbus.New()
	detector := &mockDetector{result: &model.DetectionResult{
		Boxes: []model.Box{box("tumor", 0.30), box("tumor", 0.85)},
	}}
	analyzer := analyze.New(detector, bus)

	result, err := analyzer.Run(context.Background(), testImage(t), 0.25)
	gt.NoError(t, err)

	gt.Equal(t, detector.threshold, 0.25)
	gt.Equal(t, result.Condition, model.ConditionMalignant)
	gt.Equal(t, result.MalignantCount, 1)
	gt.Equal(t, result.BenignCount, 1)
	gt.Equal(t, result.HighestConfidence, 0.85)

	classifications := eventsOfKind(bus, model.EventClassification)
	gt.A(t, classifications).Length(2)
	gt.Equal(t, classifications[0].Payload["adjusted_class"], "normal")
	gt.Equal(t, classifications[0].Payload["is_malignant"], false)
	gt.Equal(t, classifications[1].Payload["adjusted_class"], "cancer")
	gt.Equal(t, classifications[1].Payload["is_malignant"], true)

	detections := eventsOfKind(bus, model.EventDetection)
	gt.A(t, detections).Length(2)
	gt.Equal(t, detections[1].Payload["analysis_complete"], true)
	gt.Equal(t, detections[1].Payload["malignant_count"], 1)
	gt.Equal(t, detections[1].Payload["benign_count"], 1)
	gt.Equal(t, detections[1].Payload["final_classification"], "malignant")
}

func TestRunNoDetections(t *testing.T) {
	bus := eventbus.New()
	detector := &mockDetector{result: &model.DetectionResult{}}
	analyzer := analyze.New(detector, bus)

	result, err := analyzer.Run(context.Background(), testImage(t), analyze.DefaultConfThreshold)
	gt.NoError(t, err)

	gt.Equal(t, result.Condition, model.ConditionNone)
	gt.A(t, result.Boxes).Length(0)

	// No per-box events, only the completion summary
	detections := eventsOfKind(bus, model.EventDetection)
	gt.A(t, detections).Length(1)
	gt.Equal(t, detections[0].Payload["analysis_complete"], true)
	gt.Equal(t, detections[0].Payload["total_detections"], 0)
}

func TestRunDetectorFailure(t *testing.T) {
	bus := eventbus.New()
	detector := &mockDetector{err: goerr.New("backend unreachable")}
	analyzer := analyze.New(detector, bus)

	_, err := analyzer.Run(context.Background(), testImage(t), analyze.DefaultConfThreshold)
	gt.Error(t, err)

	errors := eventsOfKind(bus, model.EventError)
	gt.A(t, errors).Length(1)
	gt.Equal(t, errors[0].Payload["error_type"], "prediction_error")
	gt.Equal(t, errors[0].Payload["module"], "detection")
}

func TestRunWithoutDetector(t *testing.T) {
	analyzer := analyze.New(nil, eventbus.New())
	_, err := analyzer.Run(context.Background(), testImage(t), analyze.DefaultConfThreshold)
	gt.Error(t, err)
}

func TestRunRejectsNonImage(t *testing.T) {
	bus := eventbus.New()
	detector := &mockDetector{result: &model.DetectionResult{}}
	analyzer := analyze.New(detector, bus)

	_, err := analyzer.Run(context.Background(), []byte("not an image"), analyze.DefaultConfThreshold)
	gt.Error(t, err)

	errors := eventsOfKind(bus, model.EventError)
	gt.A(t, errors).Length(1)
	gt.Equal(t, errors[0].Payload["error_type"], "image_decode_error")
}
