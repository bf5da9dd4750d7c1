package analyze

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/amal-assist/amal/pkg/adapter"
	"github.com/amal-assist/amal/pkg/eventbus"
	"github.com/amal-assist/amal/pkg/model"
	"github.com/amal-assist/amal/pkg/utils/logging"
)

// MalignancyThreshold is the fixed confidence cutoff above which a
// detected mass is classified malignant. It is independent of the
// detector recall threshold, which only gates which boxes come back.
const MalignancyThreshold = 0.70

// DefaultConfThreshold is the default detector recall threshold.
const DefaultConfThreshold = 0.25

// Classified pairs a detector box with the malignancy decision derived
// from its confidence. The detector's own class label is kept in
// Box.Class but the threshold decision overrides it.
type Classified struct {
	Box       model.Box
	Malignant bool
}

// Result summarizes one image analysis.
type Result struct {
	AnalysisID        string
	Boxes             []Classified
	Condition         model.Condition
	MalignantCount    int
	BenignCount       int
	HighestConfidence float64
}

// Analyzer runs the detection backend over uploaded images and applies
// the malignancy classification policy.
type Analyzer struct {
	detector adapter.Detector
	bus      *eventbus.Bus
}

func New(detector adapter.Detector, bus *eventbus.Bus) *Analyzer {
	return &Analyzer{
		detector: detector,
		bus:      bus,
	}
}

// Run analyzes one image. confThreshold gates detector recall only.
// Detector failure is reported on the bus and returned; it leaves no
// partial state behind.
func (a *Analyzer) Run(ctx context.Context, image []byte, confThreshold float64) (*Result, error) {
	if a.detector == nil {
		return nil, goerr.New("detection backend is not available")
	}

	analysisID := "analysis_" + uuid.New().String()[:8]

	normalized, err := normalizeImage(image)
	if err != nil {
		a.reportError(ctx, "image_decode_error", err)
		return nil, goerr.Wrap(err, "failed to normalize image")
	}

	detection, err := a.detector.Detect(ctx, normalized, confThreshold)
	if err != nil {
		a.reportError(ctx, "prediction_error", err)
		return nil, goerr.Wrap(err, "detection failed")
	}

	result := &Result{
		AnalysisID: analysisID,
		Condition:  model.ConditionNone,
	}

	if len(detection.Boxes) > 0 {
		confidences := make([]float64, 0, len(detection.Boxes))
		for _, b := range detection.Boxes {
			confidences = append(confidences, b.Confidence)
		}
		a.bus.Publish(ctx, model.EventDetection, map[string]any{
			"analysis_id":       analysisID,
			"detection_count":   len(detection.Boxes),
			"confidence_scores": confidences,
			"threshold_used":    confThreshold,
		})
	}

	best := -1
	for i, box := range detection.Boxes {
		malignant := box.Confidence > MalignancyThreshold
		result.Boxes = append(result.Boxes, Classified{Box: box, Malignant: malignant})

		adjustedClass := "normal"
		if malignant {
			adjustedClass = "cancer"
			result.MalignantCount++
		} else {
			result.BenignCount++
		}

		a.bus.Publish(ctx, model.EventClassification, map[string]any{
			"detection_id":   result.AnalysisID + "_det" + strconv.Itoa(i),
			"confidence":     box.Confidence,
			"original_class": box.Class,
			"adjusted_class": adjustedClass,
			"is_malignant":   malignant,
		})

		// Strict > keeps the first occurrence on ties
		if best < 0 || box.Confidence > detection.Boxes[best].Confidence {
			best = i
		}
	}

	if best >= 0 {
		result.HighestConfidence = detection.Boxes[best].Confidence
		if detection.Boxes[best].Confidence > MalignancyThreshold {
			result.Condition = model.ConditionMalignant
		} else {
			result.Condition = model.ConditionBenign
		}
	}

	a.bus.Publish(ctx, model.EventDetection, map[string]any{
		"analysis_id":          analysisID,
		"analysis_complete":    true,
		"total_detections":     len(detection.Boxes),
		"malignant_count":      result.MalignantCount,
		"benign_count":         result.BenignCount,
		"highest_confidence":   result.HighestConfidence,
		"final_classification": string(result.Condition),
		"threshold_used":       confThreshold,
	})

	logging.From(ctx).Info("image analysis completed",
		"analysis_id", analysisID,
		"detections", len(detection.Boxes),
		"condition", result.Condition,
	)

	return result, nil
}

func (a *Analyzer) reportError(ctx context.Context, errType string, err error) {
	logging.From(ctx).Error("image analysis failed", "error_type", errType, "error", err)
	a.bus.Publish(ctx, model.EventError, map[string]any{
		"error_type":    errType,
		"error_message": err.Error(),
		"module":        "detection",
	})
}
