package model

// Condition is the tumor condition derived from image analysis.
type Condition string

const (
	ConditionNone      Condition = "none"
	ConditionBenign    Condition = "benign"
	ConditionMalignant Condition = "malignant"
)

// Box is one detected region returned by the detection backend. Class
// carries the detector's own label; the malignancy decision made from
// Confidence overrides it (see usecase/analyze).
type Box struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
}

// DetectionResult is the raw output of one detector invocation. It is
// not persisted beyond the session.
type DetectionResult struct {
	Boxes []Box `json:"boxes"`
}
