package detector

import (
	"encoding/json"
	"fmt"
)

// Prediction is the predict route's answer.
type Prediction struct {
	Result         PredictionResult `json:"prediction_result"`
	ConfidenceFake float64          `json:"confidence_fake"`
	ConfidenceReal float64          `json:"confidence_real"`
}

// PredictionResult is the classifier verdict.
type PredictionResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Highlights is the highlight route's answer.
type Highlights struct {
	Highlights []TokenContribution `json:"highlights"`
}

// TokenContribution is one word's weight toward the fake label. Positive
// scores push toward fake.
type TokenContribution struct {
	Token           string  `json:"token"`
	Score           float64 `json:"score"`
	ScoreNormalized float64 `json:"score_normalized"`
}

// FactCheck is the fact-check route's answer.
type FactCheck struct {
	FakeScore       float64 `json:"fake_score"`
	SummaryAnalysis string  `json:"summary_analysis"`
}

// DecodePrediction decodes a raw predict result.
func DecodePrediction(raw json.RawMessage) (Prediction, error) {
	var p Prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return Prediction{}, fmt.Errorf("decode prediction: %w", err)
	}
	return p, nil
}

// DecodeHighlights decodes a raw highlight result.
func DecodeHighlights(raw json.RawMessage) (Highlights, error) {
	var h Highlights
	if err := json.Unmarshal(raw, &h); err != nil {
		return Highlights{}, fmt.Errorf("decode highlights: %w", err)
	}
	return h, nil
}

// DecodeFactCheck decodes a raw fact-check result.
func DecodeFactCheck(raw json.RawMessage) (FactCheck, error) {
	var f FactCheck
	if err := json.Unmarshal(raw, &f); err != nil {
		return FactCheck{}, fmt.Errorf("decode fact check: %w", err)
	}
	return f, nil
}
