package academic

// ConfidenceStep maps every score at or above Min to Value.
type ConfidenceStep struct {
	Min   float64
	Value float64
}

// Calibration holds the tunable weights and breakpoints of hint scoring.
type Calibration struct {
	ExplicitWeight float64
	AliasWeight    float64
	SemesterWeight float64

	SemesterMin int
	SemesterMax int

	MaxCandidates int
	MaxEvidence   int
	EvidenceChars int

	// ConfidenceSteps must be sorted by Min descending.
	ConfidenceSteps []ConfidenceStep
	FloorConfidence float64

	HighSummary          float64
	MediumSummary        float64
	SemesterSummaryScale float64

	ConflictGap float64
}

// DefaultCalibration returns the production scoring constants.
func DefaultCalibration() Calibration {
	return Calibration{
		ExplicitWeight: 3.0,
		AliasWeight:    1.1,
		SemesterWeight: 1.8,

		SemesterMin: 1,
		SemesterMax: 14,

		MaxCandidates: 5,
		MaxEvidence:   3,
		EvidenceChars: 180,

		ConfidenceSteps: []ConfidenceStep{
			{Min: 5, Value: 0.95},
			{Min: 3.5, Value: 0.82},
			{Min: 2, Value: 0.68},
			{Min: 1, Value: 0.52},
		},
		FloorConfidence: 0.35,

		HighSummary:          4,
		MediumSummary:        2,
		SemesterSummaryScale: 5,

		ConflictGap: 0.5,
	}
}

// Confidence converts an accumulated score to a [0,1] confidence.
func (c Calibration) Confidence(score float64) float64 {
	for _, step := range c.ConfidenceSteps {
		if score >= step.Min {
			return step.Value
		}
	}
	return c.FloorConfidence
}

// Summary classifies the strongest score across label spaces.
func (c Calibration) Summary(maxScore float64) ConfidenceSummary {
	switch {
	case maxScore >= c.HighSummary:
		return SummaryHigh
	case maxScore >= c.MediumSummary:
		return SummaryMedium
	default:
		return SummaryLow
	}
}
