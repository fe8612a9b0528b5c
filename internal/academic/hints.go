package academic

// ConfidenceSummary is the coarse confidence over all label spaces.
type ConfidenceSummary string

const (
	SummaryLow    ConfidenceSummary = "low"
	SummaryMedium ConfidenceSummary = "medium"
	SummaryHigh   ConfidenceSummary = "high"
)

const (
	WarningUpload = "Upload sumber dengan data yang relevan agar jawaban konsisten."
	WarningMixed  = "Data dokumen terdeteksi beragam. Upload sumber yang lebih relevan agar jawaban konsisten."
)

// CandidateHint is a ranked label inferred from documents.
type CandidateHint struct {
	Value      string   `json:"value"`
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// SemesterHint is a CandidateHint whose value is a semester number.
type SemesterHint struct {
	Value      int      `json:"value"`
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// ProfileHints is rebuilt on every planner turn and never cached.
type ProfileHints struct {
	MajorCandidates    []CandidateHint   `json:"major_candidates"`
	CareerCandidates   []CandidateHint   `json:"career_candidates"`
	SemesterCandidates []SemesterHint    `json:"semester_candidates"`
	ConfidenceSummary  ConfidenceSummary `json:"confidence_summary"`
	HasRelevantDocs    bool              `json:"has_relevant_docs"`
	Warning            *string           `json:"warning"`
}

// TopMajor returns the best major candidate label, if any.
func (h ProfileHints) TopMajor() (string, bool) {
	if len(h.MajorCandidates) == 0 {
		return "", false
	}
	return h.MajorCandidates[0].Label, true
}

// TopSemester returns the best semester candidate, if any.
func (h ProfileHints) TopSemester() (int, bool) {
	if len(h.SemesterCandidates) == 0 {
		return 0, false
	}
	return h.SemesterCandidates[0].Value, true
}
