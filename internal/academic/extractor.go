package academic

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"planner-backend/internal/shared/telemetry"
)

// ProfileQueryHint is the retrieval query used to find profile evidence.
const ProfileQueryHint = "program studi prodi jurusan semester target karir career pekerjaan"

const (
	DefaultFragmentLimit = 25
	maxFragmentChars     = 1500
)

// Fragment is one unit of document text with its provenance.
type Fragment struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// DocumentTextSource supplies a user's document titles and retrieved chunks.
type DocumentTextSource interface {
	Titles(ctx context.Context, userID string) ([]string, error)
	Fragments(ctx context.Context, userID, queryHint string, limit int) ([]Fragment, error)
}

// Evidence is what a turn knows about a user's documents.
type Evidence struct {
	Titles    []string
	Fragments []Fragment
	// Degraded is set when chunk retrieval failed and only titles were used.
	Degraded bool
}

// Extractor gathers document evidence and turns it into ProfileHints.
type Extractor struct {
	Source        DocumentTextSource
	Calibration   Calibration
	FragmentLimit int
}

func NewExtractor(source DocumentTextSource, cal Calibration, fragmentLimit int) *Extractor {
	if fragmentLimit <= 0 {
		fragmentLimit = DefaultFragmentLimit
	}
	return &Extractor{Source: source, Calibration: cal, FragmentLimit: fragmentLimit}
}

// Gather loads titles and retrieved chunks. Titles come first as
// "title:<t>" fragments. A retrieval failure degrades to titles only;
// only a title lookup failure is returned as an error.
func (e *Extractor) Gather(ctx context.Context, userID string) (Evidence, error) {
	titles, err := e.Source.Titles(ctx, userID)
	if err != nil {
		return Evidence{}, fmt.Errorf("load document titles: %w", err)
	}
	ev := Evidence{Titles: titles}
	for _, t := range titles {
		if t != "" {
			ev.Fragments = append(ev.Fragments, Fragment{Source: "title:" + t, Text: t})
		}
	}

	chunks, err := e.Source.Fragments(ctx, userID, ProfileQueryHint, e.FragmentLimit)
	if err != nil {
		telemetry.Warn("planner.fragments_degraded", map[string]any{
			"user_id": userID,
			"error":   err,
		})
		ev.Degraded = true
		return ev, nil
	}
	for _, c := range chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		source := c.Source
		if source == "" {
			source = "chunk"
		}
		ev.Fragments = append(ev.Fragments, Fragment{Source: source, Text: truncate(text, maxFragmentChars)})
	}
	return ev, nil
}

// Hints gathers evidence and extracts hints in one call.
func (e *Extractor) Hints(ctx context.Context, userID string) (ProfileHints, Evidence, error) {
	ev, err := e.Gather(ctx, userID)
	if err != nil {
		return ProfileHints{}, Evidence{}, err
	}
	return Extract(ev.Fragments, len(ev.Titles) > 0, e.Calibration), ev, nil
}

// Extract scores fragments across the major, career and semester spaces.
// hasDocuments distinguishes "no documents" from "documents without hits".
func Extract(fragments []Fragment, hasDocuments bool, cal Calibration) ProfileHints {
	majorScanner := Scanner{Taxonomy: Majors, Explicit: MajorFieldPattern, Calibration: cal}
	careerScanner := Scanner{Taxonomy: Careers, Explicit: CareerFieldPattern, Calibration: cal}

	majors, careers, semesters := Tally{}, Tally{}, Tally{}
	for _, f := range fragments {
		majors.Merge(majorScanner.Scan(f.Source, f.Text), cal.MaxEvidence)
		careers.Merge(careerScanner.Scan(f.Source, f.Text), cal.MaxEvidence)
		semesters.Merge(ScanSemesters(f.Source, f.Text, cal), cal.MaxEvidence)
	}

	hints := ProfileHints{
		MajorCandidates:    labelCandidates(majors, cal),
		CareerCandidates:   labelCandidates(careers, cal),
		SemesterCandidates: semesterCandidates(semesters, cal),
	}

	maxSemester := 0.0
	for _, s := range hints.SemesterCandidates {
		if s.Confidence > maxSemester {
			maxSemester = s.Confidence
		}
	}
	maxScore := max(majors.Max(), careers.Max(), maxSemester*cal.SemesterSummaryScale)
	hints.ConfidenceSummary = cal.Summary(maxScore)
	hints.HasRelevantDocs = len(hints.MajorCandidates) > 0 || len(hints.CareerCandidates) > 0 || len(hints.SemesterCandidates) > 0
	hints.Warning = warningFor(hasDocuments, hints, majors, careers, cal)
	return hints
}

func warningFor(hasDocuments bool, hints ProfileHints, majors, careers Tally, cal Calibration) *string {
	if !hasDocuments || !hints.HasRelevantDocs || hints.ConfidenceSummary == SummaryLow {
		w := WarningUpload
		return &w
	}
	for _, t := range []Tally{majors, careers} {
		if gap, ok := t.TopGap(); ok && gap <= cal.ConflictGap {
			w := WarningMixed
			return &w
		}
	}
	return nil
}

func labelCandidates(t Tally, cal Calibration) []CandidateHint {
	ranked := t.Rank(cal.MaxCandidates)
	out := make([]CandidateHint, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, CandidateHint{
			Value:      r.Key,
			Label:      r.Key,
			Confidence: cal.Confidence(r.Score),
			Evidence:   capEvidence(r.Evidence, cal.MaxEvidence),
		})
	}
	return out
}

func semesterCandidates(t Tally, cal Calibration) []SemesterHint {
	ranked := t.Rank(cal.MaxCandidates)
	out := make([]SemesterHint, 0, len(ranked))
	for _, r := range ranked {
		n, err := strconv.Atoi(r.Key)
		if err != nil {
			continue
		}
		out = append(out, SemesterHint{
			Value:      n,
			Label:      fmt.Sprintf("Semester %d", n),
			Confidence: cal.Confidence(r.Score),
			Evidence:   capEvidence(r.Evidence, cal.MaxEvidence),
		})
	}
	return out
}

func capEvidence(evidence []string, limit int) []string {
	if limit > 0 && len(evidence) > limit {
		evidence = evidence[:limit]
	}
	return append([]string{}, evidence...)
}
