package academic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	titles    []string
	fragments []Fragment
	err       error

	gotQuery string
	gotLimit int
}

func (f *fakeSource) Titles(ctx context.Context, userID string) ([]string, error) {
	return f.titles, nil
}

func (f *fakeSource) Fragments(ctx context.Context, userID, queryHint string, limit int) ([]Fragment, error) {
	f.gotQuery, f.gotLimit = queryHint, limit
	return f.fragments, f.err
}

func titleFragments(titles ...string) []Fragment {
	out := make([]Fragment, 0, len(titles))
	for _, t := range titles {
		out = append(out, Fragment{Source: "title:" + t, Text: t})
	}
	return out
}

func TestExtract_ExplicitMajorDeclaration(t *testing.T) {
	fragments := append(titleFragments("Program Studi Teknik Informatika"),
		Fragment{Source: "chunk:cv", Text: "pernah ikut kelas manajemen"})

	hints := Extract(fragments, true, DefaultCalibration())

	require.NotEmpty(t, hints.MajorCandidates)
	top := hints.MajorCandidates[0]
	assert.Equal(t, "Teknik Informatika", top.Label)
	assert.Equal(t, 0.82, top.Confidence)
	assert.Contains(t, top.Evidence, "title:Program Studi Teknik Informatika: Program Studi Teknik Informatika")
	require.Len(t, hints.MajorCandidates, 2)
	assert.Equal(t, "Manajemen", hints.MajorCandidates[1].Label)
	assert.Equal(t, 0.52, hints.MajorCandidates[1].Confidence)
	assert.Equal(t, SummaryHigh, hints.ConfidenceSummary)
	assert.True(t, hints.HasRelevantDocs)
	assert.Nil(t, hints.Warning)
}

func TestExtract_NearEqualMajorsFlagConflict(t *testing.T) {
	fragments := titleFragments("Program Studi Teknik Informatika", "Program Studi Sistem Informasi")

	hints := Extract(fragments, true, DefaultCalibration())

	require.Len(t, hints.MajorCandidates, 2)
	assert.Equal(t, 0.82, hints.MajorCandidates[0].Confidence)
	assert.Equal(t, SummaryHigh, hints.ConfidenceSummary)
	require.NotNil(t, hints.Warning)
	assert.Equal(t, WarningMixed, *hints.Warning)
}

func TestExtract_NoDocumentsPromptsUpload(t *testing.T) {
	hints := Extract(nil, false, DefaultCalibration())

	assert.Empty(t, hints.MajorCandidates)
	assert.Empty(t, hints.CareerCandidates)
	assert.Empty(t, hints.SemesterCandidates)
	assert.False(t, hints.HasRelevantDocs)
	assert.Equal(t, SummaryLow, hints.ConfidenceSummary)
	require.NotNil(t, hints.Warning)
	assert.Equal(t, WarningUpload, *hints.Warning)
}

func TestExtract_LowSummaryPromptsUploadEvenWithCandidates(t *testing.T) {
	hints := Extract(titleFragments("catatan akuntansi"), true, DefaultCalibration())

	assert.True(t, hints.HasRelevantDocs)
	assert.Equal(t, SummaryLow, hints.ConfidenceSummary)
	require.NotNil(t, hints.Warning)
	assert.Equal(t, WarningUpload, *hints.Warning)
}

func TestExtract_SemesterSummaryIsRescaled(t *testing.T) {
	hints := Extract(titleFragments("KRS Semester 5"), true, DefaultCalibration())

	require.Len(t, hints.SemesterCandidates, 1)
	assert.Equal(t, 5, hints.SemesterCandidates[0].Value)
	assert.Equal(t, "Semester 5", hints.SemesterCandidates[0].Label)
	assert.Equal(t, 0.52, hints.SemesterCandidates[0].Confidence)
	// 0.52 * 5 = 2.6
	assert.Equal(t, SummaryMedium, hints.ConfidenceSummary)
	assert.Nil(t, hints.Warning)
}

func TestExtract_SemesterTiesOrderedNumerically(t *testing.T) {
	hints := Extract(titleFragments("Semester 10 dan Semester 2"), true, DefaultCalibration())

	require.Len(t, hints.SemesterCandidates, 2)
	assert.Equal(t, 2, hints.SemesterCandidates[0].Value)
	assert.Equal(t, 10, hints.SemesterCandidates[1].Value)
}

// Calibration constants: these breakpoints are tunable, not invariants.
func TestCalibrationConstants_ConfidenceSteps(t *testing.T) {
	cal := DefaultCalibration()
	cases := map[float64]float64{
		5:    0.95,
		4.99: 0.82,
		3.5:  0.82,
		2:    0.68,
		1.1:  0.52,
		1:    0.52,
		0.99: 0.35,
	}
	for score, want := range cases {
		assert.Equal(t, want, cal.Confidence(score), "score %v", score)
	}
}

func TestCalibrationConstants_ConflictGapOverride(t *testing.T) {
	fragments := append(titleFragments("Program Studi Teknik Informatika"),
		Fragment{Source: "chunk:a", Text: "Program Studi Sistem Informasi"},
		Fragment{Source: "chunk:b", Text: "prodi teknik informatika"})

	// TI 4.1 + 4.1 = 8.2, SI 4.1: gap 4.1
	hints := Extract(fragments, true, DefaultCalibration())
	assert.Nil(t, hints.Warning)

	wide := DefaultCalibration()
	wide.ConflictGap = 5
	hints = Extract(fragments, true, wide)
	require.NotNil(t, hints.Warning)
	assert.Equal(t, WarningMixed, *hints.Warning)
}

func TestExtractor_GatherOrdersTitlesFirstAndCapsChunks(t *testing.T) {
	src := &fakeSource{
		titles: []string{"Transkrip Nilai", ""},
		fragments: []Fragment{
			{Source: "chunk:Transkrip Nilai", Text: strings.Repeat("a", 2000)},
			{Source: "", Text: "  jurusan hukum  "},
			{Source: "chunk:x", Text: "   "},
		},
	}
	ex := NewExtractor(src, DefaultCalibration(), 0)

	ev, err := ex.Gather(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, ev.Degraded)
	assert.Equal(t, ProfileQueryHint, src.gotQuery)
	assert.Equal(t, DefaultFragmentLimit, src.gotLimit)
	require.Len(t, ev.Fragments, 3)
	assert.Equal(t, "title:Transkrip Nilai", ev.Fragments[0].Source)
	assert.Len(t, ev.Fragments[1].Text, 1500)
	assert.Equal(t, "chunk", ev.Fragments[2].Source)
	assert.Equal(t, "jurusan hukum", ev.Fragments[2].Text)
}

func TestExtractor_RetrievalFailureDegradesToTitles(t *testing.T) {
	src := &fakeSource{
		titles: []string{"Program Studi Psikologi"},
		err:    errors.New("vector store down"),
	}
	ex := NewExtractor(src, DefaultCalibration(), 10)

	hints, ev, err := ex.Hints(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, ev.Degraded)
	require.Len(t, ev.Fragments, 1)
	require.NotEmpty(t, hints.MajorCandidates)
	assert.Equal(t, "Psikologi", hints.MajorCandidates[0].Label)
}
