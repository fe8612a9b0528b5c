package planner

import (
	"errors"
	"strings"
	"testing"

	"planner-backend/internal/academic"
)

func intPtr(v int) *int { return &v }

func startState(t *testing.T, level int) State {
	t.Helper()
	return Machine{}.Start("s1", "u1", academic.DataLevel{Level: level}, Env{})
}

func TestStartBelowLevelThreeBeginsAtData(t *testing.T) {
	for _, level := range []int{0, 1, 2} {
		st := startState(t, level)
		if st.CurrentStep != StepData {
			t.Fatalf("level %d: expected data, got %s", level, st.CurrentStep)
		}
		if len(st.PendingOptions) != 2 {
			t.Fatalf("level %d: expected 2 options, got %d", level, len(st.PendingOptions))
		}
	}
}

func TestStartLevelThreeSkipsToGoalsAndPrefills(t *testing.T) {
	env := Env{Hints: academic.ProfileHints{
		MajorCandidates:    []academic.CandidateHint{{Value: "Informatika", Label: "Informatika"}},
		SemesterCandidates: []academic.SemesterHint{{Value: 5, Label: "Semester 5"}},
	}}
	st := Machine{}.Start("s1", "u1", academic.DataLevel{Level: 3, HasTranscript: true, HasSchedule: true}, env)
	if st.CurrentStep != StepGoals {
		t.Fatalf("expected goals, got %s", st.CurrentStep)
	}
	if st.Collected[FieldJurusan] != "Informatika" || st.Collected[FieldSemester] != "5" {
		t.Fatalf("unexpected prefill: %#v", st.Collected)
	}
}

func TestAdvanceRejectsEmptyAnswer(t *testing.T) {
	st := startState(t, 0)
	out, err := Machine{}.Advance(st, Answer{Message: "   "}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.Accepted || out.Reason != ReasonEmpty {
		t.Fatalf("expected empty rejection, got %#v", out)
	}
	if out.State.CurrentStep != StepData {
		t.Fatalf("step changed: %s", out.State.CurrentStep)
	}
	if !strings.HasPrefix(out.Message, "Kamu belum menjawab") {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestAdvanceRejectsUnmatchedTextAsUserInput(t *testing.T) {
	st := startState(t, 0)
	out, err := Machine{}.Advance(st, Answer{Message: "bebas aja"}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.Accepted || out.Reason != ReasonUnmatched {
		t.Fatalf("expected unmatched rejection, got %#v", out)
	}
	if out.Origin != EventUserInput {
		t.Fatalf("expected user_input origin, got %s", out.Origin)
	}
	if !strings.Contains(out.Message, "Jawaban belum sesuai opsi") {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestAdvanceRejectsUnknownOptionID(t *testing.T) {
	st := startState(t, 0)
	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(9)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.Accepted || out.Reason != ReasonUnmatched || out.Origin != EventOptionSelect {
		t.Fatalf("unexpected outcome %#v", out)
	}
}

func TestAdvanceGatesDocumentOptionOnEmbeddedDocument(t *testing.T) {
	st := startState(t, 0)
	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(1)}, Env{HasEmbeddedDocument: false})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.Accepted || out.Reason != ReasonPrecondition {
		t.Fatalf("expected precondition rejection, got %#v", out)
	}
	if !strings.Contains(out.Message, "Opsi 1 memerlukan dokumen akademik") {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if out.Origin != EventOptionSelect {
		t.Fatalf("expected option_select origin, got %s", out.Origin)
	}

	out, err = Machine{}.Advance(st, Answer{OptionID: intPtr(1)}, Env{HasEmbeddedDocument: true})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !out.Accepted || out.State.CurrentStep != StepProfileJurusan {
		t.Fatalf("expected advance to profile_jurusan, got %#v", out)
	}
	if out.State.Collected[FieldDataSource] != "documents" {
		t.Fatalf("data_source not stored: %#v", out.State.Collected)
	}
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	st := startState(t, 0)
	if _, err := (Machine{}).Advance(st, Answer{Message: "2"}, Env{}); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if st.CurrentStep != StepData || len(st.Collected) != 0 {
		t.Fatalf("input state mutated: %#v", st)
	}
}

func TestAdvanceMatchesTypedNumberAndLabel(t *testing.T) {
	st := startState(t, 0)
	out, err := Machine{}.Advance(st, Answer{Message: "2"}, Env{})
	if err != nil || !out.Accepted {
		t.Fatalf("typed number: %v %#v", err, out)
	}
	if out.Event != EventOptionSelect {
		t.Fatalf("expected option_select, got %s", out.Event)
	}

	out, err = Machine{}.Advance(st, Answer{Message: "  isi DATA manual "}, Env{})
	if err != nil || !out.Accepted {
		t.Fatalf("typed label: %v %#v", err, out)
	}
	if out.Selected == nil || out.Selected.ID != 2 {
		t.Fatalf("expected option 2, got %#v", out.Selected)
	}
}

func TestAdvanceCustomTextIsUserInput(t *testing.T) {
	st := State{SessionID: "s1", UserID: "u1", CurrentStep: StepProfileJurusan, Collected: map[string]string{}}
	out, err := Machine{}.Advance(st, Answer{Message: "Teknik   Geofisika"}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !out.Accepted || out.Event != EventUserInput {
		t.Fatalf("expected accepted user_input, got %#v", out)
	}
	if out.State.Collected[FieldJurusan] != "Teknik Geofisika" {
		t.Fatalf("unexpected jurusan %q", out.State.Collected[FieldJurusan])
	}
	if out.State.CurrentStep != StepProfileSemester {
		t.Fatalf("expected profile_semester, got %s", out.State.CurrentStep)
	}
}

func TestAdvanceSemesterCustomText(t *testing.T) {
	st := State{CurrentStep: StepProfileSemester, Collected: map[string]string{}}
	cases := []struct {
		text string
		ok   bool
		want string
	}{
		{"semester 11", true, "11"},
		{"15", false, ""},
		{"3 atau 4", false, ""},
		{"belum tahu", false, ""},
	}
	for _, tc := range cases {
		out, err := Machine{}.Advance(st, Answer{Message: tc.text}, Env{})
		if err != nil {
			t.Fatalf("%q: %v", tc.text, err)
		}
		if out.Accepted != tc.ok {
			t.Fatalf("%q: accepted=%v", tc.text, out.Accepted)
		}
		if tc.ok && out.State.Collected[FieldSemester] != tc.want {
			t.Fatalf("%q: got %q", tc.text, out.State.Collected[FieldSemester])
		}
	}
}

func TestAdvanceSemesterTypedNumberIsValueNotOptionID(t *testing.T) {
	env := Env{Hints: academic.ProfileHints{
		SemesterCandidates: []academic.SemesterHint{{Value: 5, Label: "Semester 5"}},
	}}
	st := State{CurrentStep: StepProfileSemester, Collected: map[string]string{}}

	cases := []struct {
		text string
		want string
	}{
		{"5", "5"},
		{"4", "4"},
		{"1", "1"},
		{"12", "12"},
	}
	for _, tc := range cases {
		out, err := Machine{}.Advance(st, Answer{Message: tc.text}, env)
		if err != nil {
			t.Fatalf("%q: %v", tc.text, err)
		}
		if !out.Accepted || out.State.Collected[FieldSemester] != tc.want {
			t.Fatalf("%q: accepted=%v semester=%q", tc.text, out.Accepted, out.State.Collected[FieldSemester])
		}
	}

	out, err := Machine{}.Advance(st, Answer{Message: "5"}, env)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.Event != EventOptionSelect || out.Selected == nil || out.Selected.ID != 1 {
		t.Fatalf("expected hinted option selected, got %#v", out)
	}
}

func TestAdvanceSemesterExplicitOptionIDSelectsByID(t *testing.T) {
	env := Env{Hints: academic.ProfileHints{
		SemesterCandidates: []academic.SemesterHint{{Value: 5, Label: "Semester 5"}},
	}}
	st := State{CurrentStep: StepProfileSemester, Collected: map[string]string{}}
	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(2)}, env)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	// ids: 1 = Semester 5 (hint), 2 = Semester 1
	if !out.Accepted || out.State.Collected[FieldSemester] != "1" {
		t.Fatalf("expected semester 1 by id, got %#v", out.State.Collected)
	}
}

func TestAdvanceNonCareerGoalDropsStaleCareer(t *testing.T) {
	st := State{CurrentStep: StepGoals, Collected: map[string]string{
		FieldGoal:   "Fokus persiapan karir",
		FieldCareer: "Data Scientist",
	}}

	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(1)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.State.CurrentStep != StepPrefTime {
		t.Fatalf("expected pref_time, got %s", out.State.CurrentStep)
	}
	if _, ok := out.State.Collected[FieldCareer]; ok {
		t.Fatalf("career should be cleared, got %#v", out.State.Collected)
	}
	if strings.Contains(Summary(out.State), "Target karir") {
		t.Fatalf("summary still shows career: %q", Summary(out.State))
	}
	if st.Collected[FieldCareer] != "Data Scientist" {
		t.Fatalf("input state mutated")
	}

	out, err = Machine{}.Advance(st, Answer{Message: "Ikut lomba dan organisasi"}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if _, ok := out.State.Collected[FieldCareer]; ok {
		t.Fatalf("custom goal should clear career, got %#v", out.State.Collected)
	}

	out, err = Machine{}.Advance(st, Answer{OptionID: intPtr(4)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.State.CurrentStep != StepCareer || out.State.Collected[FieldCareer] != "Data Scientist" {
		t.Fatalf("career branch should keep career until re-answered, got %#v", out.State)
	}
}

func TestAdvanceManualOptionAsksForTypedValue(t *testing.T) {
	st := State{CurrentStep: StepProfileJurusan, Collected: map[string]string{}}
	opts := BuildOptions(StepProfileJurusan, academic.ProfileHints{})
	manual := opts[len(opts)-1]
	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(manual.ID)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.Accepted || out.Reason != ReasonManualPrompt {
		t.Fatalf("expected manual prompt, got %#v", out)
	}
	if out.Message != "Silakan ketik jurusan kamu." {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestAdvanceGoalsCareerBranch(t *testing.T) {
	st := State{CurrentStep: StepGoals, Collected: map[string]string{}}
	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(4)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.State.CurrentStep != StepCareer {
		t.Fatalf("expected career, got %s", out.State.CurrentStep)
	}
	found := false
	for _, o := range out.State.PendingOptions {
		if o.Label == "Software Engineer" {
			found = true
		}
	}
	if !found {
		t.Fatalf("career options missing Software Engineer: %#v", out.State.PendingOptions)
	}
}

func TestAdvanceReviewGenerateAndSaveEvents(t *testing.T) {
	st := State{CurrentStep: StepReview, Collected: map[string]string{}}
	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(1)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.State.CurrentStep != StepGenerate || out.Event != EventGenerate {
		t.Fatalf("expected generate, got %#v", out)
	}

	regen, err := Machine{}.Advance(out.State, Answer{OptionID: intPtr(1)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if regen.State.CurrentStep != StepGenerate || regen.State.Collected[FieldBalancePref] != "Padat" {
		t.Fatalf("expected padat regenerate, got %#v", regen.State)
	}

	saved, err := Machine{}.Advance(out.State, Answer{OptionID: intPtr(4)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if saved.State.CurrentStep != StepSave || saved.Event != EventSave {
		t.Fatalf("expected save, got %#v", saved)
	}

	again, err := Machine{}.Advance(saved.State, Answer{OptionID: intPtr(1)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if again.Accepted || again.Reason != ReasonTerminal {
		t.Fatalf("expected terminal rejection, got %#v", again)
	}
}

func TestAdvanceIterateLoopsBack(t *testing.T) {
	st := State{CurrentStep: StepIterate, Collected: map[string]string{FieldJurusan: "Informatika"}}
	out, err := Machine{}.Advance(st, Answer{OptionID: intPtr(2)}, Env{})
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if out.State.CurrentStep != StepProfileSemester {
		t.Fatalf("expected profile_semester, got %s", out.State.CurrentStep)
	}
	if out.State.Collected[FieldJurusan] != "Informatika" {
		t.Fatalf("collected lost: %#v", out.State.Collected)
	}
}

func TestAdvanceUnknownStepIsIllegal(t *testing.T) {
	_, err := Machine{}.Advance(State{CurrentStep: Step("bogus")}, Answer{Message: "1"}, Env{})
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestTransitionTableTargetsAreKnownSteps(t *testing.T) {
	for step, tr := range transitions {
		for _, next := range tr.next {
			if !next.Valid() {
				t.Fatalf("%s -> unknown step %s", step, next)
			}
		}
		for _, o := range BuildOptions(step, academic.ProfileHints{}) {
			if o.manual {
				continue
			}
			if !tr.allows(o.next) {
				t.Fatalf("%s option %q leads to disallowed %s", step, o.Label, o.next)
			}
		}
		if tr.custom != nil && !tr.allows(tr.customNext) {
			t.Fatalf("%s custom text leads to disallowed %s", step, tr.customNext)
		}
	}
}

func TestDynamicOptionsPutHintsFirst(t *testing.T) {
	hints := academic.ProfileHints{
		CareerCandidates: []academic.CandidateHint{{Value: "Data Scientist", Label: "Data Scientist"}},
	}
	opts := BuildOptions(StepCareer, hints)
	if opts[0].Label != "Data Scientist" || opts[0].ID != 1 {
		t.Fatalf("expected hinted career first, got %#v", opts[0])
	}
	count := 0
	for _, o := range opts {
		if o.Label == "Data Scientist" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("hinted label duplicated %d times", count)
	}
	if last := opts[len(opts)-1]; last.Label != "Ketik target karir sendiri" {
		t.Fatalf("expected manual option last, got %q", last.Label)
	}
}

func TestSemesterOptionsDedupeHints(t *testing.T) {
	hints := academic.ProfileHints{SemesterCandidates: []academic.SemesterHint{{Value: 5}, {Value: 10}}}
	opts := BuildOptions(StepProfileSemester, hints)
	if opts[0].Label != "Semester 5" || opts[1].Label != "Semester 10" {
		t.Fatalf("unexpected leading options %#v", opts[:2])
	}
	// 2 hinted + 7 remaining defaults + manual
	if len(opts) != 10 {
		t.Fatalf("expected 10 options, got %d", len(opts))
	}
}

func TestSummaryListsCollectedFieldsInOrder(t *testing.T) {
	st := State{Collected: map[string]string{FieldSemester: "5", FieldJurusan: "Informatika"}}
	want := "- Jurusan: Informatika\n- Semester: 5"
	if got := Summary(st); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
