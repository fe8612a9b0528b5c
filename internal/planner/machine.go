package planner

import (
	"fmt"
	"strconv"
	"strings"

	"planner-backend/internal/academic"
)

const (
	MessageEmpty     = "Kamu belum menjawab pertanyaan ini. Pilih salah satu opsi atau ketik jawabanmu."
	MessageUnmatched = "Jawaban belum sesuai opsi. Pilih nomor opsi yang tersedia atau ketik jawaban yang valid."
	MessageSaved     = "Rencana sudah tersimpan. Mulai sesi baru jika ingin menyusun rencana lain."
)

func preconditionMessage(opt Option) string {
	return fmt.Sprintf("Opsi %d memerlukan dokumen akademik yang sudah diproses. Upload dokumen terlebih dahulu atau pilih Isi data manual.", opt.ID)
}

func manualMessage(field string) string {
	return fmt.Sprintf("Silakan ketik %s kamu.", fieldLabels[field])
}

// Answer is one user reply. OptionID wins over Message when both are set.
type Answer struct {
	Message  string
	OptionID *int
}

// Env is what the machine may know about the user's documents this turn.
// It is recomputed on every turn and never stored in State.
type Env struct {
	Hints               academic.ProfileHints
	HasEmbeddedDocument bool
}

// Reason explains why an answer was not accepted.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonEmpty        Reason = "empty"
	ReasonUnmatched    Reason = "unmatched"
	ReasonPrecondition Reason = "precondition"
	ReasonManualPrompt Reason = "manual_prompt"
	ReasonTerminal     Reason = "terminal"
)

// Outcome is the result of applying one answer.
type Outcome struct {
	From     Step
	State    State
	Accepted bool
	Reason   Reason
	Message  string
	// Origin classifies the input: option_select or user_input.
	Origin EventType
	// Event is the type to record; empty unless Accepted.
	Event    EventType
	Selected *Option
	Value    string
}

// Machine sequences planner steps. It never performs I/O.
type Machine struct{}

// Start builds the initial state for a new session. Level 3 document sets
// skip profile collection and pre-fill it from the top candidates.
func (Machine) Start(sessionID, userID string, level academic.DataLevel, env Env) State {
	st := State{
		SessionID:   sessionID,
		UserID:      userID,
		CurrentStep: StepData,
		Collected:   map[string]string{},
		DataLevel:   level,
	}
	if level.Level >= 3 {
		st.CurrentStep = StepGoals
		st.Collected[FieldDataSource] = "documents"
		if major, ok := env.Hints.TopMajor(); ok {
			st.Collected[FieldJurusan] = major
		}
		if sem, ok := env.Hints.TopSemester(); ok {
			st.Collected[FieldSemester] = strconv.Itoa(sem)
		}
	}
	st.PendingOptions = BuildOptions(st.CurrentStep, env.Hints)
	return st
}

// Advance validates ans against the current step and, when accepted,
// returns the advanced state. The input state is never modified.
func (Machine) Advance(state State, ans Answer, env Env) (Outcome, error) {
	from := state.CurrentStep
	tr, ok := transitions[from]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: unknown step %q", ErrIllegalTransition, from)
	}

	msg := strings.TrimSpace(ans.Message)
	out := Outcome{From: from, State: state, Origin: EventUserInput}
	if ans.OptionID != nil {
		out.Origin = EventOptionSelect
	}
	if from.Terminal() {
		return reject(out, ReasonTerminal, MessageSaved), nil
	}
	if ans.OptionID == nil && msg == "" {
		return reject(out, ReasonEmpty, MessageEmpty), nil
	}

	opts := BuildOptions(from, env.Hints)
	opt, matched := matchOption(from, opts, ans, msg)
	if ans.OptionID != nil && !matched {
		return reject(out, ReasonUnmatched, MessageUnmatched), nil
	}

	var value string
	var next Step
	if matched {
		out.Origin = EventOptionSelect
		out.Selected = &opt
		if opt.Requires == RequiresEmbeddedDocument && !env.HasEmbeddedDocument {
			return reject(out, ReasonPrecondition, preconditionMessage(opt)), nil
		}
		if opt.manual {
			return reject(out, ReasonManualPrompt, manualMessage(tr.field)), nil
		}
		value, next = opt.value, opt.next
	} else {
		if tr.custom == nil {
			return reject(out, ReasonUnmatched, MessageUnmatched), nil
		}
		v, ok := tr.custom(msg)
		if !ok {
			return reject(out, ReasonUnmatched, MessageUnmatched), nil
		}
		value, next = v, tr.customNext
	}

	if !tr.allows(next) {
		return Outcome{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, next)
	}

	st := state.Clone()
	if tr.field != "" && value != "" {
		st.Collected[tr.field] = value
	}
	for _, f := range tr.clears[next] {
		delete(st.Collected, f)
	}
	st.CurrentStep = next
	st.PendingOptions = BuildOptions(next, env.Hints)

	out.State = st
	out.Accepted = true
	out.Value = value
	out.Event = eventFor(out.Origin, next)
	return out, nil
}

func reject(out Outcome, reason Reason, message string) Outcome {
	out.Accepted = false
	out.Reason = reason
	out.Message = message
	return out
}

// matchOption resolves an explicit id, a typed number, or a typed label.
// At profile_semester a typed number is a semester, not an option id, since
// hinted semesters come first and shift the ids.
func matchOption(step Step, opts []Option, ans Answer, msg string) (Option, bool) {
	if ans.OptionID != nil {
		return findOptionByID(opts, *ans.OptionID)
	}
	if n, err := strconv.Atoi(msg); err == nil {
		if step == StepProfileSemester {
			return findOptionByValue(opts, strconv.Itoa(n))
		}
		if o, ok := findOptionByID(opts, n); ok {
			return o, true
		}
	}
	return findOptionByLabel(opts, msg)
}

func eventFor(origin EventType, next Step) EventType {
	switch next {
	case StepGenerate:
		return EventGenerate
	case StepSave:
		return EventSave
	default:
		return origin
	}
}

// AllowsCustomInput reports whether free text is accepted at step.
func AllowsCustomInput(step Step) bool {
	return transitions[step].custom != nil
}

// Prompt renders the question for the state's current step.
func Prompt(st State) string {
	tr := transitions[st.CurrentStep]
	if st.CurrentStep == StepReview {
		return tr.prompt + "\n" + Summary(st)
	}
	return tr.prompt
}

var summaryFields = []struct {
	key   string
	label string
}{
	{FieldJurusan, "Jurusan"},
	{FieldSemester, "Semester"},
	{FieldGoal, "Tujuan"},
	{FieldCareer, "Target karir"},
	{FieldTimePref, "Waktu belajar"},
	{FieldFreeDay, "Hari kosong"},
	{FieldBalancePref, "Kepadatan"},
}

// Summary lists the collected fields in a fixed order.
func Summary(st State) string {
	var b strings.Builder
	for _, f := range summaryFields {
		v, ok := st.Collected[f.key]
		if !ok || v == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.label, v)
	}
	return strings.TrimRight(b.String(), "\n")
}
