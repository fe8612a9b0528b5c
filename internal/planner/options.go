package planner

import (
	"strconv"
	"strings"

	"planner-backend/internal/academic"
)

// Option is one numbered choice offered at a step. IDs are 1-based and
// stable within a turn only.
type Option struct {
	ID       int          `json:"id"`
	Label    string       `json:"label"`
	Requires Precondition `json:"requires,omitempty"`

	value  string
	next   Step
	manual bool
}

type optionDef struct {
	label    string
	value    string
	next     Step
	requires Precondition
	manual   bool
}

var staticOptions = map[Step][]optionDef{
	StepData: {
		{label: "Gunakan dokumen akademik yang sudah diupload", value: "documents", next: StepProfileJurusan, requires: RequiresEmbeddedDocument},
		{label: "Isi data manual", value: "manual", next: StepProfileJurusan},
	},
	StepGoals: {
		{label: "Lulus tepat waktu", value: "Lulus tepat waktu", next: StepPrefTime},
		{label: "Perbaiki IPK dan nilai", value: "Perbaiki IPK dan nilai", next: StepPrefTime},
		{label: "Lulus lebih cepat", value: "Lulus lebih cepat", next: StepPrefTime},
		{label: "Fokus persiapan karir", value: "Fokus persiapan karir", next: StepCareer},
	},
	StepPrefTime: {
		{label: "Pagi", value: "Pagi", next: StepPrefFreeDay},
		{label: "Siang", value: "Siang", next: StepPrefFreeDay},
		{label: "Sore-Malam", value: "Sore-Malam", next: StepPrefFreeDay},
		{label: "Fleksibel", value: "Fleksibel", next: StepPrefFreeDay},
	},
	StepPrefFreeDay: {
		{label: "Tidak perlu", value: "Tidak perlu", next: StepPrefBalance},
		{label: "Senin", value: "Senin", next: StepPrefBalance},
		{label: "Jumat", value: "Jumat", next: StepPrefBalance},
		{label: "Sabtu", value: "Sabtu", next: StepPrefBalance},
	},
	StepPrefBalance: {
		{label: "Seimbang", value: "Seimbang", next: StepReview},
		{label: "Padat", value: "Padat", next: StepReview},
		{label: "Santai", value: "Santai", next: StepReview},
	},
	StepReview: {
		{label: "Ya, susun rencana", next: StepGenerate},
		{label: "Ubah data dulu", next: StepIterate},
	},
	StepGenerate: {
		{label: "Buat opsi Padat", value: "Padat", next: StepGenerate},
		{label: "Buat opsi Santai", value: "Santai", next: StepGenerate},
		{label: "Ubah sesuatu", next: StepIterate},
		{label: "Simpan rencana ini", next: StepSave},
	},
	StepIterate: {
		{label: "Ubah jurusan", next: StepProfileJurusan},
		{label: "Ubah semester", next: StepProfileSemester},
		{label: "Ubah tujuan", next: StepGoals},
		{label: "Simpan rencana ini", next: StepSave},
		{label: "Ubah preferensi jadwal", next: StepPrefTime},
		{label: "Susun ulang rencana", next: StepGenerate},
	},
}

const defaultSemesterOptions = 8

// BuildOptions returns the options for step. Profile steps are rebuilt from
// the current hints, so ids and order can change between turns.
func BuildOptions(step Step, hints academic.ProfileHints) []Option {
	var defs []optionDef
	switch step {
	case StepProfileJurusan:
		defs = labelOptions(candidateLabels(hints.MajorCandidates), academic.Majors.Names(), StepProfileSemester)
		defs = append(defs, optionDef{label: "Ketik jurusan sendiri", manual: true})
	case StepCareer:
		defs = labelOptions(candidateLabels(hints.CareerCandidates), academic.Careers.Names(), StepPrefTime)
		defs = append(defs, optionDef{label: "Ketik target karir sendiri", manual: true})
	case StepProfileSemester:
		defs = semesterOptions(hints.SemesterCandidates)
		defs = append(defs, optionDef{label: "Ketik semester lain", manual: true})
	default:
		defs = staticOptions[step]
	}

	out := make([]Option, 0, len(defs))
	for i, d := range defs {
		out = append(out, Option{
			ID:       i + 1,
			Label:    d.label,
			Requires: d.requires,
			value:    d.value,
			next:     d.next,
			manual:   d.manual,
		})
	}
	return out
}

func candidateLabels(c []academic.CandidateHint) []string {
	out := make([]string, 0, len(c))
	for _, h := range c {
		out = append(out, h.Label)
	}
	return out
}

// labelOptions puts hinted labels first, then the rest of the taxonomy.
func labelOptions(hinted, all []string, next Step) []optionDef {
	seen := map[string]struct{}{}
	var defs []optionDef
	for _, group := range [][]string{hinted, all} {
		for _, label := range group {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			defs = append(defs, optionDef{label: label, value: label, next: next})
		}
	}
	return defs
}

func semesterOptions(hinted []academic.SemesterHint) []optionDef {
	seen := map[int]struct{}{}
	var defs []optionDef
	add := func(n int) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		v := strconv.Itoa(n)
		defs = append(defs, optionDef{label: semesterLabel(v), value: v, next: StepGoals})
	}
	for _, h := range hinted {
		add(h.Value)
	}
	for n := 1; n <= defaultSemesterOptions; n++ {
		add(n)
	}
	return defs
}

func findOptionByID(opts []Option, id int) (Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

func findOptionByValue(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if !o.manual && o.value == value {
			return o, true
		}
	}
	return Option{}, false
}

func findOptionByLabel(opts []Option, text string) (Option, bool) {
	norm := normalizeAnswer(text)
	for _, o := range opts {
		if normalizeAnswer(o.Label) == norm {
			return o, true
		}
	}
	return Option{}, false
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
