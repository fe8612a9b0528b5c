package planner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Step is one stage of the planner conversation.
type Step string

const (
	StepData            Step = "data"
	StepProfileJurusan  Step = "profile_jurusan"
	StepProfileSemester Step = "profile_semester"
	StepGoals           Step = "goals"
	StepCareer          Step = "career"
	StepPrefTime        Step = "pref_time"
	StepPrefFreeDay     Step = "pref_free_day"
	StepPrefBalance     Step = "pref_balance"
	StepReview          Step = "review"
	StepGenerate        Step = "generate"
	StepIterate         Step = "iterate"
	StepSave            Step = "save"
)

// Steps lists every step in conversation order.
var Steps = []Step{
	StepData, StepProfileJurusan, StepProfileSemester, StepGoals, StepCareer,
	StepPrefTime, StepPrefFreeDay, StepPrefBalance, StepReview, StepGenerate, StepIterate, StepSave,
}

func (s Step) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Step) Terminal() bool {
	return s == StepSave
}

// Field names a value collected by the planner.
const (
	FieldDataSource  = "data_source"
	FieldJurusan     = "jurusan"
	FieldSemester    = "semester"
	FieldGoal        = "goal"
	FieldCareer      = "career"
	FieldTimePref    = "time_pref"
	FieldFreeDay     = "free_day"
	FieldBalancePref = "balance_pref"
)

// Precondition tags an option that is only selectable in some contexts.
type Precondition string

const RequiresEmbeddedDocument Precondition = "has_embedded_document"

// customPolicy validates free text typed at a step and returns the value to store.
type customPolicy func(text string) (string, bool)

type transition struct {
	field  string
	next   []Step
	prompt string
	// custom is nil when the step only accepts its options.
	custom     customPolicy
	customNext Step
	// clears lists fields dropped from collected when moving to a given step.
	clears map[Step][]string
}

func (t transition) allows(next Step) bool {
	for _, s := range t.next {
		if s == next {
			return true
		}
	}
	return false
}

var transitions = map[Step]transition{
	StepData: {
		field:  FieldDataSource,
		next:   []Step{StepProfileJurusan},
		prompt: "Mau pakai data dari mana untuk menyusun rencana studi?",
	},
	StepProfileJurusan: {
		field:      FieldJurusan,
		next:       []Step{StepProfileSemester},
		prompt:     "Apa jurusan atau program studi kamu?",
		custom:     freeText(2, 80),
		customNext: StepProfileSemester,
	},
	StepProfileSemester: {
		field:      FieldSemester,
		next:       []Step{StepGoals},
		prompt:     "Sekarang kamu semester berapa?",
		custom:     semesterText,
		customNext: StepGoals,
	},
	StepGoals: {
		field:      FieldGoal,
		next:       []Step{StepPrefTime, StepCareer},
		prompt:     "Apa tujuan utama kamu semester ini?",
		custom:     freeText(2, 120),
		customNext: StepPrefTime,
		clears:     map[Step][]string{StepPrefTime: {FieldCareer}},
	},
	StepCareer: {
		field:      FieldCareer,
		next:       []Step{StepPrefTime},
		prompt:     "Karir apa yang ingin kamu siapkan?",
		custom:     freeText(2, 80),
		customNext: StepPrefTime,
	},
	StepPrefTime: {
		field:  FieldTimePref,
		next:   []Step{StepPrefFreeDay},
		prompt: "Kamu paling produktif belajar di waktu apa?",
	},
	StepPrefFreeDay: {
		field:      FieldFreeDay,
		next:       []Step{StepPrefBalance},
		prompt:     "Mau ada hari yang dikosongkan dari kuliah?",
		custom:     weekdayText,
		customNext: StepPrefBalance,
	},
	StepPrefBalance: {
		field:  FieldBalancePref,
		next:   []Step{StepReview},
		prompt: "Seberapa padat jadwal yang kamu inginkan?",
	},
	StepReview: {
		next:   []Step{StepGenerate, StepIterate},
		prompt: "Cek lagi data kamu. Susun rencana sekarang?",
	},
	StepGenerate: {
		field:  FieldBalancePref,
		next:   []Step{StepGenerate, StepIterate, StepSave},
		prompt: "Rencana sudah disusun. Pilih langkah selanjutnya:",
	},
	StepIterate: {
		next:   []Step{StepProfileJurusan, StepProfileSemester, StepGoals, StepPrefTime, StepGenerate, StepSave},
		prompt: "Bagian mana yang mau kamu ubah?",
	},
	StepSave: {
		prompt: "Rencana studi kamu sudah tersimpan.",
	},
}

// fieldLabels names fields in user-facing text.
var fieldLabels = map[string]string{
	FieldJurusan:  "jurusan",
	FieldSemester: "semester",
	FieldGoal:     "tujuan",
	FieldCareer:   "target karir",
	FieldFreeDay:  "hari kosong",
}

func freeText(minLen, maxLen int) customPolicy {
	return func(text string) (string, bool) {
		text = strings.Join(strings.Fields(text), " ")
		n := len([]rune(text))
		if n < minLen || n > maxLen {
			return "", false
		}
		return text, strings.IndexFunc(text, unicode.IsLetter) >= 0
	}
}

// semesterText accepts any text containing a single semester number 1-14.
func semesterText(text string) (string, bool) {
	digits := strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsDigit(r) })
	if len(digits) != 1 {
		return "", false
	}
	n, err := strconv.Atoi(digits[0])
	if err != nil || n < 1 || n > 14 {
		return "", false
	}
	return strconv.Itoa(n), true
}

var weekdays = []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

func weekdayText(text string) (string, bool) {
	low := strings.ToLower(strings.TrimSpace(text))
	for _, d := range weekdays {
		if strings.Contains(low, strings.ToLower(d)) {
			return d, true
		}
	}
	return "", false
}

// semesterLabel renders a stored semester value.
func semesterLabel(v string) string {
	return fmt.Sprintf("Semester %s", v)
}
