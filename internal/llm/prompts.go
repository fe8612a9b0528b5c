package llm

import (
	_ "embed"
	"fmt"
	"strings"

	"planner-backend/internal/academic"
)

var (
	//go:embed prompts/planner_output.txt
	plannerOutputTemplate string
	//go:embed prompts/chatbot.txt
	chatbotSystemPrompt string
)

const (
	maxContextFragments = 20
	missingValue        = "-"
	noContext           = "(tidak ada dokumen)"
	noRescue            = "Tidak ada mata kuliah dengan nilai D/E/T yang terdeteksi."
)

var plannerFields = []string{"jurusan", "semester", "goal", "career", "time_pref", "free_day", "balance_pref"}

// PlannerPrompt fills the plan template. Missing fields render as "-".
func PlannerPrompt(fields map[string]string, rescue academic.GradeRescueData, docs []academic.Fragment) string {
	pairs := make([]string, 0, 2*len(plannerFields)+4)
	for _, f := range plannerFields {
		v := strings.TrimSpace(fields[f])
		if v == "" {
			v = missingValue
		}
		pairs = append(pairs, "{"+f+"}", v)
	}
	pairs = append(pairs, "{context}", DocumentContext(docs), "{grade_rescue_data}", rescueText(rescue))
	return strings.NewReplacer(pairs...).Replace(plannerOutputTemplate)
}

// ChatSystemPrompt returns the system prompt for plain chat answers.
func ChatSystemPrompt() string {
	return chatbotSystemPrompt
}

// ChatUserPrompt combines retrieved context and the question.
func ChatUserPrompt(question string, docs []academic.Fragment) string {
	return fmt.Sprintf("KONTEKS DOKUMEN USER:\n%s\n\nPERTANYAAN USER:\n%s", DocumentContext(docs), strings.TrimSpace(question))
}

// DocumentContext renders fragments as source-tagged blocks.
func DocumentContext(docs []academic.Fragment) string {
	if len(docs) == 0 {
		return noContext
	}
	if len(docs) > maxContextFragments {
		docs = docs[:maxContextFragments]
	}
	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		blocks = append(blocks, fmt.Sprintf("[source: %s]\n%s", d.Source, strings.TrimSpace(d.Text)))
	}
	return strings.Join(blocks, "\n\n")
}

func rescueText(r academic.GradeRescueData) string {
	if r.Count == 0 {
		return noRescue
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Jumlah mata kuliah perlu perbaikan: %d\n", r.Count)
	for _, c := range r.Courses {
		fmt.Fprintf(&b, "- %s (nilai %s) [source: %s]\n", c.Course, c.Grade, c.Source)
	}
	return strings.TrimRight(b.String(), "\n")
}
