package academic

import "strings"

var (
	transcriptMarkers = []string{"transkrip", "nilai", "transcript", "khs"}
	scheduleMarkers   = []string{"jadwal", "krs", "schedule"}
	curriculumMarkers = []string{"kurikulum", "curriculum", "silabus"}
)

// DataLevel is the coarse readiness of a document set.
type DataLevel struct {
	Level         int  `json:"level"`
	HasTranscript bool `json:"has_transcript"`
	HasSchedule   bool `json:"has_schedule"`
	HasCurriculum bool `json:"has_curriculum"`
}

// DetectDataLevel classifies document titles:
// 3 transcript and schedule, 2 exactly one of them, 1 any other documents, 0 none.
func DetectDataLevel(titles []string) DataLevel {
	var dl DataLevel
	docs := 0
	for _, t := range titles {
		low := strings.ToLower(t)
		if strings.TrimSpace(low) == "" {
			continue
		}
		docs++
		dl.HasTranscript = dl.HasTranscript || containsAny(low, transcriptMarkers)
		dl.HasSchedule = dl.HasSchedule || containsAny(low, scheduleMarkers)
		dl.HasCurriculum = dl.HasCurriculum || containsAny(low, curriculumMarkers)
	}

	switch {
	case dl.HasTranscript && dl.HasSchedule:
		dl.Level = 3
	case dl.HasTranscript || dl.HasSchedule:
		dl.Level = 2
	case docs > 0:
		dl.Level = 1
	}
	return dl
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
