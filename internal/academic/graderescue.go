package academic

import (
	"strings"
	"unicode"
)

var failingGrades = map[string]struct{}{"D": {}, "D+": {}, "E": {}, "T": {}}

// RescueCourse is a course whose recorded grade needs remediation.
type RescueCourse struct {
	Course string `json:"course"`
	Grade  string `json:"grade"`
	Source string `json:"source"`
}

// GradeRescueData is the remediation summary handed to the narrator.
type GradeRescueData struct {
	Courses []RescueCourse `json:"courses"`
	Count   int            `json:"count"`
}

// GradeRescue scans pipe-separated table rows for failing grade cells.
func GradeRescue(fragments []Fragment) GradeRescueData {
	out := GradeRescueData{Courses: []RescueCourse{}}
	seen := map[string]struct{}{}
	for _, f := range fragments {
		for _, line := range strings.Split(f.Text, "\n") {
			if !strings.Contains(line, "|") {
				continue
			}
			cells := splitCells(line)
			grade, course, best := "", "", 2
			for _, cell := range cells {
				upper := strings.ToUpper(cell)
				if _, ok := failingGrades[upper]; ok && grade == "" {
					grade = upper
					continue
				}
				if n := letterCount(cell); n > best {
					course, best = cell, n
				}
			}
			if grade == "" || course == "" {
				continue
			}
			key := strings.ToLower(course) + "|" + grade
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out.Courses = append(out.Courses, RescueCourse{Course: course, Grade: grade, Source: f.Source})
		}
	}
	out.Count = len(out.Courses)
	return out
}

func splitCells(line string) []string {
	raw := strings.Split(line, "|")
	cells := make([]string, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
