package academic

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	MajorFieldPattern  = regexp.MustCompile(`(?i)(program studi|prodi|jurusan)\s*[:\-]?\s*([^\n\r,.;]{3,80})`)
	CareerFieldPattern = regexp.MustCompile(`(?i)(target karir|career|tujuan karir)\s*[:\-]?\s*([^\n\r,.;]{3,80})`)
	SemesterPattern    = regexp.MustCompile(`(?i)\b(?:semester|smt|sem)\s*[:\-]?\s*(\d{1,2})\b`)
)

// Normalize collapses whitespace and lowercases.
func Normalize(text string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), " ")
}

// Scanner scores one fragment against a taxonomy. Explicit may be nil;
// when set, its second capture group holds the declared value.
type Scanner struct {
	Taxonomy    Taxonomy
	Explicit    *regexp.Regexp
	Calibration Calibration
}

// Scan never fails: text without hits yields an empty tally.
func (s Scanner) Scan(source, text string) Tally {
	cal := s.Calibration
	out := Tally{}
	low := Normalize(text)

	if s.Explicit != nil {
		for _, m := range s.Explicit.FindAllStringSubmatch(text, -1) {
			if len(m) < 3 {
				continue
			}
			declared := Normalize(m[2])
			for _, label := range s.Taxonomy.Labels() {
				if containsAnyAlias(declared, label.Aliases) {
					out.Add(label.Name, cal.ExplicitWeight, s.snippet(source, m[0]), cal.MaxEvidence)
				}
			}
		}
	}

	for _, label := range s.Taxonomy.Labels() {
		for _, alias := range label.Aliases {
			if strings.Contains(low, Normalize(alias)) {
				out.Add(label.Name, cal.AliasWeight, s.snippet(source, alias), cal.MaxEvidence)
				break
			}
		}
	}
	return out
}

func (s Scanner) snippet(source, match string) string {
	return truncate(fmt.Sprintf("%s: %s", source, match), s.Calibration.EvidenceChars)
}

func containsAnyAlias(text string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(text, Normalize(alias)) {
			return true
		}
	}
	return false
}

// semesterKey zero-pads so lexical key order matches numeric order.
func semesterKey(n int) string {
	return fmt.Sprintf("%02d", n)
}

// ScanSemesters credits every in-range semester mention; each match counts.
func ScanSemesters(source, text string, cal Calibration) Tally {
	out := Tally{}
	for _, m := range SemesterPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < cal.SemesterMin || n > cal.SemesterMax {
			continue
		}
		out.Add(semesterKey(n), cal.SemesterWeight, truncate(source+": "+m[0], cal.EvidenceChars), cal.MaxEvidence)
	}
	return out
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars])
}
