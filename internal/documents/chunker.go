package documents

import "strings"

const (
	chunkSize    = 800
	chunkOverlap = 100
)

// SplitText cuts text into rune windows of size with overlap shared between
// consecutive windows. Blank windows are skipped.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(strings.TrimSpace(text))
	var out []string
	for start := 0; start < len(runes); start += size - overlap {
		end := min(start+size, len(runes))
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}
