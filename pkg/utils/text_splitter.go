package utils

import "unicode"

// SplitText cuts text into chunks of at most chunkSize runes, repeating
// overlap runes between neighbours so sentences keep their context
// across a boundary. A chunk prefers to end on whitespace when a break
// is within the overlap window; mid-word cuts happen only when the
// window has no whitespace at all.
func SplitText(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	if chunkSize <= 0 || len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := end
		for cut > start+step && !unicode.IsSpace(runes[cut-1]) {
			cut--
		}
		if cut == start+step {
			cut = end
		}
		chunks = append(chunks, string(runes[start:cut]))
	}
	return chunks
}
