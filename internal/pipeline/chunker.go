package pipeline

import (
	"unicode"
)

const (
	DefaultChunkSize    = 2000
	DefaultChunkOverlap = 200
)

// SplitText cuts text into chunks of at most maxSize runes, splitting at the
// most natural break point available inside the window: a blank line, then a
// single line break, then a sentence terminator followed by a space, then a
// plain space, then a hard cut at maxSize. Chunks are contiguous; leading
// whitespace and periods are trimmed from each new start.
//
// The overlap parameter is accepted but the cursor advances to the split
// point; it does not rewind to re-include trailing context.
func SplitText(text string, maxSize, overlap int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	_ = overlap

	runes := []rune(text)
	if len(runes) <= maxSize {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxSize {
		cut := findSplit(runes[:maxSize])
		chunks = append(chunks, string(runes[:cut]))
		runes = trimChunkStart(runes[cut:])
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// findSplit returns the index just past the best break point in the window.
// The result is always at least 1 so the caller makes progress.
func findSplit(window []rune) int {
	n := len(window)

	for i := n - 2; i >= 1; i-- {
		if window[i] == '\n' && window[i+1] == '\n' {
			return i + 2
		}
	}
	for i := n - 1; i >= 1; i-- {
		if window[i] == '\n' {
			return i + 1
		}
	}
	for i := n - 2; i >= 1; i-- {
		if isSentenceEnd(window[i]) && window[i+1] == ' ' {
			return i + 2
		}
	}
	for i := n - 1; i >= 1; i-- {
		if window[i] == ' ' {
			return i + 1
		}
	}
	return n
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func trimChunkStart(runes []rune) []rune {
	i := 0
	for i < len(runes) && (unicode.IsSpace(runes[i]) || runes[i] == '.') {
		i++
	}
	return runes[i:]
}
