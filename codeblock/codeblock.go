// Package codeblock separates executable code from the prose a model wraps
// around it.
package codeblock

import "strings"

// Fence markers recognized on the first line of a response.
const (
	BacktickFence = "```"
	QuoteFence    = `"""`
)

// Block is the result of splitting generated text.
type Block struct {
	// Code is the text to execute.
	Code string
	// Explanation is the trimmed prose found after the closing fence, if any.
	Explanation string
	// Fenced reports whether the text opened with a fence line.
	Fenced bool
}

// HasExplanation reports whether any explanation was captured.
func (b Block) HasExplanation() bool {
	return b.Explanation != ""
}

// Extract splits generated text into code and explanation.
//
// When the first line contains a fence marker, that line is dropped and the
// code runs until the first later line containing the same marker. Anything
// after that line is explanation. A missing closing fence makes the rest of
// the text code. Text that does not open with a fence is all code.
//
// A first line consisting only of a """ marker (optionally followed by a
// language tag) is treated like a backtick fence. Code that opens with a bare """
// docstring line is therefore read as fenced: the opening line is dropped
// and the closing """ ends the code.
func Extract(text string) Block {
	lines := strings.Split(text, "\n")

	marker := fenceMarker(lines[0])
	if marker == "" {
		return Block{Code: text}
	}

	lines = lines[1:]
	var explanation []string
	for i, line := range lines {
		if strings.Contains(line, marker) {
			explanation = lines[i+1:]
			lines = lines[:i]
			break
		}
	}

	return Block{
		Code:        strings.Join(lines, "\n"),
		Explanation: strings.TrimSpace(strings.Join(explanation, "\n")),
		Fenced:      true,
	}
}

func fenceMarker(line string) string {
	if strings.Contains(line, BacktickFence) {
		return BacktickFence
	}
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, QuoteFence) && isLanguageTag(trimmed[len(QuoteFence):]) {
		return QuoteFence
	}
	return ""
}

// isLanguageTag accepts an empty string or a bare word such as "py".
func isLanguageTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
