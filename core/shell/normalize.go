package shell

import "strings"

// Normalize cleans up a raw input line.
//
// A trailing line terminator is removed and each backspace deletes the rune
// before it. Backspaces with nothing left to delete are dropped.
func Normalize(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	if !strings.ContainsRune(line, '\b') {
		return line
	}

	out := make([]rune, 0, len(line))
	for _, r := range line {
		if r != '\b' {
			out = append(out, r)
			continue
		}
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}
	return string(out)
}
