package normalize

import "strings"

const fence = "```"

// Метки языка, которые модель любит ставить после открывающего ```
var fenceLabels = []string{"json", "sql"}

// StripFences убирает ``` в начале и в конце текста.
// Открывающая строка вида ```json удаляется целиком, а в однострочном
// варианте ```[...]``` срезаются только сами маркеры.
func StripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, fence) && !strings.HasSuffix(s, fence) {
		return s
	}

	lines := strings.Split(s, "\n")

	first := strings.TrimSpace(lines[0])
	if strings.HasPrefix(first, fence) {
		rest := strings.TrimPrefix(first, fence)
		if isFenceLabel(rest) {
			lines = lines[1:]
		} else {
			lines[0] = trimFenceLabel(rest)
		}
	}

	if n := len(lines); n > 0 {
		last := strings.TrimSpace(lines[n-1])
		if strings.HasSuffix(last, fence) {
			rest := strings.TrimSuffix(last, fence)
			if strings.TrimSpace(rest) == "" {
				lines = lines[:n-1]
			} else {
				lines[n-1] = rest
			}
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Строка после ``` состоит только из метки языка (или пустая)
func isFenceLabel(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}

	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}

	return true
}

func trimFenceLabel(s string) string {
	lower := strings.ToLower(s)
	for _, label := range fenceLabels {
		if strings.HasPrefix(lower, label) {
			return strings.TrimSpace(s[len(label):])
		}
	}

	return strings.TrimSpace(s)
}
