package validation

import "fmt"

// Summary counts messages by class.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
}

// Counts tallies msgs.
func Counts(msgs []Message) Summary {
	var s Summary
	for _, m := range msgs {
		switch m.Type {
		case TypeError:
			s.Errors++
		case TypeWarning:
			s.Warnings++
		case TypeInfo:
			s.Infos++
		}
	}
	return s
}

// Headline is the one-line badge text for the most severe class present.
func (s Summary) Headline() string {
	switch {
	case s.Errors > 0:
		return fmt.Sprintf("%d %s", s.Errors, plural(s.Errors, "issue"))
	case s.Warnings > 0:
		return fmt.Sprintf("%d %s", s.Warnings, plural(s.Warnings, "warning"))
	default:
		return fmt.Sprintf("%d info", s.Infos)
	}
}

// MoreLine is the footer shown under a truncated list, or "" when nothing
// was cut.
func MoreLine(remaining int) string {
	if remaining <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more messages", remaining)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
