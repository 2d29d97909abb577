package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcoot/musikspil/internal/model"
)

// MinYear is the lowest year the stepper reaches
const MinYear = 1800

const maxYearDigits = 4

// SanitizeYear keeps only digits, at most four
func SanitizeYear(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if b.Len() == maxYearDigits {
			break
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ClampYear bounds y to [MinYear, currentYear]
func ClampYear(y, currentYear int) int {
	return max(MinYear, min(currentYear, y))
}

// ParseYear validates a guess. Empty and non-numeric input are distinct errors.
func ParseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, model.ErrEmptyYear
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.ErrInvalidYear
	}
	return year, nil
}

// Decades returns the quick-pick years from the 1950s up to currentYear's decade
func Decades(currentYear int) []int {
	var out []int
	for y := 1950; y <= currentYear; y += 10 {
		out = append(out, y)
	}
	return out
}

// YearInput is the typed-but-unsubmitted guess
type YearInput struct {
	draft string
}

// Value returns the current draft
func (y *YearInput) Value() string {
	return y.draft
}

// Set replaces the draft with the sanitized input
func (y *YearInput) Set(raw string) {
	y.draft = SanitizeYear(raw)
}

// Clear empties the draft
func (y *YearInput) Clear() {
	y.draft = ""
}

// Step moves the draft by delta years, starting from currentYear when empty
func (y *YearInput) Step(delta, currentYear int) {
	base := currentYear
	if y.draft != "" {
		if n, err := strconv.Atoi(y.draft); err == nil {
			base = n
		}
	}
	y.draft = strconv.Itoa(ClampYear(base+delta, currentYear))
}

// Apply interprets one edit command:
// "+N" or "-N" steps, "1980s" picks a decade, anything else is typed input.
func (y *YearInput) Apply(arg string, currentYear int) error {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return model.ErrEmptyYear
	case strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-"):
		delta, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("%w: %q", model.ErrInvalidYear, arg)
		}
		y.Step(delta, currentYear)
	case strings.HasSuffix(arg, "s"):
		decade, err := strconv.Atoi(strings.TrimSuffix(arg, "s"))
		if err != nil || decade < MinYear {
			return fmt.Errorf("%w: %q", model.ErrInvalidYear, arg)
		}
		y.Set(strconv.Itoa(decade - decade%10))
	default:
		y.Set(arg)
	}
	return nil
}
