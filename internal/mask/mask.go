// Package mask validates, formats and generates hierarchical account codes
// against a user-defined digit mask such as "9.9.99.999". Each dot-separated
// run of '9' fixes the digit width of the code segment at that depth.
package mask

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rfarias/partida/internal/errs"
)

// Placeholder fills incomplete trailing segments produced by Format.
const Placeholder = '_'

// MaxSegments caps the hierarchy depth a mask may define.
const MaxSegments = 6

var reMask = regexp.MustCompile(`^9+(\.9+)*$`)

// ValidateMask reports whether mask is a well-formed definition:
// runs of '9' separated by '.', between 1 and 6 segments.
func ValidateMask(mask string) bool {
	if !reMask.MatchString(mask) {
		return false
	}
	return strings.Count(mask, ".")+1 <= MaxSegments
}

// Validate reports whether code follows mask. Partial (ancestor) codes are
// accepted: the code may have fewer segments than the mask, never more, and
// every present segment must be all digits with the exact mask width.
func Validate(code, mask string) bool {
	code = strings.TrimSpace(code)
	maskParts := strings.Split(mask, ".")
	codeParts := strings.Split(code, ".")
	if len(codeParts) > len(maskParts) {
		return false
	}
	for i, part := range codeParts {
		if len(part) != len(maskParts[i]) {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// NextCode computes the next unused direct-child code under parent. An empty
// parent means the root level. It scans existing for direct children, takes
// the highest last-segment value and increments it, zero-padded to the mask
// width at that depth.
//
// It fails with errs.ErrDepthExceeded when parent is already at the deepest
// mask level, and with errs.ErrCodeOverflow when the segment's digit width is
// exhausted.
func NextCode(parent string, existing []string, mask string) (string, error) {
	maskParts := strings.Split(mask, ".")
	root := parent == ""
	depth := 0
	if !root {
		depth = len(strings.Split(parent, "."))
	}
	if depth >= len(maskParts) {
		return "", errs.ErrDepthExceeded
	}

	highest := 0
	for _, code := range existing {
		parts := strings.Split(code, ".")
		if len(parts) != depth+1 {
			continue
		}
		if !root && strings.Join(parts[:depth], ".") != parent {
			continue
		}
		n, err := strconv.Atoi(parts[depth])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	width := len(maskParts[depth])
	next := highest + 1
	if len(strconv.Itoa(next)) > width {
		return "", errs.ErrCodeOverflow
	}
	segment := pad(strconv.Itoa(next), width)
	if root {
		return segment, nil
	}
	return parent + "." + segment, nil
}

// Format rebuilds a dotted code from free user input: it strips non-digits,
// truncates to the mask's digit budget (only the first segment when rootOnly),
// re-inserts '.' separators and pads the incomplete trailing segment with
// Placeholder, stopping at the first empty segment.
func Format(input, mask string, rootOnly bool) string {
	digits := Digits(input)
	maskParts := strings.Split(mask, ".")

	if rootOnly {
		width := len(maskParts[0])
		if len(digits) > width {
			digits = digits[:width]
		}
		return digits + strings.Repeat(string(Placeholder), width-len(digits))
	}

	if total := TotalDigits(mask); len(digits) > total {
		digits = digits[:total]
	}

	var b strings.Builder
	idx := 0
	for _, part := range maskParts {
		width := len(part)
		end := idx + width
		if end > len(digits) {
			end = len(digits)
		}
		segment := digits[idx:end]
		idx = end
		if segment == "" {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
		for i := len(segment); i < width; i++ {
			b.WriteByte(Placeholder)
		}
	}
	return b.String()
}

// IsComplete reports whether a formatted code has no placeholder left.
func IsComplete(code string) bool {
	return !strings.ContainsRune(code, Placeholder)
}

// Level returns the zero-based depth of a code (root = 0).
func Level(code string) int {
	return strings.Count(code, ".")
}

// Parent returns the parent code, or false for a root code.
func Parent(code string) (string, bool) {
	i := strings.LastIndex(code, ".")
	if i < 0 {
		return "", false
	}
	return code[:i], true
}

// TotalDigits returns the digit budget of the whole mask.
func TotalDigits(mask string) int {
	return len(mask) - strings.Count(mask, ".")
}

// Digits strips everything that is not a decimal digit.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Example produces a sample code for a mask, e.g. "9.9.99.999" -> "1.2.03.004".
func Example(mask string) string {
	parts := strings.Split(mask, ".")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = pad(strconv.Itoa(i+1), len(part))
	}
	return strings.Join(out, ".")
}

var levelNames = []string{"Class", "Subclass", "Group", "Subgroup", "Account", "Subaccount"}

// Describe renders a human-readable summary of the mask levels.
func Describe(mask string) string {
	parts := strings.Split(mask, ".")
	out := make([]string, len(parts))
	for i, part := range parts {
		name := "Level " + strconv.Itoa(i+1)
		if i < len(levelNames) {
			name = levelNames[i]
		}
		plural := ""
		if len(part) > 1 {
			plural = "s"
		}
		out[i] = name + " (" + strconv.Itoa(len(part)) + " digit" + plural + ")"
	}
	return strings.Join(out, " > ")
}

func pad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
