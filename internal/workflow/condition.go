package workflow

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Branch keys produced by file_exists conditions.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// EvalContext supplies the inputs a condition may inspect: the active
// run-state metadata and, implicitly, the process filesystem. File reads are
// never cached; every evaluation reflects the filesystem at call time, so the
// same condition can resolve differently across successive transitions as the
// external signal changes.
type EvalContext struct {
	Metadata map[string]any
}

// Evaluate resolves a condition to a branch key. The second return value is
// false when the condition yields no match: the source file is missing or
// unreadable, the metadata key is absent, or the pattern does not match.
//
// file_exists never yields no-match; it always returns "true" or "false".
// Filesystem errors are treated as absence, never propagated.
func Evaluate(cond Condition, ctx EvalContext) (string, bool) {
	if cond.Type == ConditionFileExists {
		if fileReadable(cond.Source) {
			return BranchTrue, true
		}
		return BranchFalse, true
	}

	raw, ok := extractValue(cond, ctx)
	if !ok {
		return "", false
	}
	return classifyValue(raw, cond.Pattern)
}

// extractValue performs the I/O half of evaluation: it pulls the raw string
// value out of the condition's source without applying any pattern.
func extractValue(cond Condition, ctx EvalContext) (string, bool) {
	switch cond.Type {
	case ConditionFileContent:
		data, err := os.ReadFile(cond.Source)
		if err != nil {
			return "", false
		}
		return trimTrailingNewline(string(data)), true

	case ConditionMetadataValue:
		v, ok := ctx.Metadata[cond.Source]
		if !ok {
			return "", false
		}
		return stringifyMetadata(v), true

	default:
		return "", false
	}
}

// classifyValue performs the matching half of evaluation: it turns a raw
// value into a branch key via the pattern. With no pattern the raw value is
// the branch key verbatim. With a pattern, the key is the first capture
// group when one exists, otherwise the full match. A non-matching or
// non-compiling pattern yields no match.
func classifyValue(raw, pattern string) (string, bool) {
	if pattern == "" {
		return raw, true
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		// Validation rejects bad patterns at definition load; a compile
		// failure here resolves as no-match rather than aborting the
		// transition.
		return "", false
	}

	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	if len(m) > 1 {
		return m[1], true
	}
	return m[0], true
}

// fileReadable reports whether the file at path exists and can be opened for
// reading. Permission errors and other stat failures count as not readable.
func fileReadable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close() //nolint:errcheck
	return true
}

// trimTrailingNewline strips a single trailing line terminator ("\n" or
// "\r\n") from s, leaving any earlier newlines intact.
func trimTrailingNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// stringifyMetadata renders an arbitrary metadata value the way the
// metadata_value condition matches it: fmt's default formatting, so strings
// pass through unchanged and scalars render naturally.
func stringifyMetadata(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
