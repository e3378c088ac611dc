package extension

import "regexp"

// namePattern is the closed-form identifier pattern enforced before any
// externally-supplied name reaches a serializer. Names are lowercase
// alphanumerics and hyphens only; this keeps manifest and BOM documents
// free of structural-injection characters regardless of how downstream
// tooling parses them.
var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// allHyphens rejects degenerate names like "---".
var allHyphens = regexp.MustCompile(`^-+$`)

// ValidName reports whether name is a safe extension identifier.
func ValidName(name string) bool {
	return namePattern.MatchString(name) && !allHyphens.MatchString(name)
}
