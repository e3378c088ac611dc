package extension

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

const probeTimeout = 2 * time.Second

// validateDomains checks download domains against RFC 1123 host name rules.
// Wildcards and URLs are rejected; only bare host names are allowed.
func validateDomains(domains []string) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool)
	for i, d := range domains {
		path := fmt.Sprintf("/requirements/domains/%d", i)
		if seen[d] {
			issues = append(issues, ValidationIssue{
				Path:    path,
				Message: fmt.Sprintf("duplicate domain %q", d),
			})
			continue
		}
		seen[d] = true
		if msg := checkHostname(d); msg != "" {
			issues = append(issues, ValidationIssue{
				Path:    path,
				Message: fmt.Sprintf("invalid domain %q: %s", d, msg),
			})
		}
	}
	return issues
}

// checkHostname returns a non-empty reason when name is not a valid
// RFC 1123 host name. The name must be a multi-label FQDN.
func checkHostname(name string) string {
	if name == "" {
		return "empty"
	}
	if len(name) > 253 {
		return "longer than 253 characters"
	}
	if strings.Contains(name, "://") || strings.Contains(name, "/") {
		return "must be a bare host name, not a URL"
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return "must not start or end with a dot"
	}
	if !strings.Contains(name, ".") {
		return "must be fully qualified"
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return "contains an empty label"
		}
		if len(label) > 63 {
			return fmt.Sprintf("label %q longer than 63 characters", label)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Sprintf("label %q must not start or end with a hyphen", label)
		}
		for _, r := range label {
			if !isHostnameRune(r) {
				return fmt.Sprintf("label %q contains invalid character %q", label, r)
			}
		}
	}
	return ""
}

func isHostnameRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-'
}

// ProbeDomains resolves each domain and returns a warning per domain that
// does not resolve. Probe failures are advisory; the environment may be
// offline or behind a resolver that blocks lookups, so callers must never
// treat them as validation errors.
func ProbeDomains(ctx context.Context, domains []string) []string {
	var warnings []string
	resolver := &net.Resolver{}
	for _, d := range domains {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		_, err := resolver.LookupHost(probeCtx, d)
		cancel()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("domain %s did not resolve: %v", d, err))
		}
	}
	return warnings
}
