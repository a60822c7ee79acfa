// Package filterexpr composes NetProfiler traffic filter expressions.
//
// Expressions are opaque strings; nothing here validates their syntax.
// Composition only ANDs parenthesised clauses together.
package filterexpr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bitdogg/EOC-NetProfiler/internal/domain"
)

// Combine ANDs the non-empty expressions together in input order.
//
// All empty yields "". A single non-empty expression is returned as is.
// Two or more are each wrapped in parentheses and joined with " and ":
//
//	Combine("a", "b") == "(a) and (b)"
func Combine(primary string, secondary ...string) string {
	exprs := make([]string, 0, 1+len(secondary))
	if primary != "" {
		exprs = append(exprs, primary)
	}
	for _, s := range secondary {
		if s != "" {
			exprs = append(exprs, s)
		}
	}

	switch len(exprs) {
	case 0:
		return ""
	case 1:
		return exprs[0]
	default:
		return "(" + strings.Join(exprs, ") and (") + ")"
	}
}

// FromCriteria combines the criteria's primary filter with its named
// sub-filters in insertion order.
func FromCriteria(c domain.Criteria) string {
	subs := make([]string, 0, len(c.SubFilterOrder))
	for _, name := range c.SubFilterOrder {
		subs = append(subs, c.SubFilters[name])
	}
	return Combine(c.FilterExpr, subs...)
}

var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand substitutes {keyword} placeholders in template with values.
//
// A placeholder with no entry in values is an error. When every
// substituted value is empty the result is "", so an unset selector
// drops out of a later Combine instead of producing a half-formed clause.
func Expand(template string, values map[string]string) (string, error) {
	matches := placeholderRe.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return template, nil
	}

	var missing []string
	allEmpty := true
	for _, m := range matches {
		v, ok := values[m[1]]
		if !ok {
			missing = append(missing, m[1])
			continue
		}
		if v != "" {
			allEmpty = false
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("filter template %q: no value for %s", template, strings.Join(missing, ", "))
	}
	if allEmpty {
		return "", nil
	}

	return placeholderRe.ReplaceAllStringFunc(template, func(s string) string {
		return values[s[1:len(s)-1]]
	}), nil
}
