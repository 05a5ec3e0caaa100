// Package filter decides which tables take part in generation.
package filter

import (
	"fmt"
	"regexp"
)

// Reason explains why a table was excluded
type Reason int

const (
	// ReasonNone means the table is kept
	ReasonNone Reason = iota
	// ReasonFilter means the exclusion pattern matched
	ReasonFilter
	// ReasonInclude means an inclusion pattern is set and did not match
	ReasonInclude
)

func (r Reason) String() string {
	switch r {
	case ReasonFilter:
		return "matched filter"
	case ReasonInclude:
		return "not matched by include"
	default:
		return "kept"
	}
}

// Decision is the outcome of matching one table name
type Decision struct {
	Excluded bool
	Reason   Reason
}

// Filter holds the compiled patterns for one run. A nil pattern is unset.
type Filter struct {
	exclude *regexp.Regexp
	include *regexp.Regexp
}

// PatternError reports which option held the malformed pattern
type PatternError struct {
	Option  string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Option, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Compile builds a Filter from the optional filter and include patterns.
// Empty strings leave the corresponding rule unset.
func Compile(filter, include string) (*Filter, error) {
	f := &Filter{}
	if filter != "" {
		re, err := regexp.Compile(filter)
		if err != nil {
			return nil, &PatternError{Option: "filter", Pattern: filter, Err: err}
		}
		f.exclude = re
	}
	if include != "" {
		re, err := regexp.Compile(include)
		if err != nil {
			return nil, &PatternError{Option: "include", Pattern: include, Err: err}
		}
		f.include = re
	}
	return f, nil
}

// Match decides whether name is excluded. The filter rule is checked first, so
// a name rejected by both rules reports ReasonFilter.
func (f *Filter) Match(name string) Decision {
	if f == nil {
		return Decision{}
	}
	if f.exclude != nil && f.exclude.MatchString(name) {
		return Decision{Excluded: true, Reason: ReasonFilter}
	}
	if f.include != nil && !f.include.MatchString(name) {
		return Decision{Excluded: true, Reason: ReasonInclude}
	}
	return Decision{}
}

// Excluded is shorthand for Match(name).Excluded
func (f *Filter) Excluded(name string) bool {
	return f.Match(name).Excluded
}
