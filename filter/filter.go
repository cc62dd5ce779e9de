// Package filter turns a benchmark selection (mode, API styles, libraries)
// into the include patterns JMH matches against benchmark class names.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects serialization or deserialization benchmarks.
type Mode int

const (
	Serialize Mode = iota + 1
	Deserialize
)

func (m Mode) String() string {
	switch m {
	case Serialize:
		return "ser"
	case Deserialize:
		return "deser"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ErrInvalidMode is returned for a Mode that is neither Serialize nor
// Deserialize. Callers should never see it.
var ErrInvalidMode = errors.New("invalid mode")

func (m Mode) infix() (string, error) {
	switch m {
	case Serialize:
		return "Serialization", nil
	case Deserialize:
		return "Deserialization", nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidMode, m)
}

// API is a JSON processing style.
type API string

const (
	Stream   API = "stream"
	Databind API = "databind"
)

// APIs lists the supported API styles in default order.
var APIs = []API{Stream, Databind}

var apiNames = map[API]string{
	Stream:   "Stream",
	Databind: "Databind",
}

// Libraries lists the benchmarked library identifiers.
var Libraries = []string{"jackson", "jackson_afterburner", "genson", "fastjson", "gson", "orgjson", "jsonp", "jsonio"}

var libraries = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Libraries))
	for _, l := range Libraries {
		m[l] = struct{}{}
	}
	return m
}()

const (
	anyPrefix = ".*"
	anySuffix = ".*"
)

// InvalidSelectionError reports a user supplied token outside its whitelist.
type InvalidSelectionError struct {
	Kind  string
	Value string
}

func (e *InvalidSelectionError) Error() string {
	var allowed []string
	switch e.Kind {
	case "api":
		for _, a := range APIs {
			allowed = append(allowed, string(a))
		}
	case "library":
		allowed = Libraries
	}
	return fmt.Sprintf("invalid %s %q: available values are %s", e.Kind, e.Value, strings.Join(allowed, ", "))
}

// Selection is one (API, library) combination and its include pattern.
// Library is empty when any library matches.
type Selection struct {
	API     API
	Library string
	Pattern string
}

// ParseAPIs validates a comma-separated list of API styles. An empty string
// selects every API.
func ParseAPIs(csv string) ([]API, error) {
	if csv == "" {
		return append([]API(nil), APIs...), nil
	}
	tokens, err := split(csv, "api", func(t string) bool {
		_, ok := apiNames[API(t)]
		return ok
	})
	if err != nil {
		return nil, err
	}
	apis := make([]API, 0, len(tokens))
	for _, t := range tokens {
		apis = append(apis, API(t))
	}
	return apis, nil
}

// ParseLibraries validates a comma-separated list of library identifiers. An
// empty string returns nil, meaning any library.
func ParseLibraries(csv string) ([]string, error) {
	if csv == "" {
		return nil, nil
	}
	return split(csv, "library", func(t string) bool {
		_, ok := libraries[t]
		return ok
	})
}

// split validates and dedups tokens, keeping first occurrence order. Tokens
// are matched verbatim, so " stream" is invalid.
func split(csv, kind string, valid func(string) bool) ([]string, error) {
	var tokens []string
	seen := map[string]bool{}
	for _, t := range strings.Split(csv, ",") {
		if !valid(t) {
			return nil, &InvalidSelectionError{Kind: kind, Value: t}
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// Plan validates the selection and returns one Selection per API and
// library, API-major.
func Plan(mode Mode, apis, libs string) ([]Selection, error) {
	infix, err := mode.infix()
	if err != nil {
		return nil, err
	}
	selectedAPIs, err := ParseAPIs(apis)
	if err != nil {
		return nil, err
	}
	selectedLibs, err := ParseLibraries(libs)
	if err != nil {
		return nil, err
	}

	var plan []Selection
	for _, a := range selectedAPIs {
		prefix := anyPrefix + apiNames[a] + infix
		if selectedLibs == nil {
			plan = append(plan, Selection{API: a, Pattern: prefix + anySuffix})
			continue
		}
		for _, l := range selectedLibs {
			plan = append(plan, Selection{API: a, Library: l, Pattern: prefix + "." + l + "*"})
		}
	}
	return plan, nil
}

// Build returns the include patterns for the selection.
func Build(mode Mode, apis, libs string) ([]string, error) {
	plan, err := Plan(mode, apis, libs)
	if err != nil {
		return nil, err
	}
	patterns := make([]string, 0, len(plan))
	for _, s := range plan {
		patterns = append(patterns, s.Pattern)
	}
	return patterns, nil
}
