package config

import "strings"

// Rule maps a (class, instance, title) match to the initial state a
// newly managed client should start in.
type Rule struct {
	Class, Instance, Title string // substrings; empty means "match anything"
	Tags                   uint32
	Floating               bool
	Monitor                int // -1 means "don't force a monitor"
	ObeySizeHints          bool
}

// DefaultRules mirrors the handful of rules every dwm config.h ships:
// Gimp starts floating, and Firefox starts tiled on tag 9. They're
// illustrative defaults, not load-bearing ones.
func DefaultRules() []Rule {
	return []Rule{
		{Class: "Gimp", Tags: 0, Floating: true, Monitor: -1, ObeySizeHints: true},
		{Class: "Firefox", Tags: 1 << 8, Floating: false, Monitor: -1, ObeySizeHints: true},
	}
}

// Match returns the first rule whose non-empty fields are all substrings
// of the corresponding client attribute, or nil if none match. Matching
// order follows rule list order, the same linear-scan semantics dwm's
// applyrules() uses.
func Match(rules []Rule, class, instance, title string) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Class != "" && !strings.Contains(class, r.Class) {
			continue
		}
		if r.Instance != "" && !strings.Contains(instance, r.Instance) {
			continue
		}
		if r.Title != "" && !strings.Contains(title, r.Title) {
			continue
		}
		return r
	}
	return nil
}
