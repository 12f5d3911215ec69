package indexer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ncobase/searchsync/config"
	"github.com/spf13/cast"
)

type predicate struct {
	field string
	match string
	re    *regexp.Regexp
}

func (p predicate) matches(data map[string]any) bool {
	v, ok := lookupField(data, p.field)
	if !ok || v == nil {
		return false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	if s == p.match {
		return true
	}
	return p.re != nil && p.re.MatchString(s)
}

// lookupField finds field exactly, then ignoring case, since configuration
// keys arrive lowercased.
func lookupField(data map[string]any, field string) (any, bool) {
	if v, ok := data[field]; ok {
		return v, true
	}
	for k, v := range data {
		if strings.EqualFold(k, field) {
			return v, true
		}
	}
	return nil, false
}

// filterTable holds the skip-on-save predicates per type. Read-only once built.
type filterTable map[string][]predicate

func newFilterTable(rules []config.FilterRule) filterTable {
	table := make(filterTable)
	for _, rule := range rules {
		if rule.Type == "" || rule.Field == "" {
			continue
		}
		p := predicate{field: rule.Field, match: rule.Match}
		// a pattern that does not compile is compared for equality only
		if re, err := regexp.Compile(rule.Match); err == nil {
			p.re = re
		}
		key := strings.ToLower(rule.Type)
		table[key] = append(table[key], p)
	}
	return table
}

// skip reports whether a record of entityType should stay out of the index:
// true when the type has predicates and every one of them matches.
func (t filterTable) skip(entityType string, data map[string]any) bool {
	preds := t[strings.ToLower(entityType)]
	if len(preds) == 0 {
		return false
	}
	for _, p := range preds {
		if !p.matches(data) {
			return false
		}
	}
	return true
}
