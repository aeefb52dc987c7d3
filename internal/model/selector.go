package model

import (
	"fmt"
	"strings"
)

// Selector is a compound simple selector: any mix of #id, .class, [attr]
// and [attr=value] with no combinators, e.g. ".box.block1" or
// "#menu[focusable]". The empty compound "*" matches everything.
type Selector struct {
	ID      string
	Classes []string
	Attrs   []AttrMatch
}

// AttrMatch is one [attr] or [attr=value] clause.
type AttrMatch struct {
	Name     string
	Value    string
	HasValue bool
}

// ParseSelector parses a compound selector.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}
	if s == "*" {
		return Selector{}, nil
	}

	var sel Selector
	for i := 0; i < len(s); {
		switch s[i] {
		case '#', '.':
			j := i + 1
			for j < len(s) && !strings.ContainsRune("#.[", rune(s[j])) {
				j++
			}
			name := s[i+1 : j]
			if name == "" {
				return Selector{}, fmt.Errorf("selector %q: empty name at offset %d", s, i)
			}
			if strings.ContainsAny(name, " \t\n>+~,") {
				return Selector{}, fmt.Errorf("selector %q: combinators are not supported", s)
			}
			if s[i] == '#' {
				if sel.ID != "" {
					return Selector{}, fmt.Errorf("selector %q: more than one id", s)
				}
				sel.ID = name
			} else {
				sel.Classes = append(sel.Classes, name)
			}
			i = j
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return Selector{}, fmt.Errorf("selector %q: unterminated attribute", s)
			}
			m, err := parseAttrMatch(s[i+1 : i+end])
			if err != nil {
				return Selector{}, fmt.Errorf("selector %q: %w", s, err)
			}
			sel.Attrs = append(sel.Attrs, m)
			i += end + 1
		default:
			return Selector{}, fmt.Errorf("selector %q: unexpected %q at offset %d (tag and combinator selectors are not supported)", s, s[i], i)
		}
	}
	return sel, nil
}

func parseAttrMatch(body string) (AttrMatch, error) {
	name, value, hasValue := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return AttrMatch{}, fmt.Errorf("empty attribute name")
	}
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	return AttrMatch{Name: name, Value: value, HasValue: hasValue}, nil
}

// Matches reports whether el satisfies every clause of the selector.
func (s Selector) Matches(el Element) bool {
	if s.ID != "" && el.ID != s.ID {
		return false
	}
	for _, c := range s.Classes {
		if !el.HasClass(c) {
			return false
		}
	}
	for _, a := range s.Attrs {
		v, ok := el.Attrs[a.Name]
		if !ok || (a.HasValue && v != a.Value) {
			return false
		}
	}
	return true
}

// FindBySelector returns the first element in document order matching
// selector.
func FindBySelector(elements []Element, selector string) (*Element, error) {
	sel, err := ParseSelector(selector)
	if err != nil {
		return nil, err
	}
	if found := findMatch(elements, sel); found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
}

func findMatch(elements []Element, sel Selector) *Element {
	for i := range elements {
		if sel.Matches(elements[i]) {
			return &elements[i]
		}
		if found := findMatch(elements[i].Children, sel); found != nil {
			return found
		}
	}
	return nil
}
