package model

import (
	"fmt"
	"maps"
)

// Change is a property-level difference for an element present in both layouts.
type Change struct {
	ID      string               `yaml:"id"      json:"id"`
	Changes map[string][2]string `yaml:"changes" json:"changes"`
}

// LayoutDiff is the result of comparing two layouts by element ID.
type LayoutDiff struct {
	Added          []FlatElement `yaml:"added,omitempty"   json:"added,omitempty"`
	Removed        []FlatElement `yaml:"removed,omitempty" json:"removed,omitempty"`
	Moved          []FlatElement `yaml:"moved,omitempty"   json:"moved,omitempty"`
	Changed        []Change      `yaml:"changed,omitempty" json:"changed,omitempty"`
	UnchangedCount int           `yaml:"unchanged_count"   json:"unchanged_count"`
}

// Empty reports whether the layouts were identical.
func (d LayoutDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Moved) == 0 && len(d.Changed) == 0
}

// DiffLayouts compares two flat element lists. Elements are matched by ID.
// An element whose bounds changed is reported as moved; other property
// changes are reported as changed. An element can be both.
func DiffLayouts(prev, curr []FlatElement) LayoutDiff {
	prevMap := make(map[string]FlatElement, len(prev))
	for _, el := range prev {
		prevMap[el.ID] = el
	}
	currMap := make(map[string]FlatElement, len(curr))
	for _, el := range curr {
		currMap[el.ID] = el
	}

	var diff LayoutDiff

	for _, el := range curr {
		prevEl, existed := prevMap[el.ID]
		if !existed {
			diff.Added = append(diff.Added, el)
			continue
		}
		moved := prevEl.Bounds != el.Bounds
		if moved {
			diff.Moved = append(diff.Moved, el)
		}
		changes := diffProperties(prevEl, el)
		if len(changes) > 0 {
			diff.Changed = append(diff.Changed, Change{ID: el.ID, Changes: changes})
		}
		if !moved && len(changes) == 0 {
			diff.UnchangedCount++
		}
	}

	for _, el := range prev {
		if _, exists := currMap[el.ID]; !exists {
			diff.Removed = append(diff.Removed, el)
		}
	}

	return diff
}

// diffProperties compares everything but bounds, which DiffLayouts reports
// as a move.
func diffProperties(prev, curr FlatElement) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Title != curr.Title {
		diffs["title"] = [2]string{prev.Title, curr.Title}
	}
	if prev.Class != curr.Class {
		diffs["class"] = [2]string{prev.Class, curr.Class}
	}
	if prev.Visibility != curr.Visibility {
		diffs["visibility"] = [2]string{prev.Visibility, curr.Visibility}
	}
	if prev.Path != curr.Path {
		diffs["path"] = [2]string{prev.Path, curr.Path}
	}
	if !maps.Equal(prev.Attrs, curr.Attrs) {
		diffs["attrs"] = [2]string{fmt.Sprintf("%v", prev.Attrs), fmt.Sprintf("%v", curr.Attrs)}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
