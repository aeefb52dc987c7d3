package model

import "strings"

// FilterElements returns the elements carrying attribute whose bounds
// intersect bbox. An empty attribute or nil bbox disables that filter.
// Elements that do not match but have matching descendants are replaced by
// those descendants.
func FilterElements(elements []Element, attribute string, bbox *[4]int) []Element {
	if attribute == "" && bbox == nil {
		return elements
	}

	var result []Element
	for _, el := range elements {
		var filteredChildren []Element
		if len(el.Children) > 0 {
			filteredChildren = FilterElements(el.Children, attribute, bbox)
		}

		_, hasAttr := el.Attrs[attribute]
		attrMatch := attribute == "" || hasAttr
		bboxMatch := bbox == nil || boundsIntersect(el.Bounds, *bbox)

		if attrMatch && bboxMatch {
			filtered := el
			filtered.Children = filteredChildren
			result = append(result, filtered)
		} else if len(filteredChildren) > 0 {
			result = append(result, filteredChildren...)
		}
	}
	return result
}

// FilterByText keeps elements whose ID or title contains text
// (case-insensitive), along with the ancestors of any match.
func FilterByText(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	var result []Element
	for _, el := range elements {
		matched := strings.Contains(strings.ToLower(el.Title), textLower) ||
			strings.Contains(strings.ToLower(el.ID), textLower)
		childMatches := FilterByText(el.Children, text)

		if matched || len(childMatches) > 0 {
			filtered := el
			filtered.Children = childMatches
			result = append(result, filtered)
		}
	}
	return result
}

// boundsIntersect checks if two [x, y, width, height] rectangles overlap.
func boundsIntersect(a, b [4]int) bool {
	ax1, ay1, ax2, ay2 := a[0], a[1], a[0]+a[2], a[1]+a[3]
	bx1, by1, bx2, by2 := b[0], b[1], b[0]+b[2], b[1]+b[3]
	return ax1 < bx2 && ax2 > bx1 && ay1 < by2 && ay2 > by1
}
