package model

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	ID         string            `yaml:"id"                   json:"id"`
	Title      string            `yaml:"title,omitempty"      json:"title,omitempty"`
	Class      string            `yaml:"class,omitempty"      json:"class,omitempty"`
	Bounds     [4]int            `yaml:"bounds"               json:"bounds"`
	Attrs      map[string]string `yaml:"attrs,omitempty"      json:"attrs,omitempty"`
	Visibility string            `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Path       string            `yaml:"path,omitempty"       json:"path,omitempty"`
}

// Flat drops the element's children.
func (el Element) Flat(path string) FlatElement {
	return FlatElement{
		ID:         el.ID,
		Title:      el.Title,
		Class:      el.Class,
		Bounds:     el.Bounds,
		Attrs:      el.Attrs,
		Visibility: el.Visibility,
		Path:       path,
	}
}

// FlattenElements converts a tree of elements into a flat list in document
// order. Each element gets a path string of its ancestors' IDs joined with
// " > ".
func FlattenElements(elements []Element) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, result *[]FlatElement) {
	currentPath := el.ID
	if parentPath != "" {
		currentPath = parentPath + " > " + el.ID
	}

	*result = append(*result, el.Flat(currentPath))

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, result)
	}
}
