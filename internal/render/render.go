// Package render draws a layout as an annotated image: one box per element,
// the focused element highlighted and an optional label on each box.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/mj1618/focusnav/internal/model"
)

// LabelMode controls what text is drawn on each element box.
type LabelMode int

const (
	// LabelIDs draws "#id".
	LabelIDs LabelMode = iota
	// LabelCoords draws "(x,y)" center coordinates in layout units.
	LabelCoords
	// LabelScores draws the debug label recorded for the element, if any.
	LabelScores
	// LabelNone draws boxes only.
	LabelNone
)

// ParseLabelMode parses ids, coords, scores or none.
func ParseLabelMode(s string) (LabelMode, error) {
	switch strings.ToLower(s) {
	case "", "ids", "id":
		return LabelIDs, nil
	case "coords":
		return LabelCoords, nil
	case "scores":
		return LabelScores, nil
	case "none":
		return LabelNone, nil
	}
	return 0, fmt.Errorf("invalid label mode %q: expected ids, coords, scores or none", s)
}

// MaxDimension caps the rendered canvas on either axis.
const MaxDimension = 4096

const margin = 8

var (
	backgroundColor = color.RGBA{R: 24, G: 24, B: 28, A: 255}
	containerColor  = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	boxColor        = color.RGBA{R: 255, G: 0, B: 0, A: 100}
	dynamicColor    = color.RGBA{R: 255, G: 170, B: 0, A: 160}
	focusColor      = color.RGBA{R: 0, G: 220, B: 90, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor    = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Options controls Overlay.
type Options struct {
	Mode LabelMode
	// Scale is canvas pixels per layout unit. Zero means 1, and the scale is
	// reduced further when the canvas would exceed MaxDimension.
	Scale float64
	// Focused is the id of the element to highlight.
	Focused string
	// Attribute marks navigable elements. Elements without it are drawn as
	// plain containers. Empty treats every element as navigable.
	Attribute string
	// Labels holds debug text keyed by element key ("#id").
	Labels map[string]string
}

// Overlay draws layout. Hidden elements and their subtrees are skipped.
func Overlay(layout *model.Layout, opts Options) *image.RGBA {
	var elements []model.FlatElement
	if layout != nil {
		elements = visibleElements(layout.Elements)
	}

	minX, minY, maxX, maxY := extent(elements)
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w := float64(maxX - minX)
	h := float64(maxY - minY)
	if limit := float64(MaxDimension - 2*margin); w*scale > limit || h*scale > limit {
		scale = min(limit/w, limit/h)
	}

	width := int(w*scale) + 2*margin
	height := int(h*scale) + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	project := func(b [4]int) (int, int, int, int) {
		x := int(float64(b[0]-minX)*scale) + margin
		y := int(float64(b[1]-minY)*scale) + margin
		return x, y, x + int(float64(b[2])*scale), y + int(float64(b[3])*scale)
	}

	var focused *model.FlatElement
	for i := range elements {
		el := &elements[i]
		if el.ID == opts.Focused {
			focused = el
			continue
		}
		x1, y1, x2, y2 := project(el.Bounds)
		drawRectangle(img, x1, y1, x2, y2, elementColor(*el, opts.Attribute))
		drawLabel(img, *el, opts, (x1+x2)/2, (y1+y2)/2)
	}
	if focused != nil {
		x1, y1, x2, y2 := project(focused.Bounds)
		drawRectangle(img, x1, y1, x2, y2, focusColor)
		drawRectangle(img, x1+1, y1+1, x2-1, y2-1, focusColor)
		drawLabel(img, *focused, opts, (x1+x2)/2, (y1+y2)/2)
	}
	return img
}

func visibleElements(elements []model.Element) []model.FlatElement {
	var out []model.FlatElement
	var walk func(el model.Element)
	walk = func(el model.Element) {
		if el.Visibility == model.Hidden {
			return
		}
		out = append(out, el.Flat(""))
		for _, child := range el.Children {
			walk(child)
		}
	}
	for _, el := range elements {
		walk(el)
	}
	return out
}

func extent(elements []model.FlatElement) (minX, minY, maxX, maxY int) {
	if len(elements) == 0 {
		return 0, 0, 1, 1
	}
	minX, minY = elements[0].Bounds[0], elements[0].Bounds[1]
	for _, el := range elements {
		b := el.Bounds
		minX = min(minX, b[0])
		minY = min(minY, b[1])
		maxX = max(maxX, b[0]+b[2])
		maxY = max(maxY, b[1]+b[3])
	}
	minX = min(minX, 0)
	minY = min(minY, 0)
	if maxX <= minX {
		maxX = minX + 1
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	return minX, minY, maxX, maxY
}

func elementColor(el model.FlatElement, attribute string) color.Color {
	if attribute != "" {
		if _, ok := el.Attrs[attribute]; !ok {
			return containerColor
		}
	}
	if el.Visibility == model.Conditional {
		return dynamicColor
	}
	return boxColor
}

func drawLabel(img *image.RGBA, el model.FlatElement, opts Options, cx, cy int) {
	var label string
	switch opts.Mode {
	case LabelIDs:
		label = "#" + el.ID
	case LabelCoords:
		label = fmt.Sprintf("(%d,%d)", el.Bounds[0]+el.Bounds[2]/2, el.Bounds[1]+el.Bounds[3]/2)
	case LabelScores:
		label = opts.Labels["#"+el.ID]
	}
	if label == "" {
		return
	}
	drawTextWithOutline(img, label, cx, cy, textColor, outlineColor)
}

// Encode writes img as png, or as jpg at the given quality.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	var err error
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "", "png":
		err = png.Encode(w, img)
	default:
		return fmt.Errorf("invalid image format %q: expected png or jpg", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// FormatForPath picks the image format from a file extension.
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
		return "jpg"
	}
	return "png"
}
