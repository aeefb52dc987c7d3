package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/model"
	"github.com/mj1618/focusnav/internal/output"
)

var knownCmd = &cobra.Command{
	Use:   "known <layout>",
	Short: "List the navigable elements of a layout",
	Long: `List the elements the engine registers for a layout, in registration order,
with their bounds and path. Use --all to list every layout element instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runKnown,
}

func init() {
	rootCmd.AddCommand(knownCmd)
	knownCmd.Flags().Bool("all", false, "List every layout element, not only registered ones")
	knownCmd.Flags().String("text", "", "Filter by id or title (case-insensitive substring match)")
	knownCmd.Flags().String("bbox", "", "Only elements intersecting x,y,width,height")
	knownCmd.Flags().String("attr", "", "Only elements carrying this attribute (e.g. focus-overrides)")
}

func runKnown(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	text, _ := cmd.Flags().GetString("text")
	bboxStr, _ := cmd.Flags().GetString("bbox")
	attr, _ := cmd.Flags().GetString("attr")

	var bbox *[4]int
	if bboxStr != "" {
		b, err := parseBBox(bboxStr)
		if err != nil {
			return err
		}
		bbox = &b
	}

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	layout := s.Tree.Source()
	cfg := s.Engine.Config()

	var elements []model.Element
	if all {
		elements = layout.Elements
	} else {
		for _, el := range s.Engine.KnownElements() {
			if m, ok := s.Tree.Describe(el); ok {
				elements = append(elements, m)
			}
		}
	}
	if text != "" {
		elements = model.FilterByText(elements, text)
	}
	if attr != "" || bbox != nil {
		elements = model.FilterElements(elements, attr, bbox)
	}

	flat := model.FlattenElements(elements)
	if !all {
		// Registered elements carry no children; report their full path.
		paths := make(map[string]string)
		for _, f := range model.FlattenElements(layout.Elements) {
			paths[f.ID] = f.Path
		}
		for i := range flat {
			flat[i].Path = paths[flat[i].ID]
		}
	}
	if flat == nil {
		flat = []model.FlatElement{}
	}

	result := output.ElementsResult{
		Layout:    layout.Name,
		Container: cfg.Container,
		Elements:  flat,
	}
	if f := s.Focused(); f != nil {
		result.Focused = "#" + f.ID
	}
	return output.Print(result)
}

// parseBBox parses "x,y,width,height".
func parseBBox(s string) ([4]int, error) {
	var b [4]int
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return b, fmt.Errorf("invalid bbox %q: expected x,y,width,height", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return b, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		b[i] = n
	}
	return b, nil
}
