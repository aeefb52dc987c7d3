package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/focusnav/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render <layout> [direction]...",
	Short: "Draw a layout with the focused element highlighted",
	Long: `Render a layout as an image: one box per element, navigable elements in red,
dynamic ones in orange and the focused element in green. Directions given
after the layout are applied first, so the image shows where focus lands.

With --labels scores the candidate scores of the last move are drawn on
each candidate (implies --debug).

Examples:
  focusnav render menu.yaml --output menu.png
  focusnav render menu.yaml right,down --labels scores --output step.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addSessionFlags(renderCmd)
	renderCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	renderCmd.Flags().String("image-format", "", "Image format: png, jpg (default: from --output extension, else png)")
	renderCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
	renderCmd.Flags().Float64("scale", 1, "Pixels per layout unit")
	renderCmd.Flags().String("labels", "ids", "Box labels: ids, coords, scores, none")
}

func runRender(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("image-format")
	quality, _ := cmd.Flags().GetInt("quality")
	scale, _ := cmd.Flags().GetFloat64("scale")
	labels, _ := cmd.Flags().GetString("labels")

	mode, err := render.ParseLabelMode(labels)
	if err != nil {
		return err
	}
	if mode == render.LabelScores {
		if err := cmd.Flags().Set("debug", "true"); err != nil {
			return err
		}
	}
	if format == "" {
		format = render.FormatForPath(outputPath)
	}
	if quality < 1 || quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100")
	}

	s, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) > 1 {
		directions, err := parseDirections(args[1:])
		if err != nil {
			return err
		}
		for _, d := range directions {
			s.Tree.ClearLabels()
			s.Engine.Move(d)
		}
	}

	opts := render.Options{
		Mode:      mode,
		Scale:     scale,
		Attribute: s.Engine.Config().FocusableAttribute,
		Labels:    s.Tree.Labels(),
	}
	if f := s.Focused(); f != nil {
		opts.Focused = f.ID
	}
	img := render.Overlay(s.Tree.Layout(), opts)

	buf := &bytes.Buffer{}
	if err := render.Encode(buf, img, format, quality); err != nil {
		return err
	}

	// Output to file or stdout
	if outputPath != "" {
		return os.WriteFile(outputPath, buf.Bytes(), 0644)
	}

	encoder := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := encoder.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Println() // newline after base64
	return nil
}
