package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foodworks-dev/catagen"
	"github.com/foodworks-dev/catagen/internal/catalog"
	"github.com/foodworks-dev/catagen/internal/records"
)

var (
	genWorkbook string
	genTemplate string
	genImages   string
	genOutput   string
)

var generateCmd = &cobra.Command{
	Use:   "generate <group-code>",
	Short: "Generate the catalog for one supplier group code",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genWorkbook, "workbook", "", "Excel workbook path (overrides config)")
	generateCmd.Flags().StringVar(&genTemplate, "template", "", "template .pptx path (overrides config)")
	generateCmd.Flags().StringVar(&genImages, "images", "", "image directory (overrides config)")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "output directory (overrides config)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	groupCode := args[0]

	src := &records.ExcelSource{
		Path:      override(genWorkbook, cfg.Source.Workbook),
		Sheet:     cfg.Source.Sheet,
		HeaderRow: cfg.Source.HeaderRow,
		Columns:   cfg.Source.Columns,
	}
	gen := &catalog.Generator{
		Source:       src,
		TemplatePath: override(genTemplate, cfg.Template.Path),
		ImageDir:     override(genImages, cfg.Images.Dir),
		OutputDir:    override(genOutput, cfg.Output.Dir),
		Prefix:       cfg.Output.Prefix,
		Capacity:     cfg.Page.Capacity,
	}

	res, err := gen.Generate(groupCode)
	if err != nil {
		return classify(err)
	}
	if res.Empty() {
		cmd.Printf("no records for group code %s, nothing generated\n", groupCode)
		return nil
	}
	cmd.Printf("generated %s (%d records, %d pages)\n", res.OutputPath, res.Records, res.Pages)
	return nil
}

func override(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

// classify prefixes the error with its taxonomy kind so operators can tell
// data problems from template problems at a glance.
func classify(err error) error {
	var formatErr *records.FormatError
	var templateErr *catagen.TemplateError
	var placementErr *catagen.PlacementError
	switch {
	case errors.As(err, &formatErr):
		return fmt.Errorf("data error: %w", err)
	case errors.As(err, &templateErr):
		return fmt.Errorf("template error: %w", err)
	case errors.As(err, &placementErr):
		return fmt.Errorf("image placement error: %w", err)
	}
	return err
}
