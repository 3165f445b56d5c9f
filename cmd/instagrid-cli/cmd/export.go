package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nfrund/instagrid/internal/export"
	"github.com/nfrund/instagrid/internal/mockup"
	"github.com/nfrund/instagrid/internal/plan"
	"github.com/nfrund/instagrid/internal/resource"
	"github.com/nfrund/instagrid/internal/storage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	exportPlan     string
	exportOut      string
	exportTarget   string
	exportOverlays bool
	exportScale    float64

	// fs is swapped for an in-memory filesystem in tests.
	fs = afero.NewOsFs()
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a plan file to PNG",
	Long: `Render the profile mockup described by a YAML plan file to a PNG.

Examples:
  instagrid-cli export --plan feed.yaml
  instagrid-cli export --plan feed.yaml --target grid --out grid.png
  instagrid-cli export --plan feed.yaml --overlays   # keep the AI badges`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !mockup.KnownTarget(exportTarget) {
		return fmt.Errorf("unknown target %q (want one of %s)", exportTarget, strings.Join(mockup.Targets, ", "))
	}

	p, err := plan.Load(fs, exportPlan)
	if err != nil {
		return err
	}

	pool := resource.NewPool(storage.NewAferoStore(afero.NewMemMapFs()))
	snap, err := p.Build(cmd.Context(), fs, pool)
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(exportPlan), filepath.Ext(exportPlan))
		out = export.FileName(base, export.DefaultFileName)
	}

	exp := export.New(pool, "")
	art, err := exp.Encode(cmd.Context(), snap, exportTarget, out,
		export.Options{Scale: exportScale, Overlays: exportOverlays})
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, out, art.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%dx%d, %d bytes)\n", out, art.Width, art.Height, len(art.Data))
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportPlan, "plan", "p", "", "plan file (YAML)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output PNG (default: <plan name>.png)")
	exportCmd.Flags().StringVar(&exportTarget, "target", mockup.TargetComposite, "what to render: "+strings.Join(mockup.Targets, " or "))
	exportCmd.Flags().BoolVar(&exportOverlays, "overlays", false, "draw AI badges")
	exportCmd.Flags().Float64Var(&exportScale, "scale", mockup.ExportScale, "pixel density")
	_ = exportCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(exportCmd)
}
