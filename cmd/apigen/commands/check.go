package commands

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/apigen/display"
	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/output"
)

// errOutOfDate is returned by check when the output directory is stale.
var errOutOfDate = errors.New("generated files are out of date")

func newCheckCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "check [sources...]",
		Short: "Check that generated files are up to date",
		Long: `Generate into memory and compare with the output directory, ignoring
metadata header lines that change on every run.

Exits non-zero when a file differs, is missing or should not be there.

Examples:
  apigen check
  apigen check -o web/src/api api/petstore.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.effectiveConfig(args)
			if err != nil {
				return err
			}

			mem := afero.NewMemMapFs()
			if _, err := runPipeline(cmd.Context(), cfg, mem, opts.verbose); err != nil {
				return err
			}

			dir := cfg.Generator.OutputDir
			result, err := output.CompareDirectories(mem, opts.fs, dir, dir)
			if err != nil {
				return errors.Wrap(err, "failed to compare directories")
			}

			if display.ShouldOutputJSON(cmd) {
				if err := display.OutputJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), display.RenderCheck(result, dir))
			}
			if !result.UpToDate {
				return errors.WithHint(errOutOfDate, "run 'apigen generate' to update")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Directory to check (default: generator.output_dir)")
	cmd.Flags().StringSliceVarP(&opts.targets, "targets", "t", nil, "Targets to run, in order")

	return cmd
}
