package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/apigen/display"
	"github.com/teranos/apigen/providers"
)

type targetInfo struct {
	Name        string   `json:"name"`
	Language    string   `json:"language"`
	Description string   `json:"description"`
	Requires    []string `json:"requires,omitempty"`
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List available generation targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := providers.All()
			if display.ShouldOutputJSON(cmd) {
				infos := make([]targetInfo, 0, len(all))
				for _, t := range all {
					infos = append(infos, targetInfo{t.Name, t.Language, t.Description, t.Requires})
				}
				return display.OutputJSON(cmd.OutOrStdout(), infos)
			}
			table, err := display.RenderTargets(all)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
