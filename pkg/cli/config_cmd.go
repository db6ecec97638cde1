package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/soaptrace/pkg/cli/internal/output"
	"github.com/getmockd/soaptrace/pkg/cliconfig"
)

// ConfigOutput is the JSON result of the config command.
type ConfigOutput struct {
	Config      *cliconfig.CLIConfig `json:"config"`
	Sources     map[string]string    `json:"sources"`
	GlobalPaths []string             `json:"globalPaths"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := ConfigOutput{
				Config:      a.cfg,
				Sources:     a.cfg.Sources,
				GlobalPaths: cliconfig.GetGlobalConfigSearchPaths(),
			}
			if a.cfg.JSON {
				return output.JSON(cmd.OutOrStdout(), out)
			}

			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, string(data))

			keys := make([]string, 0, len(a.cfg.Sources))
			for k := range a.cfg.Sources {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Fprintln(w, "\nSources:")
			tw := output.Table(w)
			for _, k := range keys {
				output.Row(tw, "  "+k, a.cfg.Sources[k])
			}
			return tw.Flush()
		},
	}
}
