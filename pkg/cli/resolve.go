package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/soaptrace/pkg/cli/internal/output"
)

// ResolveOutput is the JSON result of the resolve command.
type ResolveOutput struct {
	Results    []Resolution `json:"results"`
	Assemblies []string     `json:"assemblies"`
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <action>...",
		Short: "Resolve actions to contract operations and proxy methods",
		Long: `Resolve each action to the contract operation that handles it and the
proxy method that invokes it, using the catalog given by --catalog.

Examples:
  soaptrace resolve --catalog catalog.yaml http://tempuri.org/IOrders/Submit
  soaptrace resolve --catalog catalog.yaml --json urn:IPing/Ping`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := openResolution(a.cfg.Catalog, a.logger)
			if err != nil {
				return err
			}

			out := ResolveOutput{Results: make([]Resolution, 0, len(args))}
			missing := 0
			for _, action := range args {
				r := res.resolve(action)
				if !r.Found {
					missing++
				}
				out.Results = append(out.Results, r)
			}
			out.Assemblies = res.assemblies()

			if a.cfg.JSON {
				if err := output.JSON(cmd.OutOrStdout(), out); err != nil {
					return err
				}
			} else {
				printResolutions(cmd.OutOrStdout(), out.Results)
			}

			if missing > 0 {
				return fmt.Errorf("%w: %d of %d", ErrUnresolved, missing, len(args))
			}
			return nil
		},
	}
}

func printResolutions(w io.Writer, results []Resolution) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Action:     %s\n", r.Action)
		if !r.Found {
			fmt.Fprintln(w, "Operation:  (not found)")
			continue
		}
		fmt.Fprintf(w, "Operation:  %s.%s\n", r.Contract, r.Operation)
		if r.Declaring != r.Contract {
			fmt.Fprintf(w, "Declared:   %s\n", r.Declaring)
		}
		fmt.Fprintf(w, "Style:      %s\n", r.Style)
		members := make([]string, len(r.Members))
		for j, m := range r.Members {
			members[j] = m.Type + " " + m.Name
		}
		fmt.Fprintf(w, "Members:    %s\n", output.Cell(strings.Join(members, ", ")))
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "Proxy:      error: %s\n", r.Error)
		default:
			fmt.Fprintf(w, "Proxy:      %s\n", output.Cell(r.Proxy))
		}
	}
}
