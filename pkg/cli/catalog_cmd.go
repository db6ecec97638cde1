package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/getmockd/soaptrace/pkg/cli/internal/output"
	"github.com/getmockd/soaptrace/pkg/contract"
)

// OperationOutput is the JSON form of one catalog operation.
type OperationOutput struct {
	Contract  string         `json:"contract"`
	Operation string         `json:"operation"`
	Action    string         `json:"action"`
	Namespace string         `json:"namespace,omitempty"`
	Explicit  bool           `json:"explicit"`
	Inherited bool           `json:"inherited"`
	Style     contract.Style `json:"style"`
	Problem   string         `json:"problem,omitempty"`
}

// CatalogOutput is the JSON result of the catalog command.
type CatalogOutput struct {
	Operations []OperationOutput `json:"operations"`
	Actions    int               `json:"actions"`
	Assemblies []string          `json:"assemblies"`
}

func newCatalogCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List every operation of the catalog with its action",
		Long: `List the operations of every contract in the catalog given by --catalog,
with the action each one answers to. Derived default actions are marked.

With --check, every operation's parameters are also checked for
serializability and problems are reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := openResolution(a.cfg.Catalog, a.logger)
			if err != nil {
				return err
			}
			contracts, err := res.catalog.Contracts()
			if err != nil {
				return err
			}

			out := CatalogOutput{Operations: []OperationOutput{}, Actions: res.actions.Actions()}
			for _, c := range contracts {
				ops, err := res.catalog.Operations(c)
				if err != nil {
					return err
				}
				for _, op := range ops {
					o := OperationOutput{
						Contract:  c.FullName,
						Operation: op.Name,
						Action:    op.Action,
						Explicit:  op.Explicit,
						Inherited: op.Inherited(),
						Style:     contract.StyleRPC,
					}
					if ns, ok := op.Declaring.Namespace(); ok {
						o.Namespace = ns
					}
					if contract.IsDocumentStyle(op) {
						o.Style = contract.StyleDocument
					}
					if check {
						if err := contract.CheckSerializable(res.introspector, op); err != nil {
							o.Problem = err.Error()
						}
					}
					out.Operations = append(out.Operations, o)
				}
			}
			out.Assemblies = res.assemblies()

			if a.cfg.JSON {
				return output.JSON(cmd.OutOrStdout(), out)
			}

			tw := output.Table(cmd.OutOrStdout())
			header := []string{"CONTRACT", "OPERATION", "STYLE", "DERIVED", "ACTION"}
			if check {
				header = append(header, "PROBLEM")
			}
			output.Row(tw, header...)
			for _, o := range out.Operations {
				row := []string{o.Contract, o.Operation, string(o.Style), strconv.FormatBool(!o.Explicit), o.Action}
				if check {
					row = append(row, o.Problem)
				}
				output.Row(tw, row...)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check that operation parameters are serializable")
	return cmd
}
