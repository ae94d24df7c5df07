package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/fastinsert/internal/fastinsertctl"
)

func renderCmd(app *fastinsertctl.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render ./path/to/request.yaml",
		Short: "Print the INSERT statements a request would execute",
		Long: `Print the INSERT statements a request would execute if none of its rows existed yet.
The database isn't contacted.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initParams(cmd, app); err != nil {
				return err
			}
			dialect, err := cmd.Flags().GetString("dialect")
			if err != nil {
				return err
			}
			app.Params.Dialect = dialect
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Render(args[0])
		},
	}
	cmd.Flags().String("dialect", "", "SQL dialect to render: postgres or sqlite3. Defaults to the configured driver's")
	return cmd
}
