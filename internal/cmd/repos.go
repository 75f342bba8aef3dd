package cmd

import (
	"fmt"

	"github.com/IPDSnelting/velcom/internal/client"
	"github.com/IPDSnelting/velcom/internal/config"
	"github.com/IPDSnelting/velcom/internal/ui"
	"github.com/spf13/cobra"
)

func newReposCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List the repositories known to the server",
		Long: `List the repositories known to the server. The ids and names shown here
are what bench-tar --repo matches against.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output, outputTable, outputJSON, outputYAML); err != nil {
				return err
			}

			store, err := opts.loadStore()
			if err != nil {
				return err
			}
			apiURL, err := store.GetURL(config.KeyAPIURL)
			if err != nil {
				return err
			}

			timeout, err := configTimeout(store)
			if err != nil {
				return err
			}

			c := client.New(client.Config{
				APIURL:  apiURL,
				Timeout: timeout,
				Logger:  opts.logger(cmd),
			})
			repos, err := c.FetchRepos(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != outputTable {
				return writeStructured(out, output, repos)
			}

			if len(repos) == 0 {
				fmt.Fprintln(out, "No repositories found")
				return nil
			}
			rows := make([][]string, 0, len(repos))
			for _, r := range repos {
				rows = append(rows, []string{r.ID, r.Name})
			}
			return ui.WriteTable(out, []string{"ID", "Name"}, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	return cmd
}
