package cmd

import (
	"fmt"
	"strings"

	"github.com/IPDSnelting/velcom/internal/config"
	"github.com/IPDSnelting/velcom/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"
)

func newDefaultConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "default-config",
		Aliases: []string{"dc"},
		Short:   "Print a default configuration file",
		Long: `Print a commented default configuration file to stdout.

Redirect the output to ~/.config/velcom/velcom.conf and fill in the URLs and
the admin token of your velcom instance.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.WriteTemplate(cmd.OutOrStdout())
		},
	}
}

// configView is the show-config document for structured output.
type configView struct {
	Profile    string         `json:"profile" yaml:"profile"`
	ConfigFile string         `json:"config_file" yaml:"config_file"`
	Entries    []config.Entry `json:"entries" yaml:"entries"`
}

func newShowConfigCmd(opts *globalOptions) *cobra.Command {
	var (
		output      string
		showSecrets bool
	)

	cmd := &cobra.Command{
		Use:     "show-config",
		Aliases: []string{"sc"},
		Short:   "Display the resolved configuration",
		Long: `Display the active profile and every key that applies to it, including
keys inherited from DEFAULT. Secret values are masked unless --show-secrets
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output, outputTable, outputINI, outputJSON, outputYAML); err != nil {
				return err
			}

			store, err := opts.loadStore()
			if err != nil {
				return err
			}

			entries := store.Entries()
			if !showSecrets {
				for i, e := range entries {
					if isSecretKey(e.Key) {
						entries[i].Value = ui.Mask(e.Value)
					}
				}
			}

			out := cmd.OutOrStdout()
			switch output {
			case outputINI:
				f := ini.Empty()
				sec := f.Section(store.ProfileName())
				for _, e := range entries {
					_, _ = sec.NewKey(e.Key, e.Value)
				}
				_, err := f.WriteTo(out)
				return err

			case outputJSON, outputYAML:
				return writeStructured(out, output, configView{
					Profile:    store.ProfileName(),
					ConfigFile: store.Path(),
					Entries:    entries,
				})
			}

			path := store.Path()
			if path == "" {
				path = "(none found)"
			}
			fmt.Fprintf(out, "Profile:     %s\n", store.ProfileName())
			fmt.Fprintf(out, "Config file: %s\n", path)
			if len(entries) == 0 {
				fmt.Fprintln(out, "No keys set. Run 'velcom default-config' for a template.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Key, e.Value})
			}
			return ui.WriteTable(out, []string{"Key", "Value"}, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, ini, json, yaml)")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print secret values unmasked")
	return cmd
}

func isSecretKey(key string) bool {
	if key == config.KeyAdminPW {
		return true
	}
	for _, marker := range []string{"pw", "password", "secret", "token"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}
