package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/biblio/internal/config"
)

func newConfigCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		Long: `Inspect the effective configuration.

Values come from the config file, then BIBLIO_* environment variables
(BIBLIO_API_URL, BIBLIO_STORAGE_BACKEND, ...), then flags.`,
	}

	view := &cobra.Command{
		Use:         "view",
		Short:       "Print the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationApp: appConfig},
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.render(cmd, &configView{Config: *env.app.cfg})
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _ := cmd.Flags().GetString("config")
			if p == "" {
				p = config.DefaultPath()
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}

	cmd.AddCommand(view, path)
	return cmd
}

// configView prints as YAML in text mode
type configView struct {
	config.Config `yaml:",inline"`
}

// WriteText implements ux.TextWriter
func (c *configView) WriteText(w io.Writer) error {
	if c.File != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", c.File); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&c.Config); err != nil {
		return err
	}
	return enc.Close()
}
