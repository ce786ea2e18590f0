package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/architectures/pkg/theme"
)

func (c *CLI) themesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "Inspect diagram themes",
	}

	cmd.AddCommand(c.themesListCommand())
	cmd.AddCommand(c.themesShowCommand())

	return cmd
}

func (c *CLI) themesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range theme.Names() {
				marker := "  "
				if name == c.config.Theme {
					marker = "* "
				}
				fmt.Fprintln(w, marker+name)
			}
			return nil
		},
	}
}

func (c *CLI) themesShowCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a theme as TOML",
		Long: `Print a theme as TOML. The output is a valid theme file: save it,
edit it and pass it back with --theme-file.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return theme.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := c.config.Theme
			if len(args) == 1 {
				name = args[0]
			}
			th, err := loadTheme(name, file)
			if err != nil {
				return err
			}
			return th.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "show the theme loaded from a TOML file")
	_ = cmd.MarkFlagFilename("file", "toml")

	return cmd
}
