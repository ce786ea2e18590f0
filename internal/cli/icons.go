package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/architectures/pkg/icons"
	_ "github.com/matzehuels/architectures/pkg/icons/azure"
)

func (c *CLI) iconsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Explore provider services",
	}

	cmd.AddCommand(c.iconsListCommand())
	cmd.AddCommand(c.iconsBrowseCommand())

	return cmd
}

func (c *CLI) iconsListCommand() *cobra.Command {
	var provider, category string

	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List registered services",
		Long:  `List registered services. The optional filter matches service references and labels, case-insensitively.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			services := filterServices(icons.All(), provider, category, filter)
			if len(services) == 0 {
				printInfo("No services match")
				return nil
			}
			writeServiceTable(cmd.OutOrStdout(), services)
			printDetail("%d services", len(services))
			printNextStep("Pick one interactively", "architectures icons browse")
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "only services of this provider")
	cmd.Flags().StringVar(&category, "category", "", "only services in this category")

	return cmd
}

func (c *CLI) iconsBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [filter]",
		Short: "Pick a service and print its HCL block",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			services := filterServices(icons.All(), "", "", filter)
			if len(services) == 0 {
				printInfo("No services match")
				return nil
			}

			p := tea.NewProgram(NewIconListModel(services), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}

			m, ok := final.(IconListModel)
			if !ok || m.Selected == nil {
				printDetail("No selection made")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), serviceSnippet(*m.Selected))
			return nil
		},
	}
}

// filterServices keeps services matching provider, category and a
// case-insensitive substring of the reference or label. Empty criteria match all.
func filterServices(all []icons.Service, provider, category, filter string) []icons.Service {
	filter = strings.ToLower(filter)
	var out []icons.Service
	for _, svc := range all {
		if provider != "" && !strings.EqualFold(svc.Provider, provider) {
			continue
		}
		if category != "" && !strings.EqualFold(svc.Category, category) {
			continue
		}
		if filter != "" &&
			!strings.Contains(svc.Ref(), filter) &&
			!strings.Contains(strings.ToLower(svc.DefaultLabel()), filter) {
			continue
		}
		out = append(out, svc)
	}
	return out
}

func writeServiceTable(w io.Writer, services []icons.Service) {
	rows := make([][]string, len(services))
	for i, svc := range services {
		rows[i] = []string{svc.Ref(), svc.DefaultLabel()}
	}
	t := iconTable(rows, "Service", "Label").StyleFunc(func(row, col int) lipgloss.Style {
		if row == -1 {
			return styleHeader
		}
		if col == 1 {
			return lipgloss.NewStyle().Foreground(colorGray)
		}
		return lipgloss.NewStyle()
	})
	fmt.Fprintln(w, t.Render())
}
