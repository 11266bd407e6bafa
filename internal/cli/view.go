package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	scoreio "github.com/notationkit/stave/pkg/io"
)

// viewCommand creates the view command for browsing a computed layout.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [layout.json]",
		Short: "Browse a computed layout interactively",
		Long: `Browse a computed layout interactively.

The view command opens a terminal browser over a layout.json file
(produced by 'layout'). Systems are listed with their measure numbers,
tick ranges, and geometry; selecting a system shows the per-staff glyph
breakdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := scoreio.ImportLayout(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}
			if len(l.Systems) == 0 {
				printInfo("Layout has no systems")
				return nil
			}

			model := NewSystemListModel(l)
			p := tea.NewProgram(model)
			_, err = p.Run()
			return err
		},
	}
}
