// ABOUTME: Interactive workspace subcommand
// ABOUTME: Runs the bubbletea workspace on the alternate screen
package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/autoreach/tui"
)

// TUICommand blocks until the user quits the workspace
func TUICommand(opts tui.Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	return err
}
