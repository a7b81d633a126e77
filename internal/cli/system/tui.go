package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/standup/internal/cli"
	"github.com/julianstephens/standup/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		tui.NewModel(ctx.Engine, ctx.Habits, owner, ctx.Config.StorageTimeout),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}
