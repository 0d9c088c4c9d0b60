// Package tui provides the Bubble Tea presentation of StuBro: the adventure
// screen, the chapter menu, the scoreboard and the SSH server that serves them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stubro-ai/stubro/internal/games/adventure"
)

// TickMsg is sent to trigger a game simulation tick.
// Gen ties the tick to the adventure run that scheduled it, so ticks from a
// torn-down run are dropped instead of re-scheduled.
type TickMsg struct {
	Time time.Time
	Gen  int
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate, gen int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}

// levelMsg carries the result of a level generation request.
type levelMsg struct {
	gen   int
	level *adventure.Level
	err   error
}
