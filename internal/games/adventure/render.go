package adventure

import (
	"fmt"
	"math"

	"github.com/stubro-ai/stubro/internal/core"
)

const hudHeight = 3 // Title line, status line, blank line

// tileScale is how many screen cells one tile occupies.
type tileScale struct {
	w, h int
}

var tileScales = []tileScale{{w: 4, h: 2}, {w: 2, h: 1}}

// Render draws the level, checkpoints, player and HUD into dst.
// Question and feedback overlays belong to the platform.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	switch g.state {
	case StateGenerating:
		dst.DrawTextCentered(dst.Height()/2-1, "AI Level Designer is building your game...", core.ColorViolet)
		dst.DrawTextCentered(dst.Height()/2+1, "Get ready for an adventure!", core.ColorGray)
		return
	case StateError:
		dst.DrawTextCentered(dst.Height()/2-1, "Could not start Chapter Conquest", core.ColorRed)
		dst.DrawTextCentered(dst.Height()/2+1, g.ErrorMessage(), core.ColorDefault)
		return
	}

	g.renderHUD(dst)

	scale, ok := g.fitScale(dst.Width(), dst.Height()-hudHeight)
	if !ok {
		msg := fmt.Sprintf("Window too small: need %dx%d", g.level.Width()*2, g.level.Height()+hudHeight)
		dst.DrawTextCentered(dst.Height()/2, msg, core.ColorYellow)
		return
	}

	offX := (dst.Width() - g.level.Width()*scale.w) / 2
	offY := hudHeight
	g.renderGrid(dst, scale, offX, offY)
	g.renderPlayer(dst, scale, offX, offY)

	if g.state == StateCompleted {
		banner := fmt.Sprintf(" Chapter conquered! Final score: %d ", g.score)
		dst.DrawTextCentered(offY+g.level.Height()*scale.h/2, banner, core.ColorBrightGreen)
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextColor(1, 0, g.Title(), core.ColorViolet)
	score := fmt.Sprintf("Score: %d", g.score)
	dst.DrawTextColor(dst.Width()-len(score)-1, 0, score, core.ColorBrightYellow)

	status := fmt.Sprintf("Checkpoints %d/%d   WASD/arrows move   E interact   Esc back",
		len(g.completed), len(g.level.Interactions))
	dst.DrawTextColor(1, 1, status, core.ColorGray)
}

// fitScale picks the largest tile scale that fits the available area.
func (g *Game) fitScale(width, height int) (tileScale, bool) {
	for _, s := range tileScales {
		if g.level.Width()*s.w <= width && g.level.Height()*s.h <= height {
			return s, true
		}
	}
	return tileScale{}, false
}

func (g *Game) renderGrid(dst *core.Screen, s tileScale, offX, offY int) {
	for y, row := range g.level.Grid {
		for x, t := range row {
			sx, sy := offX+x*s.w, offY+y*s.h
			switch t.Type {
			case TileWall:
				fillTile(dst, sx, sy, s, '█', core.ColorGray)
			case TileExit:
				fillTile(dst, sx, sy, s, '▒', core.ColorBrightGreen)
			default:
				dst.SetColor(sx, sy, '·', core.ColorGray)
			}
		}
	}

	for _, in := range g.level.Interactions {
		cx := offX + in.Position.X*s.w + s.w/2
		cy := offY + in.Position.Y*s.h + (s.h-1)/2
		if g.Completed(in.ID) {
			dst.SetColor(cx, cy, '✓', core.ColorGreen)
		} else {
			dst.SetColor(cx, cy, '?', core.ColorYellow)
		}
	}
}

// renderPlayer paints every screen cell covered by the player's box.
func (g *Game) renderPlayer(dst *core.Screen, s tileScale, offX, offY int) {
	c := g.corners(g.pos)
	pxW := g.cfg.TileSize / float64(s.w)
	pxH := g.cfg.TileSize / float64(s.h)

	x0 := int(math.Floor(c[0].X / pxW))
	x1 := int(math.Ceil(c[3].X/pxW)) - 1
	y0 := int(math.Floor(c[0].Y / pxH))
	y1 := int(math.Ceil(c[3].Y/pxH)) - 1

	for y := y0; y <= max(y0, y1); y++ {
		for x := x0; x <= max(x0, x1); x++ {
			dst.SetColor(offX+x, offY+y, '█', core.ColorViolet)
		}
	}
}

func fillTile(dst *core.Screen, sx, sy int, s tileScale, r rune, c core.Color) {
	for dy := 0; dy < s.h; dy++ {
		for dx := 0; dx < s.w; dx++ {
			dst.SetColor(sx+dx, sy+dy, r, c)
		}
	}
}
