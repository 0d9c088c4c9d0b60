package adventure

import (
	"github.com/stubro-ai/stubro/internal/core"
)

// move applies one tick of held movement keys. The tentative position is
// accepted only if all four corners of the player box land on in-bounds,
// non-wall tiles; otherwise the player stays put (no sliding along the free
// axis). Touching an exit with any corner completes the run.
func (g *Game) move(in core.InputFrame) bool {
	var d core.Vec
	if in.Has(core.ActionUp) {
		d.Y -= g.cfg.Speed
	}
	if in.Has(core.ActionDown) {
		d.Y += g.cfg.Speed
	}
	if in.Has(core.ActionLeft) {
		d.X -= g.cfg.Speed
	}
	if in.Has(core.ActionRight) {
		d.X += g.cfg.Speed
	}
	if d == (core.Vec{}) {
		return false
	}

	next := g.pos.Add(d)
	onExit, ok := g.checkBox(next)
	if !ok {
		return false
	}

	g.pos = next
	if onExit {
		g.state = StateCompleted
	}
	return true
}

// checkBox checks the player box at p. ok is false if any corner is outside
// the grid or on a wall; onExit is true if any corner is on an exit.
func (g *Game) checkBox(p core.Vec) (onExit, ok bool) {
	for _, c := range g.corners(p) {
		t, inside := g.level.TileAt(core.CellOf(c, g.cfg.TileSize))
		if !inside || t.Type == TileWall {
			return false, false
		}
		if t.Type == TileExit {
			onExit = true
		}
	}
	return onExit, true
}

// corners returns the four corners of the player box for a footprint whose
// top-left is p. The box is PlayerSizeRatio of a tile, centred in the tile.
func (g *Game) corners(p core.Vec) [4]core.Vec {
	size := g.cfg.TileSize
	inset := (size - size*g.cfg.PlayerSizeRatio) / 2
	left, top := p.X+inset, p.Y+inset
	right, bottom := p.X+size-inset, p.Y+size-inset

	return [4]core.Vec{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: left, Y: bottom},
		{X: right, Y: bottom},
	}
}

// Cell returns the grid cell the player is standing on (nearest tile).
func (g *Game) Cell() core.Point {
	return core.NearestCell(g.pos, g.cfg.TileSize)
}
