package simulation

import (
	"github.com/anaseto/gruid"
	"github.com/anaseto/gruid/rl"

	"frontier.dev/internal/models"
)

// ComputeFOV clears the visible flags of a floor then marks the cells seen
// from origin within radius, using symmetric shadowcasting. It returns the
// cells explored for the first time.
func ComputeFOV(floor *models.FloorMap, origin models.Point, radius int) []models.Point {
	floor.ClearFlags(models.CellVisible)
	if !floor.InBounds(origin) {
		return nil
	}

	// the scan only covers the square around the origin
	window := gruid.NewRange(
		max(origin.X-radius, 0), max(origin.Y-radius, 0),
		min(origin.X+radius+1, floor.Width), min(origin.Y+radius+1, floor.Height),
	)
	passable := func(p gruid.Point) bool {
		q := models.Point{X: p.X, Y: p.Y}
		return floor.InBounds(q) && floor.At(q).Decoration.Transparent()
	}

	var explored []models.Point
	reveal := func(p models.Point) {
		if !floor.InBounds(p) || models.SquareDistance(origin, p) > radius*radius {
			return
		}
		cell := floor.At(p)
		cell.Flags |= models.CellVisible
		if cell.Flags&models.CellExplored == 0 {
			cell.Flags |= models.CellExplored
			explored = append(explored, p)
		}
	}

	reveal(origin)
	fov := rl.NewFOV(window)
	for _, p := range fov.SSCVisionMap(gruid.Point{X: origin.X, Y: origin.Y}, radius, passable, true) {
		reveal(models.Point{X: p.X, Y: p.Y})
	}
	return explored
}
