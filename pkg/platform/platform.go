// Package platform describes the static obstacles particles collide with.
package platform

import "image"

// Platform is a static run of bricks with one axis-aligned bounding box.
// Platforms are immutable once built; emitters and particles only read them.
type Platform struct {
	bounds image.Rectangle
	blocks []image.Rectangle
}

// New lays out numBricks bricks of the scaled brick extent starting at (x, y),
// left to right when horizontal and top to bottom otherwise. numBricks below 1
// is treated as a single brick.
func New(brickW, brickH int, scale float64, numBricks, x, y int, horizontal bool) Platform {
	if numBricks < 1 {
		numBricks = 1
	}

	w := int(float64(brickW) * scale)
	h := int(float64(brickH) * scale)

	blocks := make([]image.Rectangle, numBricks)
	for i := range blocks {
		bx, by := x, y
		if horizontal {
			bx += w * i
		} else {
			by += h * i
		}
		blocks[i] = image.Rect(bx, by, bx+w, by+h)
	}

	// 包围盒：第一块的左上角到最后一块的右下角
	bounds := image.Rectangle{Min: blocks[0].Min, Max: blocks[numBricks-1].Max}

	return Platform{bounds: bounds, blocks: blocks}
}

// FromRect builds a single-block platform covering r.
func FromRect(r image.Rectangle) Platform {
	return Platform{bounds: r, blocks: []image.Rectangle{r}}
}

// BoundingBox returns the box used for collision queries.
func (p Platform) BoundingBox() image.Rectangle {
	return p.bounds
}

// Blocks returns the individual brick boxes, for drawing.
func (p Platform) Blocks() []image.Rectangle {
	return p.blocks
}

// ContainsPoint reports whether (x, y) lies inside the bounding box.
func (p Platform) ContainsPoint(x, y int) bool {
	return image.Pt(x, y).In(p.bounds)
}

// AnyContains reports whether any platform contains (x, y).
func AnyContains(platforms []Platform, x, y int) bool {
	for _, p := range platforms {
		if p.ContainsPoint(x, y) {
			return true
		}
	}
	return false
}
