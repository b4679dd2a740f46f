package platform

import (
	"image"
	"testing"
)

func TestNew_Layout(t *testing.T) {
	tests := []struct {
		name       string
		numBricks  int
		horizontal bool
		wantBounds image.Rectangle
		wantBlocks int
	}{
		{"horizontal run", 4, true, image.Rect(150, 500, 150+4*32, 500+16), 4},
		{"vertical run", 3, false, image.Rect(150, 500, 150+32, 500+3*16), 3},
		{"single brick", 1, true, image.Rect(150, 500, 182, 516), 1},
		{"zero bricks clamps to one", 0, false, image.Rect(150, 500, 182, 516), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(64, 32, 0.5, tt.numBricks, 150, 500, tt.horizontal)
			if p.BoundingBox() != tt.wantBounds {
				t.Errorf("BoundingBox() = %v, want %v", p.BoundingBox(), tt.wantBounds)
			}
			if len(p.Blocks()) != tt.wantBlocks {
				t.Errorf("len(Blocks()) = %d, want %d", len(p.Blocks()), tt.wantBlocks)
			}
		})
	}
}

func TestAnyContains(t *testing.T) {
	platforms := []Platform{
		FromRect(image.Rect(0, 0, 10, 10)),
		FromRect(image.Rect(100, 100, 110, 110)),
	}

	if !AnyContains(platforms, 105, 105) {
		t.Error("point inside second platform should be contained")
	}
	if AnyContains(platforms, 50, 50) {
		t.Error("point between platforms should not be contained")
	}
	if AnyContains(nil, 0, 0) {
		t.Error("empty platform list contains nothing")
	}
}
