package imageio

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestDownsample_Size(t *testing.T) {
	dst := Downsample(testImage(8, 6), 4, 3)
	if dst.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("Expected 4x3 output, got %v", dst.Bounds())
	}
}

func TestDownsample_UniformColor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 8))
	fill := color.RGBA{100, 150, 200, 255}
	draw.Draw(src, src.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	dst := Downsample(src, 8, 4)
	for i := 0; i < len(dst.Pix); i += 4 {
		for c, want := range []uint8{fill.R, fill.G, fill.B, fill.A} {
			got := dst.Pix[i+c]
			if diff := int(got) - int(want); diff < -1 || diff > 1 {
				t.Fatalf("Channel %d at offset %d: expected %d, got %d", c, i, want, got)
			}
		}
	}
}

func TestDownsample_AveragesCheckerboard(t *testing.T) {
	// A 2x2 checkerboard reduced by half blends to mid grey
	src := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			src.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}

	dst := Downsample(src, 16, 16)
	// Interior pixels are away from edge effects
	got := dst.RGBAAt(8, 8).R
	if got < 100 || got > 155 {
		t.Errorf("Expected mid grey near 128, got %d", got)
	}
}
