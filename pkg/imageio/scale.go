package imageio

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample resizes img to width x height with Catmull-Rom filtering.
// Rendered images are opaque, so no alpha premultiplication is needed.
func Downsample(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
