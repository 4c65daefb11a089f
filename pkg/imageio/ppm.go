package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// ErrMalformedPPM is returned when PPM input cannot be parsed
var ErrMalformedPPM = errors.New("imageio: malformed ppm")

// maxPPMPixels bounds the image a header may declare (8192x8192)
const maxPPMPixels = 1 << 26

// WritePPM writes img as a plain-text (P3) PPM with maximum value 255.
// Rows are written top to bottom, one pixel per line.
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ppmReader tokenizes the whitespace-separated header and body of a P3 file,
// skipping '#' comments
type ppmReader struct {
	r *bufio.Reader
}

func (p *ppmReader) token() (string, error) {
	var buf []byte
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
		switch {
		case b == '#' && len(buf) == 0:
			if _, err := p.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(buf) > 0 {
				return string(buf), nil
			}
		default:
			buf = append(buf, b)
		}
	}
}

func (p *ppmReader) int() (int, error) {
	tok, err := p.token()
	if err != nil {
		if err == io.EOF {
			return 0, fmt.Errorf("%w: unexpected end of data", ErrMalformedPPM)
		}
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: bad number %q", ErrMalformedPPM, tok)
	}
	return v, nil
}

func (p *ppmReader) header() (width, height, maxVal int, err error) {
	magic, err := p.token()
	if err != nil || magic != "P3" {
		return 0, 0, 0, fmt.Errorf("%w: missing P3 magic", ErrMalformedPPM)
	}
	if width, err = p.int(); err != nil {
		return 0, 0, 0, err
	}
	if height, err = p.int(); err != nil {
		return 0, 0, 0, err
	}
	if width > 0 && height > maxPPMPixels/width {
		return 0, 0, 0, fmt.Errorf("%w: image size %dx%d too large", ErrMalformedPPM, width, height)
	}
	if maxVal, err = p.int(); err != nil {
		return 0, 0, 0, err
	}
	if maxVal == 0 || maxVal > 255 {
		return 0, 0, 0, fmt.Errorf("%w: unsupported maximum value %d", ErrMalformedPPM, maxVal)
	}
	return width, height, maxVal, nil
}

// DecodePPM reads a P3 PPM into an RGBA image
func DecodePPM(r io.Reader) (image.Image, error) {
	p := &ppmReader{r: bufio.NewReader(r)}
	width, height, maxVal, err := p.header()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rgb [3]int
			for i := range rgb {
				if rgb[i], err = p.int(); err != nil {
					return nil, err
				}
				if rgb[i] > maxVal {
					return nil, fmt.Errorf("%w: sample %d exceeds maximum %d", ErrMalformedPPM, rgb[i], maxVal)
				}
				rgb[i] = rgb[i] * 255 / maxVal
			}
			img.SetRGBA(x, y, color.RGBA{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2]), A: 255})
		}
	}
	return img, nil
}
