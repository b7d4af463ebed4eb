// Package render draws rolled pool dice as a PNG strip of d10 faces.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	// TileWidth and TileHeight are the pixel size of one die face.
	TileWidth  = 62
	TileHeight = 66
	// PerLine is the number of faces drawn per row.
	PerLine = 10
	// MaxDice is the largest pool that is drawn.
	MaxDice = 100
	// Faces is the die size the renderer draws.
	Faces = 10
)

var (
	// ErrOverflow indicates a pool too large to draw. The roll itself is
	// still valid.
	ErrOverflow = errors.New("too many dice to render")
	// ErrNoDice indicates there is nothing to draw.
	ErrNoDice = errors.New("no dice to render")
	// ErrInvalidFace indicates a value outside 1..10.
	ErrInvalidFace = errors.New("die face out of range")
)

type palette struct {
	fill   color.RGBA
	dim    color.RGBA
	border color.RGBA
	text   color.RGBA
}

var (
	standardPalette = palette{
		fill:   color.RGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff},
		dim:    color.RGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xff},
		border: color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff},
		text:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
	specialPalette = palette{
		fill:   color.RGBA{R: 0x8b, G: 0x00, B: 0x00, A: 0xff},
		dim:    color.RGBA{R: 0xc0, G: 0x70, B: 0x70, A: 0xff},
		border: color.RGBA{R: 0x4a, G: 0x00, B: 0x00, A: 0xff},
		text:   color.RGBA{R: 0xff, G: 0xf0, B: 0xf0, A: 0xff},
	}
)

// Bounds returns the image size for n dice.
func Bounds(n int) image.Rectangle {
	if n <= 0 {
		return image.Rectangle{}
	}
	lines := (n + PerLine - 1) / PerLine
	cols := n
	if cols > PerLine {
		cols = PerLine
	}
	return image.Rect(0, 0, cols*TileWidth, lines*TileHeight)
}

// Render draws standard faces first and then special faces, left to right,
// PerLine per row.
func Render(standard, special []int) (image.Image, error) {
	total := len(standard) + len(special)
	switch {
	case total == 0:
		return nil, ErrNoDice
	case total > MaxDice:
		return nil, fmt.Errorf("%w: %d dice, limit %d", ErrOverflow, total, MaxDice)
	}

	img := image.NewRGBA(Bounds(total))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	i := 0
	for _, pool := range []struct {
		values []int
		colors palette
	}{
		{values: standard, colors: standardPalette},
		{values: special, colors: specialPalette},
	} {
		for _, face := range pool.values {
			if face < 1 || face > Faces {
				return nil, fmt.Errorf("%w: %d", ErrInvalidFace, face)
			}
			origin := image.Pt((i%PerLine)*TileWidth, (i/PerLine)*TileHeight)
			drawTile(img, origin, face, pool.colors)
			i++
		}
	}
	return img, nil
}

// EncodePNG renders the pool and writes it as PNG.
func EncodePNG(w io.Writer, standard, special []int) error {
	img, err := Render(standard, special)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// drawTile fills a kite-shaped d10 silhouette and writes the face value on it.
// Faces below 6 use the dimmed fill.
func drawTile(img *image.RGBA, origin image.Point, face int, colors palette) {
	fill := colors.fill
	if face < 6 {
		fill = colors.dim
	}
	kite := [4]image.Point{
		{X: TileWidth / 2, Y: 3},
		{X: TileWidth - 4, Y: TileHeight * 2 / 5},
		{X: TileWidth / 2, Y: TileHeight - 3},
		{X: 4, Y: TileHeight * 2 / 5},
	}
	for y := 0; y < TileHeight; y++ {
		for x := 0; x < TileWidth; x++ {
			inside, edge := classifyPoint(kite, x, y)
			switch {
			case edge:
				img.SetRGBA(origin.X+x, origin.Y+y, colors.border)
			case inside:
				img.SetRGBA(origin.X+x, origin.Y+y, fill)
			}
		}
	}

	label := strconv.Itoa(face)
	face7x13 := basicfont.Face7x13
	width := font.MeasureString(face7x13, label).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colors.text),
		Face: face7x13,
		Dot: fixed.P(
			origin.X+(TileWidth-width)/2,
			origin.Y+TileHeight*2/5+face7x13.Ascent/2,
		),
	}
	d.DrawString(label)
}

// classifyPoint reports whether (x, y) lies inside the convex quad and
// whether it is within one pixel of an edge.
func classifyPoint(quad [4]image.Point, x, y int) (inside, edge bool) {
	inside = true
	for i := range quad {
		a, b := quad[i], quad[(i+1)%len(quad)]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross < 0 {
			return false, false
		}
		dx, dy := b.X-a.X, b.Y-a.Y
		// cross/len is the distance to the edge; compare squared values.
		if cross*cross <= dx*dx+dy*dy {
			edge = true
		}
	}
	return inside, edge
}
