package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/dodge/internal/object"
)

// Surface draws into an ebiten image. Logical units map 1:1 to image pixels;
// ebiten scales the screen to the window.
type Surface struct {
	img        *ebiten.Image
	background color.NRGBA
	pixel      *ebiten.Image // 1x1 white, stretched and tinted for rotated squares
}

var _ object.Surface = (*Surface)(nil)

// NewSurface wraps img. ClearRect paints background.
func NewSurface(img *ebiten.Image, background color.NRGBA) *Surface {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &Surface{img: img, background: background, pixel: pixel}
}

// SetImage retargets the surface, typically to the screen passed to Draw.
func (s *Surface) SetImage(img *ebiten.Image) {
	s.img = img
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), s.background, false)
}

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.NRGBA) {
	vector.DrawFilledCircle(s.img, float32(cx), float32(cy), float32(r), c, true)
}

func (s *Surface) StrokeCircle(cx, cy, r float64, c color.NRGBA) {
	vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), 2, c, true)
}

func (s *Surface) FillRotatedRect(cx, cy, size, angle float64, c color.NRGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(size, size)
	op.GeoM.Rotate(angle)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(c)
	op.Filter = ebiten.FilterLinear
	s.img.DrawImage(s.pixel, op)
}
