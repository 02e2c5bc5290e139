// internal/ui/button.go
package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"go-bastion-defense/internal/config"
)

// Button представляет кликабельную кнопку в UI.
type Button struct {
	Rect    image.Rectangle
	Label   string
	BgColor color.RGBA
}

func NewButton(rect image.Rectangle, label string) *Button {
	return &Button{Rect: rect, Label: label, BgColor: config.GroundColor}
}

// IsClicked проверяет, был ли сделан клик по кнопке на этом кадре.
func (b *Button) IsClicked() bool {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	x, y := ebiten.CursorPosition()
	return image.Pt(x, y).In(b.Rect)
}

// Contains reports whether the point lies inside the button.
func (b *Button) Contains(x, y int) bool {
	return image.Pt(x, y).In(b.Rect)
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BgColor
	if x, y := ebiten.CursorPosition(); b.Contains(x, y) {
		bg = color.RGBA{
			R: bg.R + 20, G: bg.G + 20, B: bg.B + 20, A: bg.A,
		}
	}
	vector.DrawFilledRect(screen,
		float32(b.Rect.Min.X), float32(b.Rect.Min.Y),
		float32(b.Rect.Dx()), float32(b.Rect.Dy()), bg, false)
	vector.StrokeRect(screen,
		float32(b.Rect.Min.X), float32(b.Rect.Min.Y),
		float32(b.Rect.Dx()), float32(b.Rect.Dy()), 1, config.TextLightColor, false)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, b.Label)
	tx := b.Rect.Min.X + (b.Rect.Dx()-bounds.Dx())/2
	ty := b.Rect.Min.Y + (b.Rect.Dy()+bounds.Dy())/2
	text.Draw(screen, b.Label, face, tx, ty, config.TextLightColor)
}
