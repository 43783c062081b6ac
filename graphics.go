package main

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source for placeholder generation
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawStrokeRect outlines r
func DrawStrokeRect(screen *ebiten.Image, r Rect, width float64, c color.RGBA) {
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), float32(width), c, true)
}

// DrawRectBorder draws a 3px border inside a w by h image
func DrawRectBorder(img *ebiten.Image, w, h float64, c color.RGBA) {
	DrawFilledRect(img, 0, 0, w, 3, c)
	DrawFilledRect(img, 0, h-3, w, 3, c)
	DrawFilledRect(img, 0, 0, 3, h, c)
	DrawFilledRect(img, w-3, 0, 3, h, c)
}

// CreatePlaceholderImage creates the image shown when there is nothing to
// show or the selected image failed to load
func CreatePlaceholderImage(width, height int, title, detail string) *ebiten.Image {
	// Default size if not specified
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	img := ebiten.NewImage(width, height)
	img.Fill(color.RGBA{60, 60, 66, 255})
	DrawRectBorder(img, float64(width), float64(height), color.RGBA{120, 120, 130, 255})

	// Without a font the border alone marks the placeholder
	if globalFontSource == nil {
		return img
	}

	font := &text.GoTextFace{
		Source: globalFontSource,
		Size:   20.0,
	}

	// Truncate long text to fit within image bounds
	maxChars := (width - 20) / 10 // Rough estimate: 10px per character
	if maxChars > 3 && len(detail) > maxChars {
		detail = detail[:maxChars-3] + "..."
	}

	white := color.RGBA{230, 230, 230, 255}
	tw, _ := text.Measure(title, font, 0)
	DrawText(img, title, font, (float64(width)-tw)/2, float64(height)/2-24, white)
	if detail != "" {
		dw, _ := text.Measure(detail, font, 0)
		DrawText(img, detail, font, max((float64(width)-dw)/2, 10), float64(height)/2+6, white)
	}

	return img
}

// DrawSpinner draws a rotating arc centred on (cx, cy). phase is in turns.
func DrawSpinner(screen *ebiten.Image, cx, cy, radius, phase float64, c color.RGBA) {
	start := phase * 2 * math.Pi
	var path vector.Path
	path.Arc(float32(cx), float32(cy), float32(radius), float32(start), float32(start+1.5*math.Pi), vector.Clockwise)

	op := &vector.StrokeOptions{Width: 4, LineCap: vector.LineCapRound}
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, op)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(c.R) / 255
		vs[i].ColorG = float32(c.G) / 255
		vs[i].ColorB = float32(c.B) / 255
		vs[i].ColorA = float32(c.A) / 255
	}
	screen.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

var (
	whiteImage *ebiten.Image
	image1x1   = image.Rect(1, 1, 2, 2)
)

// whitePixel is the source texture for vector triangles
func whitePixel() *ebiten.Image {
	if whiteImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
	}
	return whiteImage.SubImage(image1x1).(*ebiten.Image)
}

// DrawChevron draws a left or right pointing arrow button in r
func DrawChevron(screen *ebiten.Image, r Rect, left bool, fg, bg color.RGBA) {
	vector.DrawFilledCircle(screen, float32(r.X+r.W/2), float32(r.Y+r.H/2), float32(r.W/2), bg, true)

	cx, cy := r.X+r.W/2, r.Y+r.H/2
	dx, dy := r.W/6, r.H/4
	if left {
		dx = -dx
	}
	vector.StrokeLine(screen, float32(cx-dx), float32(cy-dy), float32(cx+dx), float32(cy), 3, fg, true)
	vector.StrokeLine(screen, float32(cx+dx), float32(cy), float32(cx-dx), float32(cy+dy), 3, fg, true)
}

// DrawCross draws the close button in r
func DrawCross(screen *ebiten.Image, r Rect, fg, bg color.RGBA) {
	vector.DrawFilledCircle(screen, float32(r.X+r.W/2), float32(r.Y+r.H/2), float32(r.W/2), bg, true)
	inset := r.W / 3
	vector.StrokeLine(screen, float32(r.X+inset), float32(r.Y+inset), float32(r.Right()-inset), float32(r.Bottom()-inset), 3, fg, true)
	vector.StrokeLine(screen, float32(r.Right()-inset), float32(r.Y+inset), float32(r.X+inset), float32(r.Bottom()-inset), 3, fg, true)
}
