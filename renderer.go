package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorDimGray   = color.RGBA{90, 90, 96, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorCyan      = color.RGBA{100, 255, 255, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}
	colorAccent    = color.RGBA{230, 120, 40, 255}

	colorPage      = color.RGBA{24, 24, 28, 255}
	colorPanel     = color.RGBA{36, 36, 42, 255}
	colorThumbSlot = color.RGBA{50, 50, 58, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128} // Light semi-transparent
	bgColorMedium = color.RGBA{0, 0, 0, 160} // Medium semi-transparent
	bgColorDark   = color.RGBA{0, 0, 0, 200} // Dark semi-transparent
	bgColorModal  = color.RGBA{0, 0, 0, 235}
)

const helpPadding = 40.0

// Renderer handles all drawing operations
type Renderer struct {
	renderState RenderState
	fontSource  *text.GoTextFaceSource

	// lastMain is the last texture shown as the main image. It stays on
	// screen while the next one loads.
	lastMain *ebiten.Image

	placeholder     *ebiten.Image
	placeholderSize image.Point
	placeholderText string
}

// NewRenderer creates a new Renderer. InitGraphics must have succeeded.
func NewRenderer(renderState RenderState) *Renderer {
	return &Renderer{
		renderState: renderState,
		fontSource:  globalFontSource,
	}
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.fontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorPage)

	l := r.renderState.GetLayout()
	view := r.renderState.GetGalleryView()

	r.drawMainImage(screen, l, view)
	if len(view.Images) > 1 {
		DrawChevron(screen, l.PrevArrow, true, colorWhite, bgColorMedium)
		DrawChevron(screen, l.NextArrow, false, colorWhite, bgColorMedium)
	}
	r.drawCounter(screen, l, view)
	if view.ThumbsVisible {
		r.drawStrip(screen, l.StripThumb, view, view.StripOffset, len(view.Images))
		if view.CanScrollLeft {
			DrawChevron(screen, l.StripLeft, true, colorWhite, bgColorDark)
		}
		if view.CanScrollRight {
			DrawChevron(screen, l.StripRight, false, colorWhite, bgColorDark)
		}
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoPanel(screen, l.Info)
	}

	if view.ModalOpen {
		r.drawModal(screen, l, view)
	}

	// Draw help overlay if enabled
	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	// Draw overlay message if active
	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

// mainTexture picks what to show for the selected image. While loading, the
// previous texture stays up so the area does not flash.
func (r *Renderer) mainTexture(view GalleryView, area Rect) (*ebiten.Image, bool) {
	if view.RenderedSrc != placeholderSrc {
		if tex, ok := r.renderState.GetTexture(view.RenderedSrc); ok && view.Status == LoadLoaded {
			r.lastMain = tex
			return tex, false
		}
	}

	switch {
	case view.Status == LoadLoading && r.lastMain != nil && !r.lastMain.Bounds().Empty():
		return r.lastMain, true
	case view.Status == LoadLoading:
		return r.placeholderImage(area, "Loading..."), true
	case view.Empty:
		r.lastMain = nil
		return r.placeholderImage(area, "No images"), false
	default:
		r.lastMain = nil
		return r.placeholderImage(area, "Image unavailable"), false
	}
}

func (r *Renderer) placeholderImage(area Rect, title string) *ebiten.Image {
	size := image.Pt(int(area.W), int(area.H))
	if r.placeholder == nil || r.placeholderSize != size || r.placeholderText != title {
		if r.placeholder != nil {
			r.placeholder.Deallocate()
		}
		r.placeholder = CreatePlaceholderImage(size.X, size.Y, title, "")
		r.placeholderSize = size
		r.placeholderText = title
	}
	return r.placeholder
}

func (r *Renderer) drawMainImage(screen *ebiten.Image, l Layout, view GalleryView) {
	area := l.MainImage
	DrawFilledRect(screen, area.X, area.Y, area.W, area.H, colorPanel)

	tex, loading := r.mainTexture(view, area)
	r.drawImageInRect(screen, tex, area)

	if loading {
		phase := float64(time.Now().UnixMilli()%1000) / 1000
		DrawSpinner(screen, area.X+area.W/2, area.Y+area.H/2, 22, phase, colorWhite)
	}
}

func (r *Renderer) drawCounter(screen *ebiten.Image, l Layout, view GalleryView) {
	if len(view.Images) < 2 {
		return
	}
	font := r.face(14)
	label := fmt.Sprintf("%d / %d", view.Index+1, len(view.Images))
	w, h := text.Measure(label, font, 0)
	x := l.MainImage.Right() - w - 16
	y := l.MainImage.Bottom() - h - 14
	DrawFilledRect(screen, x-6, y-4, w+12, h+8, bgColorLight)
	DrawText(screen, label, font, x, y, colorWhite)
}

// drawImageInRect fits img inside area, centred
func (r *Renderer) drawImageInRect(screen *ebiten.Image, img *ebiten.Image, area Rect) {
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	r.fitGeoM(&op.GeoM, img, area)
	screen.DrawImage(img, op)
}

func (r *Renderer) fitGeoM(geoM *ebiten.GeoM, img *ebiten.Image, area Rect) {
	scale := r.calculateImageScale(img, area.W, area.H)
	sw := float64(img.Bounds().Dx()) * scale
	sh := float64(img.Bounds().Dy()) * scale
	geoM.Scale(scale, scale)
	geoM.Translate(area.X+area.W/2-sw/2, area.Y+area.H/2-sh/2)
}

func (r *Renderer) calculateImageScale(img *ebiten.Image, maxW, maxH float64) float64 {
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	if iw == 0 || ih == 0 {
		return 1
	}

	if r.renderState.IsFullscreen() {
		return math.Min(maxW/iw, maxH/ih)
	}

	// In windowed mode, don't scale up small images
	if iw > maxW || ih > maxH {
		return math.Min(maxW/iw, maxH/ih)
	}
	return 1
}

// drawStrip draws the first count thumbnails clipped to area
func (r *Renderer) drawStrip(screen *ebiten.Image, area Rect, view GalleryView, offset float64, count int) {
	if area.W <= 0 || area.H <= 0 {
		return
	}
	clip := screen.SubImage(image.Rect(int(area.X), int(area.Y), int(area.Right()), int(area.Bottom()))).(*ebiten.Image)
	extent := area.H

	for i := 0; i < count && i < len(view.Images); i++ {
		cell := ThumbRect(area, offset, extent, i)
		if cell.Right() < area.X || cell.X > area.Right() {
			continue
		}

		DrawFilledRect(clip, cell.X, cell.Y, cell.W, cell.H, colorThumbSlot)
		if tex, ok := r.renderState.GetTexture(view.Images[i].Src); ok {
			r.drawImageInRect(clip, tex, cell)
		}
		if i == view.Index {
			DrawStrokeRect(clip, cell, 3, colorAccent)
		} else {
			DrawStrokeRect(clip, cell, 1, colorDimGray)
		}
	}
}

func (r *Renderer) drawModal(screen *ebiten.Image, l Layout, view GalleryView) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorModal)

	area := l.ModalImage
	clip := screen.SubImage(image.Rect(int(area.X), int(area.Y), int(area.Right()), int(area.Bottom()))).(*ebiten.Image)
	tex, loading := r.mainTexture(view, area)
	if tex != nil {
		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		r.fitGeoM(&op.GeoM, tex, area)

		// Zoom around the container centre, then pan
		z := view.Zoom
		cx, cy := area.X+area.W/2, area.Y+area.H/2
		op.GeoM.Translate(-cx, -cy)
		op.GeoM.Scale(z.Scale, z.Scale)
		op.GeoM.Translate(cx+z.X, cy+z.Y)
		clip.DrawImage(tex, op)
	}
	if loading {
		phase := float64(time.Now().UnixMilli()%1000) / 1000
		DrawSpinner(screen, area.X+area.W/2, area.Y+area.H/2, 26, phase, colorWhite)
	}

	if view.Zoom.Scale > 1 {
		font := r.face(16)
		label := fmt.Sprintf("%d%%", int(math.Round(view.Zoom.Scale*100)))
		b := l.ZoomBadge
		DrawFilledRect(screen, b.X, b.Y, b.W, b.H, bgColorDark)
		tw, th := text.Measure(label, font, 0)
		DrawText(screen, label, font, b.X+(b.W-tw)/2, b.Y+(b.H-th)/2, colorWhite)
	}

	DrawCross(screen, l.ModalClose, colorWhite, bgColorMedium)
	if len(view.Images) > 1 {
		DrawChevron(screen, l.ModalPrev, true, colorWhite, bgColorMedium)
		DrawChevron(screen, l.ModalNext, false, colorWhite, bgColorMedium)
	}

	r.drawStrip(screen, l.ModalStripThumb, view, view.ModalStripOffset, view.ModalThumbCount)
}

func (r *Renderer) drawInfoPanel(screen *ebiten.Image, area Rect) {
	p := r.renderState.GetProduct()
	if p == nil {
		return
	}
	DrawFilledRect(screen, area.X, area.Y, area.W, area.H, colorPanel)

	base := r.renderState.GetFontSize()
	titleFont := r.face(base * 1.4)
	bodyFont := r.face(base)
	smallFont := r.face(base * 0.85)
	lineHeight := base * 1.5
	x := area.X + 20
	y := area.Y + 16
	width := area.W - 40

	for _, line := range wrapText(p.Name, titleFont, width) {
		DrawText(screen, line, titleFont, x, y, colorWhite)
		y += base * 1.9
	}
	if p.Subtitle != "" {
		DrawText(screen, p.Subtitle, smallFont, x, y, colorGray)
		y += lineHeight
	}

	currency := r.renderState.GetCurrency()
	price := FormatPrice(currency, p.Price)
	DrawText(screen, price, bodyFont, x, y, colorAccent)
	if p.OnSale() {
		pw, _ := text.Measure(price+"  ", bodyFont, 0)
		was := fmt.Sprintf("was %s  -%d%%", FormatPrice(currency, p.RegularPrice), p.DiscountPercent())
		DrawText(screen, was, smallFont, x+pw, y+2, colorLightRed)
	}
	y += lineHeight

	stockColor := colorGreen
	if !p.InStock() {
		stockColor = colorOrange
	}
	DrawText(screen, p.StockLabel(), bodyFont, x, y, stockColor)
	y += lineHeight
	if p.CODAvailable {
		DrawText(screen, "Cash on delivery available", smallFont, x, y, colorLightBlue)
		y += lineHeight
	}

	y += lineHeight / 2
	for _, line := range wrapText(p.ShortDescription, bodyFont, width) {
		if y+lineHeight > area.Bottom()-lineHeight {
			break
		}
		DrawText(screen, line, bodyFont, x, y, colorGray)
		y += lineHeight
	}

	if len(p.RelatedNames) > 0 {
		related := "Related: " + strings.Join(p.RelatedNames, ", ")
		lines := wrapText(related, smallFont, width)
		DrawText(screen, lines[0], smallFont, x, area.Bottom()-lineHeight-8, colorCyan)
	}
}

// wrapText breaks s into lines no wider than width
func wrapText(s string, font *text.GoTextFace, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if w, _ := text.Measure(candidate, font, 0); w > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// helpRow is one action line of the help overlay
type helpRow struct {
	action      string
	keys        string
	mouse       string
	description string
}

// helpRows lists every action that has a key or mouse binding, sorted by name
func (r *Renderer) helpRows() []helpRow {
	keybindings := r.renderState.GetKeybindings()
	gestures := r.renderState.GetMouseGestures()
	descriptions := GetActionDescriptions()

	actionSet := make(map[string]bool)
	for action := range keybindings {
		actionSet[action] = true
	}
	for action := range gestures {
		actionSet[action] = true
	}

	rows := make([]helpRow, 0, len(actionSet))
	for action := range actionSet {
		keys, mouse := keybindings[action], gestures[action]
		if len(keys) == 0 && len(mouse) == 0 {
			continue
		}
		description := descriptions[action]
		if description == "" {
			description = "No description available"
		}
		rows = append(rows, helpRow{
			action:      action,
			keys:        strings.Join(keys, ", "),
			mouse:       strings.Join(mouse, ", "),
			description: description,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].action < rows[j].action })
	return rows
}

func (row helpRow) input() string {
	switch {
	case row.keys != "" && row.mouse != "":
		return row.keys + " | " + row.mouse
	case row.keys != "":
		return row.keys
	default:
		return row.mouse
	}
}

// helpWarnings returns at most two shortened config warnings
func helpWarnings(status ConfigLoadResult) []string {
	var out []string
	for i, warning := range status.Warnings {
		if i >= 2 {
			break
		}
		if len(warning) > 50 {
			warning = warning[:47] + "..."
		}
		out = append(out, warning)
	}
	return out
}

// helpColumns measures the action and input columns at font
func helpColumns(rows []helpRow, font *text.GoTextFace) (actionW, inputW, descW float64) {
	for _, row := range rows {
		w, _ := text.Measure(row.action, font, 0)
		actionW = max(actionW, w)
		w, _ = text.Measure(row.input(), font, 0)
		inputW = max(inputW, w)
		w, _ = text.Measure(row.description, font, 0)
		descW = max(descW, w)
	}
	return actionW, inputW, descW
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	optimalFontSize, canFit := r.calculateOptimalFontSize(w-helpPadding*2, h-helpPadding*2)

	// If cannot fit even with minimum font size, show Fermat's joke
	if !canFit {
		r.drawMarginTooSmallMessage(screen)
		return
	}

	rows := r.helpRows()
	configStatus := r.renderState.GetConfigStatus()
	helpFont := r.face(optimalFontSize)
	lineHeight := optimalFontSize * 1.5

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)

	titleY := helpPadding + 30
	DrawText(screen, "HELP:", helpFont, helpPadding+20, titleY, colorWhite)

	currentY := titleY + optimalFontSize*2
	DrawText(screen, "Controls (Keyboard | Mouse):", helpFont, helpPadding+20, currentY, colorWhite)
	currentY += lineHeight * 1.5

	maxActionWidth, maxInputWidth, _ := helpColumns(rows, helpFont)
	actionColumnX := helpPadding + 40
	arrowColumnX := actionColumnX + maxActionWidth + 20
	inputColumnX := arrowColumnX + 30
	descColumnX := inputColumnX + maxInputWidth + 20

	for _, row := range rows {
		DrawText(screen, row.action, helpFont, actionColumnX, currentY, colorLightBlue)
		DrawText(screen, "→", helpFont, arrowColumnX, currentY, colorWhite)

		// Keys in yellow, mouse gestures in cyan
		x := inputColumnX
		if row.keys != "" {
			DrawText(screen, row.keys, helpFont, x, currentY, colorYellow)
			kw, _ := text.Measure(row.keys, helpFont, 0)
			x += kw
		}
		if row.keys != "" && row.mouse != "" {
			DrawText(screen, " | ", helpFont, x, currentY, colorWhite)
			sw, _ := text.Measure(" | ", helpFont, 0)
			x += sw
		}
		if row.mouse != "" {
			DrawText(screen, row.mouse, helpFont, x, currentY, colorCyan)
		}

		DrawText(screen, row.description, helpFont, descColumnX, currentY, colorGray)
		currentY += lineHeight
	}

	currentY += lineHeight
	DrawText(screen, "System:", helpFont, helpPadding+20, currentY, colorWhite)
	currentY += lineHeight

	statusColor := colorGreen
	if configStatus.Status == "Warning" || configStatus.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, fmt.Sprintf("Config Status: %s", configStatus.Status), helpFont, helpPadding+40, currentY, statusColor)
	currentY += lineHeight

	for _, warning := range helpWarnings(configStatus) {
		DrawText(screen, "• "+warning, helpFont, helpPadding+40, currentY, colorLightRed)
		currentY += lineHeight
	}
}

// calculateRequiredDimensions calculates the required width and height for help content at a given font size
func (r *Renderer) calculateRequiredDimensions(fontSize float64) (float64, float64) {
	rows := r.helpRows()
	configStatus := r.renderState.GetConfigStatus()
	font := r.face(fontSize)
	lineHeight := fontSize * 1.5
	warnings := helpWarnings(configStatus)

	height := helpPadding*2 + fontSize*2 + lineHeight*1.5
	height += float64(len(rows)) * lineHeight
	height += lineHeight * 3 // spacing, "System:", status line
	height += float64(len(warnings)) * lineHeight

	maxWidth := 0.0
	fitLine := func(s string, indent float64) {
		w, _ := text.Measure(s, font, 0)
		maxWidth = max(maxWidth, w+helpPadding*2+indent)
	}
	fitLine("HELP:", 40)
	fitLine("Controls (Keyboard | Mouse):", 40)
	fitLine("System:", 40)
	fitLine(fmt.Sprintf("Config Status: %s", configStatus.Status), 80)
	for _, warning := range warnings {
		fitLine("• "+warning, 80)
	}

	actionW, inputW, descW := helpColumns(rows, font)
	maxWidth = max(maxWidth, 40+actionW+20+30+20+inputW+20+descW+helpPadding)

	return maxWidth, height
}

// calculateOptimalFontSize finds the largest font size that fits within the given dimensions
func (r *Renderer) calculateOptimalFontSize(availableWidth, availableHeight float64) (float64, bool) {
	maxFontSize := r.renderState.GetFontSize()
	minFontSize := 12.0

	fits := func(size float64) bool {
		w, h := r.calculateRequiredDimensions(size)
		return w <= availableWidth && h <= availableHeight
	}

	if !fits(minFontSize) {
		return minFontSize, false
	}
	if fits(maxFontSize) {
		return maxFontSize, true
	}

	// Binary search for optimal font size
	low, high := minFontSize, maxFontSize
	bestSize := minFontSize
	for high-low > 0.5 {
		mid := (low + high) / 2.0
		if fits(mid) {
			bestSize = mid
			low = mid
		} else {
			high = mid
		}
	}

	return bestSize, true
}

// drawMarginTooSmallMessage displays Fermat's margin joke when help cannot fit
func (r *Renderer) drawMarginTooSmallMessage(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)

	font := r.face(16)
	message := "Hanc marginis exiguitas non caperet."
	subtitle := "(This margin is too small to contain it.)"

	messageWidth, messageHeight := text.Measure(message, font, 0)
	subtitleWidth, _ := text.Measure(subtitle, font, 0)
	messageY := h/2 - messageHeight/2

	DrawText(screen, message, font, w/2-messageWidth/2, messageY, colorWhite)
	DrawText(screen, subtitle, font, w/2-subtitleWidth/2, messageY+messageHeight+10, colorGray)
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	messageFont := r.face(r.renderState.GetFontSize())
	message := r.renderState.GetOverlayMessage()

	textWidth, textHeight := text.Measure(message, messageFont, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, messageFont, boxX+padding, boxY+padding, colorWhite)
}
