// Package ui provides the small set of immediate-style widgets used by the
// simulation window: sliders, checkboxes, buttons and a scrollable panel
// that stacks them vertically. Rendering uses ebiten's vector primitives
// and the debug text face; there is no external widget toolkit.
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack: it owns its own input handling
// and rendering, reports its height, and accepts the position the panel
// assigns during layout.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	SetPosition(x, y float64)
}

type panelItem struct {
	header string // non-empty for section headers
	widget Widget
}

const (
	panelPadding = 10
	headerHeight = 24
	titleHeight  = 28
)

// Panel stacks widgets vertically inside a fixed rectangle, with mouse
// wheel scrolling when the content overflows.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64

	items  []panelItem
	scroll float64
}

func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:  title,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// AddHeader inserts a section title between widgets.
func (p *Panel) AddHeader(title string) {
	p.items = append(p.items, panelItem{header: title})
}

// Add appends a widget to the panel, which takes over its position.
func (p *Panel) Add(w Widget) {
	p.items = append(p.items, panelItem{widget: w})
}

// AddSlider is a convenience for the most common widget.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(label, min, max, value)
	s.W = p.Width - 2*panelPadding
	p.Add(s)
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(label, value)
	p.Add(c)
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(label, onClick)
	b.W = p.Width - 2*panelPadding
	p.Add(b)
	return b
}

// Contains reports whether a screen coordinate falls inside the panel.
// The window uses it to keep panel clicks from retargeting the flow field.
func (p *Panel) Contains(x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

func (p *Panel) contentHeight() float64 {
	h := titleHeight + 0.0
	for _, it := range p.items {
		if it.widget == nil {
			h += headerHeight
		} else {
			h += it.widget.Height()
		}
	}
	return h
}

// layout assigns every widget its on-screen position for the current
// scroll offset.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.scroll
	for _, it := range p.items {
		if it.widget == nil {
			y += headerHeight
			continue
		}
		it.widget.SetPosition(p.X+panelPadding, y)
		y += it.widget.Height()
	}
}

// Update handles scrolling and forwards input to the widgets.
func (p *Panel) Update() {
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(float64(mx), float64(my)) {
		p.scroll -= dy * 20
		max := p.contentHeight() - p.Height
		if max < 0 {
			max = 0
		}
		if p.scroll < 0 {
			p.scroll = 0
		}
		if p.scroll > max {
			p.scroll = max
		}
	}

	p.layout()
	for _, it := range p.items {
		if it.widget != nil {
			it.widget.Update()
		}
	}
}

// Draw renders the panel chrome and every widget currently in view.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height),
		color.RGBA{R: 40, G: 40, B: 45, A: 230}, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height),
		2, color.RGBA{R: 100, G: 100, B: 110, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+panelPadding), int(p.Y+6))

	p.layout()
	y := p.Y + titleHeight - p.scroll
	for _, it := range p.items {
		if it.widget == nil {
			if y+headerHeight > p.Y+titleHeight && y < p.Y+p.Height {
				vector.FillRect(screen,
					float32(p.X+4), float32(y), float32(p.Width-8), 18,
					color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, it.header, int(p.X+panelPadding), int(y+2))
			}
			y += headerHeight
			continue
		}
		h := it.widget.Height()
		if y+h > p.Y+titleHeight && y < p.Y+p.Height {
			it.widget.Draw(screen)
		}
		y += h
	}
}
