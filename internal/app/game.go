// Package app wires the simulation core to an ebiten window: the fixed-TPS
// game loop, agent rendering, the tuning panel and the mouse-driven flow
// field target.
package app

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flowfield"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

// whiteImage is the 1-pixel source for untextured triangle batches.
var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.White)
}

// Game implements ebiten.Game around a flock.Engine. The engine's world is
// centered on the origin; the screen origin is the top-left corner, so
// rendering and mouse input shift by the half-extents.
type Game struct {
	engine *flock.Engine
	field  *flowfield.Field
	cfg    *flock.Config
	rng    *rand.Rand

	panel *ui.Panel

	widgetSeparationWeight *ui.Slider
	widgetAlignmentWeight  *ui.Slider
	widgetCohesionWeight   *ui.Slider
	widgetSeparationRadius *ui.Slider
	widgetNeighborRadius   *ui.Slider
	widgetSeekWeight       *ui.Slider
	widgetShowSeparation   *ui.Checkbox
	widgetShowNeighbor     *ui.Checkbox
	widgetPaused           *ui.Checkbox

	target    geometry.Vector3D
	hasTarget bool

	// Exponential moving averages of per-frame timings, in milliseconds.
	updateAvg float64
	drawAvg   float64
}

// NewGame builds the window state around an already-populated engine.
func NewGame(engine *flock.Engine) *Game {
	cfg := engine.Config()

	field := flowfield.New(cfg.WorldWidth/2, cfg.WorldHeight/2, cfg.FlowFieldResolution, cfg.SeekWeight)
	engine.AddForceSource(field)

	panel := ui.NewPanel("Flocking", 10, 10, 220, cfg.WorldHeight-20)

	panel.AddHeader("Rule Weights")
	wSep := panel.AddSlider("Separation", 0, 5, cfg.SeparationWeight)
	wAli := panel.AddSlider("Alignment", 0, 5, cfg.AlignmentWeight)
	wCoh := panel.AddSlider("Cohesion", 0, 5, cfg.CohesionWeight)

	panel.AddHeader("Radii")
	wSepR := panel.AddSlider("Separation Radius", 5, 100, cfg.DesiredSeparation)
	wNbrR := panel.AddSlider("Neighbor Radius", 10, 200, cfg.NeighborDistance)

	panel.AddHeader("Flow Field")
	wSeek := panel.AddSlider("Seek Weight", 0, 2, cfg.SeekWeight)

	panel.AddHeader("Visualization")
	wShowSep := panel.AddCheckbox("Show Separation Radius", false)
	wShowNbr := panel.AddCheckbox("Show Neighbor Radius", false)
	wPaused := panel.AddCheckbox("Paused", false)

	g := &Game{
		engine:                 engine,
		field:                  field,
		cfg:                    cfg,
		rng:                    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		panel:                  panel,
		widgetSeparationWeight: wSep,
		widgetAlignmentWeight:  wAli,
		widgetCohesionWeight:   wCoh,
		widgetSeparationRadius: wSepR,
		widgetNeighborRadius:   wNbrR,
		widgetSeekWeight:       wSeek,
		widgetShowSeparation:   wShowSep,
		widgetShowNeighbor:     wShowNbr,
		widgetPaused:           wPaused,
	}

	panel.AddHeader("Population")
	panel.AddButton("Respawn", func() {
		g.engine.Reset()
		g.engine.SpawnRandom(cfg.NumAgents, g.rng)
	})

	return g
}

// Update advances the simulation by one fixed tick and applies the panel's
// current values beforehand, so slider changes take effect on the very next
// step.
func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()

	g.cfg.SeparationWeight = g.widgetSeparationWeight.Value
	g.cfg.AlignmentWeight = g.widgetAlignmentWeight.Value
	g.cfg.CohesionWeight = g.widgetCohesionWeight.Value
	g.cfg.DesiredSeparation = g.widgetSeparationRadius.Value
	g.cfg.NeighborDistance = g.widgetNeighborRadius.Value
	g.field.SeekWeight = g.widgetSeekWeight.Value

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if !g.panel.Contains(float64(mx), float64(my)) {
			g.target = g.screenToWorld(float64(mx), float64(my))
			g.hasTarget = true
			g.field.Retarget(g.target)
		}
	}

	if !g.widgetPaused.Value {
		g.engine.Step(1)
	}
	return nil
}

func (g *Game) screenToWorld(x, y float64) geometry.Vector3D {
	return geometry.Vector3D{X: x - g.cfg.WorldWidth/2, Y: y - g.cfg.WorldHeight/2}
}

func (g *Game) worldToScreen(p geometry.Vector3D) (float32, float32) {
	return float32(p.X + g.cfg.WorldWidth/2), float32(p.Y + g.cfg.WorldHeight/2)
}

// Draw renders the agents, the flow-field target, the panel and the stats
// overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	agents := g.engine.Agents()
	for i := range agents {
		a := &agents[i]
		sx, sy := g.worldToScreen(a.Pos)

		if g.widgetShowSeparation.Value {
			vector.StrokeCircle(screen, sx, sy, float32(g.cfg.DesiredSeparation),
				1, color.RGBA{R: 255, G: 80, B: 80, A: 60}, true)
		}
		if g.widgetShowNeighbor.Value {
			vector.StrokeCircle(screen, sx, sy, float32(g.cfg.NeighborDistance),
				1, color.RGBA{R: 80, G: 120, B: 255, A: 40}, true)
		}

		drawAgent(screen, float64(sx), float64(sy), a.Heading())
	}

	if g.hasTarget {
		tx, ty := g.worldToScreen(g.target)
		vector.StrokeCircle(screen, tx, ty, 6, 2, color.RGBA{R: 100, G: 255, B: 100, A: 255}, true)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("Agents: %d\nIndex: %s\nFPS: %.1f\nTPS: %.1f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		g.engine.Len(),
		g.cfg.IndexStrategy,
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, int(g.cfg.WorldWidth)-150, 10)
}

// Layout pins the render size to the configured viewport.
func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight)
}

// drawAgent renders one triangle pointing along the heading, batched
// through DrawTriangles against the shared white source image.
func drawAgent(screen *ebiten.Image, x, y, heading float64) {
	tipX := x + math.Cos(heading)*6
	tipY := y + math.Sin(heading)*6
	rightX := x + math.Cos(heading+2.5)*5
	rightY := y + math.Sin(heading+2.5)*5
	leftX := x + math.Cos(heading-2.5)*5
	leftY := y + math.Sin(heading-2.5)*5

	vertices := []ebiten.Vertex{
		{DstX: float32(tipX), DstY: float32(tipY), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: float32(rightX), DstY: float32(rightY), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: float32(leftX), DstY: float32(leftY), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2}
	screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}
