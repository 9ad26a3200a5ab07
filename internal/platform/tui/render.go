package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/void-runner/internal/config"
	"github.com/vovakirdan/void-runner/internal/core"
	"github.com/vovakirdan/void-runner/internal/games/voidrun"
)

// Scene is everything drawn for one frame, copied out of the engine.
type Scene struct {
	State     voidrun.GameState
	Phase     voidrun.Phase
	Paused    bool
	Player    voidrun.PlayerState
	Objects   []voidrun.StreamObject
	Particles []voidrun.Particle
}

// CaptureScene copies the renderable state out of the engine.
func CaptureScene(e *voidrun.Engine) Scene {
	return Scene{
		State:     e.State(),
		Phase:     e.Phase(),
		Paused:    e.Paused(),
		Player:    e.Player(),
		Objects:   e.Objects(),
		Particles: e.Particles(),
	}
}

// Camera follows the ship from behind and above.
const (
	cameraFollow = 0.3
	cameraLift   = 3.0
	cameraBack   = 10.0
	nearPlane    = 1.0
	farPlane     = 240.0
	cellAspect   = 2.0 // Terminal cells are about twice as tall as wide
	ringSpacing  = 10.0
	ringMargin   = 4.0
)

// Camera is a pinhole projection onto the character grid.
type Camera struct {
	Pos    core.Vec3
	Focal  float64
	CX, CY float64
}

// NewCamera places the camera relative to the ship for a width×height grid.
func NewCamera(ship core.Vec3, width, height int) Camera {
	return Camera{
		Pos: core.Vec3{
			X: ship.X * cameraFollow,
			Y: ship.Y*cameraFollow + cameraLift,
			Z: ship.Z + cameraBack,
		},
		// 75° vertical field of view
		Focal: float64(height) / 2 / math.Tan(75.0/2*math.Pi/180),
		CX:    float64(width) / 2,
		CY:    float64(height) / 2,
	}
}

// Project maps a world point to a cell. ok is false behind the near
// plane or beyond the far plane.
func (c Camera) Project(p core.Vec3) (x, y int, depth float64, ok bool) {
	rel := p.Sub(c.Pos)
	depth = -rel.Z
	if depth < nearPlane || depth > farPlane {
		return 0, 0, depth, false
	}
	sx := c.CX + rel.X/depth*c.Focal*cellAspect
	sy := c.CY - rel.Y/depth*c.Focal
	return int(math.Round(sx)), int(math.Round(sy)), depth, true
}

// Span returns the half size in cells of a world half extent at depth.
func (c Camera) Span(half core.Vec3, depth float64) (hx, hy int) {
	hx = int(half.X / depth * c.Focal * cellAspect)
	hy = int(half.Y / depth * c.Focal)
	return hx, hy
}

// Renderer draws scenes into a Screen.
type Renderer struct {
	cfg config.VoidConfig
}

// NewRenderer creates a renderer for the given tuning.
func NewRenderer(cfg config.VoidConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Draw renders the corridor, stream, particles, ship, HUD and the
// overlay for the current phase.
func (r *Renderer) Draw(s *core.Screen, sc Scene) {
	s.Clear()
	if s.Width() == 0 || s.Height() == 0 {
		return
	}
	cam := NewCamera(sc.Player.Position, s.Width(), s.Height())

	r.drawCorridor(s, cam, sc.Player.Position.Z)
	r.drawObjects(s, cam, sc.Objects)
	r.drawParticles(s, cam, sc.Particles)
	if sc.Phase != voidrun.PhaseTerminal {
		r.drawShip(s, cam, sc.Player)
	}

	switch {
	case sc.Phase == voidrun.PhaseIdle:
		r.drawMenu(s, sc.State)
	case sc.Phase == voidrun.PhaseTerminal:
		r.drawHUD(s, sc.State)
		r.drawGameOver(s, sc.State)
	case sc.Paused:
		r.drawHUD(s, sc.State)
		drawPanel(s, []panelLine{
			{"PAUSED", core.ColorCyan},
			{"", core.ColorDefault},
			{"[P] RESUME   [R] RESTART   [Q] QUIT", core.ColorGray},
		}, core.ColorCyan)
	default:
		r.drawHUD(s, sc.State)
	}
}

// drawCorridor draws the tunnel rings every ringSpacing units ahead.
func (r *Renderer) drawCorridor(s *core.Screen, cam Camera, shipZ float64) {
	bx := r.cfg.Player.Bounds.X + ringMargin
	by := r.cfg.Player.Bounds.Y + ringMargin

	start := math.Floor(shipZ/ringSpacing) * ringSpacing
	for z := start; ; z -= ringSpacing {
		x0, y0, depth, ok := cam.Project(core.Vec3{X: -bx, Y: by, Z: z})
		if depth > farPlane {
			break
		}
		if !ok || depth < 4 {
			continue
		}
		x1, y1, _, _ := cam.Project(core.Vec3{X: bx, Y: -by, Z: z})

		c := core.ColorPurple
		dot := '·'
		if depth > farPlane/2 {
			c = core.ColorGray
		}
		drawOutline(s, x0, y0, x1, y1, dot, c)
	}
}

// drawOutline draws a dotted rectangle clipped to the screen.
func drawOutline(s *core.Screen, x0, y0, x1, y1 int, r rune, c core.Color) {
	w, h := s.Width(), s.Height()
	for x := max(x0, 0); x <= min(x1, w-1); x += 2 {
		s.SetColored(x, y0, r, c)
		s.SetColored(x, y1, r, c)
	}
	for y := max(y0, 0); y <= min(y1, h-1); y++ {
		s.SetColored(x0, y, r, c)
		s.SetColored(x1, y, r, c)
	}
}

type projected struct {
	obj   voidrun.StreamObject
	x, y  int
	depth float64
}

// drawObjects paints the stream far to near so closer objects overdraw.
func (r *Renderer) drawObjects(s *core.Screen, cam Camera, objects []voidrun.StreamObject) {
	visible := make([]projected, 0, len(objects))
	for _, o := range objects {
		if !o.Active {
			continue
		}
		x, y, depth, ok := cam.Project(o.Position)
		if !ok {
			continue
		}
		visible = append(visible, projected{obj: o, x: x, y: y, depth: depth})
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].depth > visible[j].depth })

	for _, p := range visible {
		glyph, c := objectGlyph(p.obj)
		half := p.obj.Bounds.Size().Scale(0.5)
		hx, hy := cam.Span(half, p.depth)
		s.DrawRect(clip(core.NewRect(p.x-hx, p.y-hy, 2*hx+1, 2*hy+1), s), glyph, c)
	}
}

// clip limits r to the screen so huge near objects stay cheap to fill.
func clip(r core.Rect, s *core.Screen) core.Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.Right(), s.Width()), min(r.Bottom(), s.Height())
	if x1 <= x0 || y1 <= y0 {
		return core.Rect{}
	}
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

func objectGlyph(o voidrun.StreamObject) (rune, core.Color) {
	switch o.Kind {
	case voidrun.KindWall:
		return '█', core.ColorBlue
	case voidrun.KindCollectible:
		if int(o.Spin*2)%2 == 1 {
			return '◇', core.ColorYellow
		}
		return '◆', core.ColorYellow
	default:
		return '▓', core.ColorRed
	}
}

func (r *Renderer) drawParticles(s *core.Screen, cam Camera, particles []voidrun.Particle) {
	for _, p := range particles {
		x, y, _, ok := cam.Project(p.Position)
		if !ok {
			continue
		}
		glyph := '*'
		if p.Life < 0.5 {
			glyph = '·'
		}
		s.SetColored(x, y, glyph, p.Color)
	}
}

var shieldGlyphs = []rune{'◜', '◝', '◞', '◟'}

func (r *Renderer) drawShip(s *core.Screen, cam Camera, p voidrun.PlayerState) {
	x, y, _, ok := cam.Project(p.Position)
	if !ok {
		return
	}
	left, right := '◢', '◣'
	// Lower the wing on the side the ship is banking toward
	switch {
	case p.Bank > 0.3:
		left = '▄'
	case p.Bank < -0.3:
		right = '▄'
	}
	s.SetColored(x-1, y, left, core.ColorCyan)
	s.SetColored(x, y, '▲', core.ColorCyan)
	s.SetColored(x+1, y, right, core.ColorCyan)

	if p.ShieldIntensity > 0 {
		s.SetColored(x-3, y, '(', core.ColorGreen)
		s.SetColored(x+3, y, ')', core.ColorGreen)
		quadrant := int(math.Mod(math.Abs(p.ShieldSpin), 2*math.Pi) / (math.Pi / 2))
		s.SetColored(x, y-1, shieldGlyphs[quadrant%len(shieldGlyphs)], core.ColorGreen)
	}
}

func (r *Renderer) drawHUD(s *core.Screen, st voidrun.GameState) {
	w, h := s.Width(), s.Height()

	s.DrawTextColored(1, 0, "SCORE "+humanize.Comma(int64(st.Score)), core.ColorCyan)
	s.DrawTextColored(1, 1, fmt.Sprintf("x%d MULTIPLIER", st.Multiplier), core.ColorMagenta)

	lives := strings.Repeat("♥", st.Lives) + strings.Repeat("♡", max(0, r.cfg.Player.Lives-st.Lives))
	shield := r.shieldGauge(st)
	right := fmt.Sprintf("INTEGRITY %s  SHIELD %s", lives, shield)
	s.DrawTextColored(w-len([]rune(right))-1, 0, right, core.ColorRed)
	if st.ShieldActive {
		s.DrawTextColored(w-len([]rune(shield))-1, 0, shield, core.ColorGreen)
	}

	s.DrawTextCentered(h-1, fmt.Sprintf("%d KM/H", int(st.Speed)), core.ColorWhite)
	s.DrawTextColored(1, h-1, fmt.Sprintf("%d KM", int(st.Distance)), core.ColorGray)
	hi := "HI " + humanize.Comma(int64(st.HighScore))
	s.DrawTextColored(w-len(hi)-1, h-1, hi, core.ColorGray)
}

// shieldGauge shows the remaining active time or the recharge progress.
func (r *Renderer) shieldGauge(st voidrun.GameState) string {
	if st.ShieldActive {
		return fmt.Sprintf("ACTIVE %.1fs", st.ShieldRemaining)
	}
	if st.ShieldCooldown <= 0 {
		return "READY"
	}
	const cells = 5
	full := cells
	if cd := r.cfg.Shield.Cooldown; cd > 0 {
		full = int(float64(cells) * (cd - st.ShieldCooldown) / cd)
	}
	full = core.Clamp(full, 0, cells)
	return strings.Repeat("▰", full) + strings.Repeat("▱", cells-full)
}

func (r *Renderer) drawMenu(s *core.Screen, st voidrun.GameState) {
	drawPanel(s, []panelLine{
		{"V O I D   R U N N E R", core.ColorCyan},
		{"", core.ColorDefault},
		{"[ENTER] INITIALIZE RUN", core.ColorWhite},
		{"", core.ColorDefault},
		{"HIGH SCORE: " + humanize.Comma(int64(st.HighScore)), core.ColorMagenta},
		{"", core.ColorDefault},
		{"[W/A/S/D] or [ARROWS] to Move", core.ColorGray},
		{"[MOUSE] to Steer", core.ColorGray},
		{"[SPACE] for Shield", core.ColorGray},
		{"[SHIFT+ARROWS] or [B] for Boost", core.ColorGray},
	}, core.ColorCyan)
}

func (r *Renderer) drawGameOver(s *core.Screen, st voidrun.GameState) {
	lines := []panelLine{
		{"SYSTEM FAILURE", core.ColorRed},
		{"SIGNAL LOST", core.ColorGray},
		{"", core.ColorDefault},
		{fmt.Sprintf("FINAL SCORE  %12s", humanize.Comma(int64(st.Score))), core.ColorWhite},
		{fmt.Sprintf("DISTANCE     %9d KM", int(st.Distance)), core.ColorCyan},
		{fmt.Sprintf("MAX COMBO    %11s", fmt.Sprintf("x%d", st.MaxMultiplier)), core.ColorMagenta},
	}
	if st.Score > 0 && st.Score >= st.HighScore {
		lines = append(lines, panelLine{"NEW HIGH SCORE", core.ColorYellow})
	}
	lines = append(lines,
		panelLine{"", core.ColorDefault},
		panelLine{"[ENTER] REBOOT SYSTEM   [Q] QUIT", core.ColorRed},
	)
	drawPanel(s, lines, core.ColorRed)
}

type panelLine struct {
	text  string
	color core.Color
}

// drawPanel draws a bordered box with centered lines in the middle of
// the screen.
func drawPanel(s *core.Screen, lines []panelLine, border core.Color) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l.text)))
	}
	width += 6
	height := len(lines) + 2

	x := (s.Width() - width) / 2
	y := (s.Height() - height) / 2
	rect := core.NewRect(x, y, width, height)
	s.DrawRect(rect, ' ', core.ColorDefault)
	s.DrawBox(rect, border)
	for i, l := range lines {
		s.DrawTextCentered(y+1+i, l.text, l.color)
	}
}
