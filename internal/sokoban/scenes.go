package sokoban

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kestrelgo/kestrel/internal/core/ecs"
	"github.com/kestrelgo/kestrel/internal/core/event"
	"github.com/kestrelgo/kestrel/internal/core/system"
	"github.com/kestrelgo/kestrel/internal/data"
)

var (
	styleTitle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHint  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	roomColor  = tcell.NewRGBColor(29, 43, 83)
)

// Game holds what every scene shares.
type Game struct {
	Levels *data.LevelTable
	Screen tcell.Screen
}

// Title shows the game name and starts the first level on any key.
type Title struct {
	Game  *Game
	Start int

	unsubscribe func()
}

func (t *Title) Name() string { return "title" }

func (t *Title) Load(r *system.Runner) {
	w := r.World()
	ecs.AddSystem(w, &HUD{Screen: t.Game.Screen})

	ecs.Attach(w, w.Create(), Text{
		Lines: []string{"Sokoban!", "", "press a key to start"},
		Style: styleTitle,
	})
	ecs.Attach(w, w.Create(), Text{
		Lines:  []string{"arrows/wasd move   r restart   esc quit"},
		Style:  styleHint,
		Anchor: AnchorBottom,
	})

	t.unsubscribe = event.Subscribe(r.Events(), func(KeyDown) bool {
		r.LoadScene(&Play{Game: t.Game, Level: t.Start})
		return true
	})
}

func (t *Title) Update(*system.Runner, time.Duration) {}

func (t *Title) Unload(*system.Runner) {
	t.unsubscribe()
}

// Play runs one level. Solving it loads the next one.
type Play struct {
	Game  *Game
	Level int

	status ecs.Entity
}

func (p *Play) Name() string { return "play" }

func (p *Play) Load(r *system.Runner) {
	w := r.World()
	level := p.Game.Levels.Get(p.Level)
	if level == nil {
		r.Log().Warn("level out of range, starting over", zap.Int("level", p.Level))
		p.Level, level = 0, p.Game.Levels.Get(0)
	}

	// Renderer goes before the HUD so text stays on top.
	ecs.AddSystem(w, &HUD{Screen: p.Game.Screen})
	ecs.AddSystemBefore[*HUD](w, &Renderer{Screen: p.Game.Screen})
	ecs.AddSystem(w, &Collision{})
	ecs.AddSystem(w, &Animator{Events: r.Events()})

	ecs.Attach(w, w.Create(), Camera{Background: roomColor})
	LoadRoom(w, level, p.Level)

	p.status = w.Create()
	ecs.Attach(w, p.status, Text{Style: styleHint, Anchor: AnchorTop})
	ecs.Attach(w, w.Create(), Text{
		Lines:  []string{"arrows/wasd move   r restart   esc quit"},
		Style:  styleHint,
		Anchor: AnchorBottom,
	})

	bus := r.Events()
	event.Subscribe(bus, func(k KeyDown) bool { return p.keyDown(r, k) })
	event.Subscribe(bus, func(won Won) bool {
		next := p.Game.Levels.Next(won.Level)
		r.Log().Info("level solved",
			zap.Int("level", won.Level),
			zap.Int("moves", ecs.UnpackOne[Room](r.World()).Moves),
			zap.Int("next", next),
		)
		r.LoadScene(&Play{Game: p.Game, Level: next})
		return true
	})

	r.Log().Info("level loaded",
		zap.Int("level", p.Level),
		zap.String("name", level.Name),
		zap.Int("entities", w.Len()),
	)
}

func (p *Play) Update(r *system.Runner, _ time.Duration) {
	w := r.World()
	room := ecs.UnpackOne[Room](w)
	ecs.Unpack[Text](w, p.status).Lines = []string{
		fmt.Sprintf("level %d: %s   moves %d", room.Level+1, room.Name, room.Moves),
	}
}

// Unload has nothing to release: systems, entities and subscriptions all
// go with the world.
func (p *Play) Unload(*system.Runner) {}

func (p *Play) keyDown(r *system.Runner, k KeyDown) bool {
	w := r.World()
	if a, ok := ecs.GetSystem[*Animator](w); ok && a.Active() {
		return false
	}
	if k.Key == tcell.KeyRune && (k.Rune == 'r' || k.Rune == 'R') {
		r.LoadScene(&Play{Game: p.Game, Level: p.Level})
		return true
	}
	dir, ok := direction(k)
	if !ok {
		return false
	}
	player, ok := ecs.ViewOne1[Player](w)
	if !ok {
		return false
	}
	ecs.Attach(w, player, Move{Dir: dir})
	return true
}

func direction(k KeyDown) (Point, bool) {
	switch k.Key {
	case tcell.KeyUp:
		return Up, true
	case tcell.KeyDown:
		return Down, true
	case tcell.KeyLeft:
		return Left, true
	case tcell.KeyRight:
		return Right, true
	case tcell.KeyRune:
		switch k.Rune {
		case 'w', 'k':
			return Up, true
		case 's', 'j':
			return Down, true
		case 'a', 'h':
			return Left, true
		case 'd', 'l':
			return Right, true
		}
	}
	return Point{}, false
}
