package terminal

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyhold/internal/input/key"
)

// Default timings.
const (
	DefaultReleaseAfter = 120 * time.Millisecond
	DefaultRepeatDelay  = 500 * time.Millisecond
)

// Option configures a Terminal.
type Option func(*Terminal)

// WithReleaseAfter sets how long a key stays down without a repeat.
func WithReleaseAfter(d time.Duration) Option {
	return func(t *Terminal) {
		if d > 0 {
			t.releaseAfter = d
		}
	}
}

// WithRepeatDelay sets the extra time a fresh press is held before its
// first repeat is expected.
func WithRepeatDelay(d time.Duration) Option {
	return func(t *Terminal) {
		if d >= 0 {
			t.repeatDelay = d
		}
	}
}

// heldKey is a key the terminal considers down.
type heldKey struct {
	id       identity
	down     key.Event
	lastSeen time.Time
	repeated bool
}

// identity distinguishes physical keys. Shift is ignored so that "w" and
// "W" are the same key.
type identity struct {
	code int
	key  key.Key
	mods key.Modifier
}

func identify(e key.Event) identity {
	return identity{code: e.Code, key: e.Key, mods: e.Modifiers.Without(key.ModShift)}
}

// Terminal wraps a tcell screen.
type Terminal struct {
	screen       tcell.Screen
	releaseAfter time.Duration
	repeatDelay  time.Duration

	mu   sync.Mutex
	held []*heldKey
}

// New wraps screen. The screen is not initialized.
func New(screen tcell.Screen, opts ...Option) *Terminal {
	t := &Terminal{
		screen:       screen,
		releaseAfter: DefaultReleaseAfter,
		repeatDelay:  DefaultRepeatDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open creates a Terminal on the controlling terminal.
func Open(opts ...Option) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return New(screen, opts...), nil
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.HideCursor()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Screen returns the underlying screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Events polls the screen until done is closed or the screen is finalized.
func (t *Terminal) Events(done <-chan struct{}) <-chan tcell.Event {
	ch := make(chan tcell.Event, 64)
	go func() {
		defer close(ch)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			case <-done:
				return
			}
		}
	}()
	return ch
}

// Translate converts a tcell key event. It returns true only when the event
// is a new press; repeats of a held key extend the hold and return false.
func (t *Terminal) Translate(ev *tcell.EventKey) (key.Event, bool) {
	e, ok := convertEvent(ev.Key(), ev.Rune(), ev.Modifiers())
	if !ok {
		return key.Event{}, false
	}
	e.Timestamp = ev.When()
	return t.press(e)
}

func (t *Terminal) press(e key.Event) (key.Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := identify(e)
	for _, h := range t.held {
		if h.id == id {
			h.lastSeen = e.Timestamp
			h.repeated = true
			return key.Event{}, false
		}
	}
	t.held = append(t.held, &heldKey{id: id, down: e, lastSeen: e.Timestamp})
	return e, true
}

// Expire returns key-up events, in press order, for the keys whose hold
// has lapsed at now.
func (t *Terminal) Expire(now time.Time) []key.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ups []key.Event
	kept := t.held[:0]
	for _, h := range t.held {
		limit := t.releaseAfter
		if !h.repeated {
			limit += t.repeatDelay
		}
		if now.Sub(h.lastSeen) >= limit {
			ups = append(ups, released(h, now))
			continue
		}
		kept = append(kept, h)
	}
	clear(t.held[len(kept):])
	t.held = kept
	return ups
}

// ReleaseAll releases every held key.
func (t *Terminal) ReleaseAll(now time.Time) []key.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	ups := make([]key.Event, 0, len(t.held))
	for _, h := range t.held {
		ups = append(ups, released(h, now))
	}
	t.held = nil
	return ups
}

// Held returns the key-down events of the held keys in press order.
func (t *Terminal) Held() []key.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]key.Event, len(t.held))
	for i, h := range t.held {
		out[i] = h.down
	}
	return out
}

func released(h *heldKey, now time.Time) key.Event {
	up := h.down
	up.Timestamp = now
	return up
}

// Draw replaces the screen contents with lines.
func (t *Terminal) Draw(lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	width, height := t.screen.Size()
	for y, line := range lines {
		if y >= height {
			break
		}
		x := 0
		for _, r := range line {
			if x >= width {
				break
			}
			t.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			x++
		}
	}
	t.screen.Show()
}

// convertEvent maps a tcell key to a key.Event. Control letters become the
// letter with ModCtrl.
func convertEvent(k tcell.Key, r rune, mod tcell.ModMask) (key.Event, bool) {
	mods := convertMod(mod)
	switch k {
	case tcell.KeyRune:
		if r == ' ' {
			return key.NewSpecialEvent(key.KeySpace, mods), true
		}
		return key.NewRuneEvent(r, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl)), true
	}
	if special, ok := convertKey(k); ok {
		return key.NewSpecialEvent(special, mods), true
	}
	return key.Event{}, false
}

// convertKey maps non-character tcell keys.
func convertKey(k tcell.Key) (key.Key, bool) {
	switch k {
	case tcell.KeyDelete:
		return key.KeyDelete, true
	case tcell.KeyInsert:
		return key.KeyInsert, true
	case tcell.KeyHome:
		return key.KeyHome, true
	case tcell.KeyEnd:
		return key.KeyEnd, true
	case tcell.KeyPgUp:
		return key.KeyPageUp, true
	case tcell.KeyPgDn:
		return key.KeyPageDown, true
	case tcell.KeyUp:
		return key.KeyUp, true
	case tcell.KeyDown:
		return key.KeyDown, true
	case tcell.KeyLeft:
		return key.KeyLeft, true
	case tcell.KeyRight:
		return key.KeyRight, true
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.KeyF1 + key.Key(k-tcell.KeyF1), true
	}
	return key.KeyNone, false
}

// convertMod converts tcell modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var mod key.Modifier
	if m&tcell.ModShift != 0 {
		mod = mod.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mod = mod.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mod = mod.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mod = mod.With(key.ModMeta)
	}
	return mod
}
