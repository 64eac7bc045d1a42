package dispatcher

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keyhold/internal/event"
	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
	"github.com/dshills/keyhold/internal/logging"
)

// Sources are the event sources a dispatcher attaches to.
type Sources struct {
	Keys  event.KeySource
	Ticks event.TickSource
}

// Dispatcher maps key events onto binding actions.
type Dispatcher struct {
	id      string
	sources Sources
	exec    *Executor
	config  Config
	logger  *logging.Logger
	metrics *Metrics
	hooks   []Hook

	// Installed state; all nil when nothing is installed.
	registry *keymap.Registry
	mapper   key.Mapper
	tracker  *Tracker
	subs     []event.Subscription
}

// New creates a dispatcher. Nothing is attached until Install.
func New(sources Sources, builtins BuiltinTable, ctrl keymap.Controller, config Config) *Dispatcher {
	d := &Dispatcher{
		id:       uuid.NewString(),
		sources:  sources,
		exec:     NewExecutor(builtins, ctrl),
		config:   config,
		logger:   logging.Null(),
		registry: keymap.NewRegistry(),
	}
	d.exec.SetPanicRecovery(config.RecoverFromPanic)
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// SetLogger sets the logger. A nil logger discards output.
func (d *Dispatcher) SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.Null()
	}
	d.logger = l.WithComponent("dispatcher").WithField("id", d.id[:8])
	d.exec.SetLogger(d.logger)
}

// AddHook registers a transition hook.
func (d *Dispatcher) AddHook(h Hook) {
	if h != nil {
		d.hooks = append(d.hooks, h)
	}
}

// Install replaces the active binding set.
//
// An empty or nil set is the same as Remove. Otherwise the set is
// validated, the dispatcher attaches to its sources if it is not attached
// yet, and every key starts Released. A nil mapper selects
// key.DefaultMapper. outsideMainContext is passed to the sources when
// attaching and is ignored on later installs.
//
// On error nothing changes.
func (d *Dispatcher) Install(set *keymap.Set, mapper key.Mapper, outsideMainContext bool) error {
	if set.IsEmpty() {
		d.Remove()
		return nil
	}
	if err := set.Validate(); err != nil {
		return err
	}

	if d.subs == nil {
		if err := d.attach(outsideMainContext); err != nil {
			return err
		}
	}

	d.registry.Replace(set)
	d.mapper = key.Resolve(mapper)
	d.tracker = NewTracker(d.registry.Keys())
	d.metrics.recordInstall()

	d.logger.Info("installed %d bindings", d.tracker.Len())
	return nil
}

// Remove detaches from all sources and discards the binding set and every
// run state. It is idempotent.
func (d *Dispatcher) Remove() {
	for _, sub := range d.subs {
		sub.Cancel()
	}
	wasInstalled := d.subs != nil
	d.subs = nil
	d.registry.Clear()
	d.mapper = nil
	d.tracker = nil

	if wasInstalled {
		d.logger.Info("removed bindings")
	}
}

func (d *Dispatcher) attach(outsideMainContext bool) error {
	if d.sources.Keys == nil || d.sources.Ticks == nil {
		return ErrNoSources
	}
	opt := event.WithOutsideMainContext(outsideMainContext)

	var subs []event.Subscription
	fail := func(err error) error {
		for _, s := range subs {
			s.Cancel()
		}
		return fmt.Errorf("dispatcher: attach: %w", err)
	}

	sub, err := d.sources.Keys.SubscribeKeyDown(d.handleKeyDown, opt)
	if err != nil {
		return fail(err)
	}
	subs = append(subs, sub)

	sub, err = d.sources.Keys.SubscribeKeyUp(d.handleKeyUp, opt)
	if err != nil {
		return fail(err)
	}
	subs = append(subs, sub)

	sub, err = d.sources.Ticks.SubscribeTick(d.handleTick, opt)
	if err != nil {
		return fail(err)
	}
	subs = append(subs, sub)

	d.subs = subs
	d.logger.Debug("attached to sources (outside main context: %v)", outsideMainContext)
	return nil
}

// handleKeyDown drives Released to Pressed when the binding accepts.
func (d *Dispatcher) handleKeyDown(ev key.Event) error {
	tr := d.tracker
	if tr == nil {
		return nil
	}
	k := d.mapper(ev)
	b, ok := d.registry.Lookup(k)
	if !ok {
		d.metrics.recordUnbound()
		return nil
	}
	if st, _ := tr.State(k); st != Released {
		return nil
	}

	accepted, err := d.exec.Validate(b, k, ev)
	if err != nil {
		d.fail(err)
		return err
	}
	if tr != d.tracker {
		return nil
	}
	if !accepted {
		d.metrics.recordPress(false)
		d.logger.Debug("press of %q rejected", k)
		return nil
	}

	// A validator may have pressed k itself by publishing the same event.
	if !tr.Press(k, b, ev) {
		return nil
	}
	d.metrics.recordPress(true)
	d.notify(k, Released, Pressed)
	return nil
}

// handleKeyUp returns a held key to Released. Only a Pressed key calls done.
func (d *Dispatcher) handleKeyUp(ev key.Event) error {
	tr := d.tracker
	if tr == nil {
		return nil
	}
	k := d.mapper(ev)
	if _, ok := d.registry.Lookup(k); !ok {
		d.metrics.recordUnbound()
		return nil
	}

	prev, ok := tr.Release(k)
	if !ok {
		return nil
	}
	d.metrics.recordRelease()
	d.notify(k, prev.State, Released)

	if prev.State != Pressed || prev.Binding.Done == nil {
		return nil
	}
	d.metrics.recordDone()
	if err := d.exec.Done(prev.Binding, k, ev); err != nil {
		d.fail(err)
		return err
	}
	return nil
}

// handleTick runs the action of every Pressed key once.
//
// Keys are visited in declaration order from a snapshot taken at the start
// of the tick. A failing key is reported and the rest still run. If a
// callback replaces or removes the binding set, the tick stops.
func (d *Dispatcher) handleTick() error {
	tr := d.tracker
	if tr == nil {
		return nil
	}
	start := time.Now()

	var errs []error
	for _, k := range tr.Pressed() {
		if d.tracker != tr {
			break
		}
		rs, _ := tr.Get(k)
		if rs.State != Pressed {
			continue
		}

		res, err := d.exec.Execute(rs.Binding, k, rs.Event)
		if err != nil {
			d.fail(err)
			errs = append(errs, err)
			continue
		}
		cancelled := res == keymap.Cancel
		d.metrics.recordAction(cancelled)
		if cancelled && d.tracker == tr && tr.Cancel(k) {
			d.notify(k, Pressed, Ignored)
		}
	}

	d.metrics.recordTick(time.Since(start))
	return errors.Join(errs...)
}

func (d *Dispatcher) notify(k string, from, to State) {
	d.logger.Debug("%s: %s -> %s", k, from, to)
	for _, h := range d.hooks {
		h.OnTransition(k, from, to)
	}
}

func (d *Dispatcher) fail(err error) {
	d.metrics.recordError()
	d.logger.Warn("%v", err)
}

// ID returns the dispatcher's unique identifier.
func (d *Dispatcher) ID() string {
	return d.id
}

// Installed reports whether a binding set is installed.
func (d *Dispatcher) Installed() bool {
	return d.tracker != nil
}

// Attached reports whether the dispatcher is subscribed to its sources.
func (d *Dispatcher) Attached() bool {
	return d.subs != nil
}

// Keys returns the installed keys in declaration order.
func (d *Dispatcher) Keys() []string {
	return d.registry.Keys()
}

// State returns the run state of k. It returns false if k is not bound.
func (d *Dispatcher) State(k string) (State, bool) {
	if d.tracker == nil {
		return Released, false
	}
	return d.tracker.State(k)
}

// RunStates returns every run state in declaration order.
func (d *Dispatcher) RunStates() []RunState {
	if d.tracker == nil {
		return nil
	}
	return d.tracker.Snapshot()
}

// Lookup returns the binding installed for k.
func (d *Dispatcher) Lookup(k string) (keymap.Binding, bool) {
	return d.registry.Lookup(k)
}

// Metrics returns the metrics collector, or nil if disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
