// Package terminal adapts a tcell screen into a key-down/key-up source.
//
// Terminals report key presses and auto-repeats but never key releases.
// Terminal tracks which keys are down and treats a key as released once
// no repeat has arrived for ReleaseAfter. The first repeat of a held key
// comes after the keyboard's repeat delay, so a fresh press is given
// RepeatDelay on top of that.
//
// # Usage
//
//	term, err := terminal.Open(terminal.WithReleaseAfter(150 * time.Millisecond))
//	if err != nil {
//	    return err
//	}
//	if err := term.Init(); err != nil {
//	    return err
//	}
//	defer term.Shutdown()
//
//	for ev := range term.Events(done) {
//	    if k, ok := ev.(*tcell.EventKey); ok {
//	        if down, ok := term.Translate(k); ok {
//	            hub.PublishKeyDown(down)
//	        }
//	    }
//	}
//
// On each tick, Expire returns the synthesized key-up events.
package terminal
