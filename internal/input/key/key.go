package key

import "fmt"

// Key identifies a physical key. Character keys use KeyRune.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// KeyRune is a character key; the character is in Event.Rune.
	KeyRune

	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeySpace
	KeyPageUp
	KeyPageDown
	KeyEnd
	KeyHome
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
	KeyInsert
	KeyDelete

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeySpace:     "Space",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyEnd:       "End",
	KeyHome:      "Home",
	KeyLeft:      "Left",
	KeyUp:        "Up",
	KeyRight:     "Right",
	KeyDown:      "Down",
	KeyInsert:    "Insert",
	KeyDelete:    "Delete",
}

// keyCodes holds the numeric codes of non-character keys.
var keyCodes = map[Key]int{
	KeyBackspace: 8,
	KeyTab:       9,
	KeyEnter:     13,
	KeyEscape:    27,
	KeySpace:     32,
	KeyPageUp:    33,
	KeyPageDown:  34,
	KeyEnd:       35,
	KeyHome:      36,
	KeyLeft:      37,
	KeyUp:        38,
	KeyRight:     39,
	KeyDown:      40,
	KeyInsert:    45,
	KeyDelete:    46,
}

// String returns the key's name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k.IsFunctionKey() {
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsFunctionKey returns true for F1-F12.
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true for the four arrow keys.
func (k Key) IsArrowKey() bool {
	return k >= KeyLeft && k <= KeyDown
}

// Code returns the numeric code for a non-character key, or 0 for KeyRune
// and KeyNone. Function keys use 112-123.
func (k Key) Code() int {
	if k.IsFunctionKey() {
		return 112 + int(k-KeyF1)
	}
	return keyCodes[k]
}

// FromCode returns the non-character key with the given code.
func FromCode(code int) (Key, bool) {
	if code >= 112 && code <= 123 {
		return KeyF1 + Key(code-112), true
	}
	for k, c := range keyCodes {
		if c == code {
			return k, true
		}
	}
	return KeyNone, false
}
