// Package key defines raw keyboard events and the mappers that turn them
// into canonical key identifiers.
//
// An Event carries the numeric key code reported by the input source along
// with the decoded Key, Rune and Modifiers. A Mapper reduces an Event to the
// canonical string used to look up bindings:
//
//   - DefaultMapper: the character whose code point equals Event.Code
//     ("W" for code 87, " " for code 32)
//   - NameMapper: readable names with modifiers ("W", "Ctrl+W", "Up", "Space")
//   - CachedMapper: memoizes any Mapper in an LRU cache
//
// Codes follow the familiar browser keyCode layout: letters use their
// upper-case code point regardless of Shift, digits their ASCII code, and
// special keys fixed codes (Enter 13, Escape 27, arrows 37-40).
package key
