package key

import (
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Mapper turns a raw event into the canonical key used for binding lookup.
// An empty result never matches a binding.
type Mapper func(Event) string

// DefaultMapper maps the event's numeric code to its character.
func DefaultMapper(e Event) string {
	if e.Code <= 0 || e.Code > unicode.MaxRune {
		return ""
	}
	return string(rune(e.Code))
}

// NameMapper produces readable canonical names: "W", "Ctrl+W", "Up",
// "Shift+F5". Shift is folded into character keys.
func NameMapper(e Event) string {
	var name string
	mods := e.Modifiers
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		name = KeySpace.String()
	case e.Key == KeyRune && e.Rune != 0:
		name = string(unicode.ToUpper(e.Rune))
		mods = mods.Without(ModShift)
	case e.Key == KeyRune || e.Key == KeyNone:
		name = DefaultMapper(e)
		mods = mods.Without(ModShift)
	default:
		name = e.Key.String()
	}
	if name == "" {
		return ""
	}
	if mods.IsEmpty() {
		return name
	}
	return mods.String() + "+" + name
}

// Resolve returns m, or DefaultMapper when m is nil.
func Resolve(m Mapper) Mapper {
	if m == nil {
		return DefaultMapper
	}
	return m
}

// cacheKey is the subset of an Event a mapper may depend on.
type cacheKey struct {
	code int
	key  Key
	r    rune
	mods Modifier
}

// CachedMapper wraps m with an LRU cache of the given size. It is meant for
// mappers that are expensive to evaluate, such as script-backed ones, and
// assumes m depends only on code, key, rune and modifiers.
func CachedMapper(m Mapper, size int) (Mapper, error) {
	cache, err := lru.New[cacheKey, string](size)
	if err != nil {
		return nil, err
	}
	m = Resolve(m)
	return func(e Event) string {
		ck := cacheKey{code: e.Code, key: e.Key, r: e.Rune, mods: e.Modifiers}
		if v, ok := cache.Get(ck); ok {
			return v
		}
		v := m(e)
		cache.Add(ck, v)
		return v
	}, nil
}

// MapperByName returns one of the built-in mappers: "default" or "names".
func MapperByName(name string) (Mapper, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "code":
		return DefaultMapper, true
	case "names", "name":
		return NameMapper, true
	}
	return nil, false
}
