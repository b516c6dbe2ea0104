package vdom

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// On creates a handler for the named event. The prop key is "on" followed
// by the event name with its first letter upper-cased, so "click" and
// "Click" both become "onClick".
func On(name string, handler any) EventHandler {
	return EventHandler{Event: HandlerKey(name), Handler: handler}
}

// HandlerKey returns the prop key for an event name.
func HandlerKey(name string) string {
	return "on" + Capitalize(name)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Camelize turns "update-value" into "updateValue".
func Camelize(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Hyphenate turns "updateValue" into "update-value".
func Hyphenate(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// OnClick handles click events.
func OnClick(handler any) EventHandler { return On("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler any) EventHandler { return On("dblclick", handler) }

// OnInput handles input events.
func OnInput(handler any) EventHandler { return On("input", handler) }

// OnChange handles change events.
func OnChange(handler any) EventHandler { return On("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler any) EventHandler { return On("submit", handler) }

// OnKeyDown handles keydown events.
func OnKeyDown(handler any) EventHandler { return On("keydown", handler) }

// OnFocus handles focus events.
func OnFocus(handler any) EventHandler { return On("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler any) EventHandler { return On("blur", handler) }
