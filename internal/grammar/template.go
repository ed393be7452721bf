package grammar

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BlankMarker replaces a blanked token in a rendered prompt.
const BlankMarker = "___"

// Span records one substituted placeholder in rendered text.
// Start and End are byte offsets into Rendered.Text.
type Span struct {
	Name  string // lower-cased placeholder name
	Value string // substituted text, capitalized when the placeholder was
	Start int
	End   int
}

// Rendered is the result of Render.
type Rendered struct {
	Text  string
	Spans []Span
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Placeholders returns the lower-cased placeholder names used by tmpl,
// in order of first appearance.
func Placeholders(tmpl string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	err := scan(tmpl, func(lit string) {}, func(name string) error {
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, key)
		}
		return nil
	})
	return names, err
}

// Render substitutes {name} placeholders in tmpl with values[name].
// A placeholder whose first letter is upper case ({Subject}) renders
// the value capitalized. Missing values and malformed braces are errors.
func Render(tmpl string, values map[string]string) (Rendered, error) {
	var (
		b     strings.Builder
		spans []Span
	)
	err := scan(tmpl, func(lit string) {
		b.WriteString(lit)
	}, func(name string) error {
		key := strings.ToLower(name)
		v, ok := values[key]
		if !ok {
			return fmt.Errorf("%w: no value for placeholder {%s}", ErrInvalidInput, name)
		}
		if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
			v = Capitalize(v)
		}
		start := b.Len()
		b.WriteString(v)
		spans = append(spans, Span{Name: key, Value: v, Start: start, End: b.Len()})
		return nil
	})
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Text: b.String(), Spans: spans}, nil
}

// MustRender is Render for templates that have already been validated.
func MustRender(tmpl string, values map[string]string) Rendered {
	r, err := Render(tmpl, values)
	if err != nil {
		panic(err)
	}
	return r
}

func scan(tmpl string, literal func(string), placeholder func(string) error) error {
	for len(tmpl) > 0 {
		open := strings.IndexAny(tmpl, "{}")
		if open < 0 {
			literal(tmpl)
			return nil
		}
		if tmpl[open] == '}' {
			return fmt.Errorf("%w: unexpected '}' in template", ErrInvalidInput)
		}
		literal(tmpl[:open])
		rest := tmpl[open+1:]
		end := strings.IndexAny(rest, "{}")
		if end < 0 || rest[end] != '}' {
			return fmt.Errorf("%w: unterminated placeholder in template", ErrInvalidInput)
		}
		name := rest[:end]
		if name == "" {
			return fmt.Errorf("%w: empty placeholder in template", ErrInvalidInput)
		}
		if err := placeholder(name); err != nil {
			return err
		}
		tmpl = rest[end+1:]
	}
	return nil
}

// First returns the first span named name.
func (r Rendered) First(name string) (Span, bool) {
	for _, s := range r.Spans {
		if s.Name == name {
			return s, true
		}
	}
	return Span{}, false
}

// Blank replaces every span whose name is in names with BlankMarker. It
// returns the blanked text and the replaced values left to right.
func (r Rendered) Blank(names ...string) (string, []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var (
		b      strings.Builder
		tokens []string
		pos    int
	)
	for _, s := range r.Spans {
		if !want[s.Name] {
			continue
		}
		b.WriteString(r.Text[pos:s.Start])
		b.WriteString(BlankMarker)
		tokens = append(tokens, s.Value)
		pos = s.End
	}
	b.WriteString(r.Text[pos:])
	return b.String(), tokens
}

// Replace returns the text with the span at index i replaced by value.
func (r Rendered) Replace(i int, value string) string {
	s := r.Spans[i]
	return r.Text[:s.Start] + value + r.Text[s.End:]
}

// FillBlanks substitutes tokens into the BlankMarker occurrences of text,
// in order. The number of tokens must match the number of blanks.
func FillBlanks(text string, tokens []string) (string, error) {
	parts := strings.Split(text, BlankMarker)
	if len(parts)-1 != len(tokens) {
		return "", fmt.Errorf("%w: %d blanks but %d tokens", ErrInvalidInput, len(parts)-1, len(tokens))
	}
	var b strings.Builder
	for i, p := range parts {
		b.WriteString(p)
		if i < len(tokens) {
			b.WriteString(tokens[i])
		}
	}
	return b.String(), nil
}
