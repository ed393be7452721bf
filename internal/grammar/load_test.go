package grammar

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_LoadsAllTopics(t *testing.T) {
	topics, err := Builtin()
	require.NoError(t, err)

	var ids []TopicID
	for _, tp := range topics {
		ids = append(ids, tp.ID)
	}
	assert.Equal(t, []TopicID{"have-got", "present-simple", "to-be"}, ids)
}

func TestBuiltin_Agreement(t *testing.T) {
	topics, err := Builtin()
	require.NoError(t, err)

	tests := []struct {
		topic TopicID
		p     Pronoun
		want  string
	}{
		{"to-be", PronounI, "am"},
		{"to-be", PronounHe, "is"},
		{"to-be", PronounThey, "are"},
		{"have-got", PronounShe, "has"},
		{"have-got", PronounWe, "have"},
		{"present-simple", PronounIt, "plays"},
		{"present-simple", PronounYou, "play"},
	}
	for _, tt := range tests {
		tp, err := Find(topics, tt.topic)
		require.NoError(t, err)
		got := tp.Agree(Subject{Pronoun: tt.p}, tp.Verbs[0])
		if got != tt.want {
			t.Errorf("%s/%s: got %q, want %q", tt.topic, tt.p, got, tt.want)
		}
	}
}

func TestBuiltin_AgreementForms(t *testing.T) {
	topics, err := Builtin()
	require.NoError(t, err)
	tp, err := Find(topics, "to-be")
	require.NoError(t, err)
	assert.Equal(t, []string{"am", "are", "is"}, tp.AgreementForms(tp.Verbs[0]))
}

func TestFind_Unknown(t *testing.T) {
	topics, err := Builtin()
	require.NoError(t, err)
	_, err = Find(topics, "past-perfect")
	assert.ErrorIs(t, err, ErrUnknownTopic)
}

func TestSubjectsFor_Tier(t *testing.T) {
	topics, err := Builtin()
	require.NoError(t, err)
	tp, err := Find(topics, "to-be")
	require.NoError(t, err)

	for _, s := range tp.SubjectsFor(TierEasy) {
		assert.LessOrEqual(t, s.MinTier, TierEasy, s.Text)
	}
	assert.Greater(t, len(tp.SubjectsFor(TierHard)), len(tp.SubjectsFor(TierEasy)))
}

func TestWithSubjects(t *testing.T) {
	topics, err := Builtin()
	require.NoError(t, err)
	tp, err := Find(topics, "to-be")
	require.NoError(t, err)

	only, err := tp.WithSubjects("he")
	require.NoError(t, err)
	require.Len(t, only.Subjects, 1)
	assert.Equal(t, PronounHe, only.Subjects[0].Pronoun)
	assert.Greater(t, len(tp.Subjects), 1, "original topic must be untouched")

	_, err = tp.WithSubjects("nobody")
	assert.Error(t, err)
}

const minimalTable = `
version: v1.2.0
id: mini
name: Mini
transformation: auxiliary
verbs:
  - forms: {am: am, is: is, are: are, base: be}
agreement: {i: am, you: are, he: is, she: is, it: is, we: are, they: are}
fill_in_forms: [am, is, are]
subjects:
  - {text: I, pronoun: i}
  - {text: he, pronoun: he}
vocabulary:
  feeling: [happy]
templates:
  recognition: ["{Subject} {verb} {feeling}."]
  error_correction: ["{Subject} {verb} {feeling}."]
  transformation: ["{Subject} {verb} {feeling}."]
  dialogue: ["A: {Verb} {subject} {feeling}?\nB: Yes, {subject} {verb}."]
  fill_in:
    lvl0: ["{Subject} {verb} {feeling}."]
    easy: ["{Subject} {verb} {feeling}."]
    medium: ["{Subject} {verb} {feeling}."]
    hard: ["{Subject} {verb} {feeling}."]
explanation: "{sentence}"
hint: "{subject}"
rules_of_thumb: {i: a, you: b, he: c, she: c, it: c, we: b, they: b}
`

func TestParse_Minimal(t *testing.T) {
	tp, err := Parse("mini.yaml", []byte(minimalTable))
	require.NoError(t, err)
	assert.Equal(t, TopicID("mini"), tp.ID)
	assert.Equal(t, TransformAuxiliary, tp.Transform)
	assert.Len(t, tp.Templates.FillIn, 4)
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantMsg string
	}{
		{
			name:    "major version",
			mutate:  func(s string) string { return strings.Replace(s, "v1.2.0", "v2.0.0", 1) },
			wantMsg: "unsupported version",
		},
		{
			name:    "schema: unknown pronoun",
			mutate:  func(s string) string { return strings.Replace(s, "{text: he, pronoun: he}", "{text: he, pronoun: thou}", 1) },
			wantMsg: "schema validation failed",
		},
		{
			name:    "agreement gap",
			mutate:  func(s string) string { return strings.Replace(s, "we: are, they: are}", "we: are}", 1) },
			wantMsg: `agreement missing pronoun "they"`,
		},
		{
			name:    "unknown placeholder",
			mutate:  func(s string) string { return strings.Replace(s, `recognition: ["{Subject} {verb} {feeling}."]`, `recognition: ["{Subject} {verb} {colour}."]`, 1) },
			wantMsg: "unknown placeholder {colour}",
		},
		{
			name:    "missing tier",
			mutate:  func(s string) string { return strings.Replace(s, `    hard: ["{Subject} {verb} {feeling}."]`+"\n", "", 1) },
			wantMsg: "no fill-in templates for tier hard",
		},
		{
			name:    "bad yaml",
			mutate:  func(s string) string { return s + "\nbroken: [unclosed" },
			wantMsg: "decode yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("mini.yaml", []byte(tt.mutate(minimalTable)))
			require.Error(t, err)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadFS_DuplicateID(t *testing.T) {
	fsys := fstest.MapFS{
		"rules/a.yaml": {Data: []byte(minimalTable)},
		"rules/b.yaml": {Data: []byte(minimalTable)},
	}
	_, err := LoadFS(fsys, "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate topic id")
}

func TestMerge_ReplacesByID(t *testing.T) {
	a := &Topic{ID: "x", Name: "first"}
	b := &Topic{ID: "y"}
	c := &Topic{ID: "x", Name: "second"}
	got := Merge([]*Topic{a, b}, []*Topic{c})
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Name)
}
