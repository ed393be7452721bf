package grammar

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the rule-table major version this build understands.
const SupportedMajor = "v1"

type ruleTable struct {
	Version        string              `yaml:"version"`
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	Description    string              `yaml:"description"`
	Transformation string              `yaml:"transformation"`
	Verbs          []verbEntry         `yaml:"verbs"`
	Agreement      map[string]string   `yaml:"agreement"`
	FillInForms    []string            `yaml:"fill_in_forms"`
	ExtraWrong     []string            `yaml:"extra_wrong"`
	Subjects       []subjectEntry      `yaml:"subjects"`
	Vocabulary     map[string][]string `yaml:"vocabulary"`
	Templates      templateEntry       `yaml:"templates"`
	Explanation    string              `yaml:"explanation"`
	Hint           string              `yaml:"hint"`
	RulesOfThumb   map[string]string   `yaml:"rules_of_thumb"`
}

type verbEntry struct {
	Forms       map[string]string `yaml:"forms"`
	Complements []string          `yaml:"complements"`
}

type subjectEntry struct {
	Text    string `yaml:"text"`
	Pronoun string `yaml:"pronoun"`
	MinTier string `yaml:"min_tier"`
}

type templateEntry struct {
	Recognition     []string            `yaml:"recognition"`
	ErrorCorrection []string            `yaml:"error_correction"`
	Transformation  []string            `yaml:"transformation"`
	Dialogue        []string            `yaml:"dialogue"`
	FillIn          map[string][]string `yaml:"fill_in"`
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// Round-trip through JSON so the compiler sees plain JSON values.
	raw, err := json.Marshal(ruleTableSchema)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	const url = "schema://grammar-rule-table.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
})

// Parse decodes, schema-checks and validates a single YAML rule table.
// source names the table in error messages.
func Parse(source string, data []byte) (*Topic, error) {
	wrap := func(err error) error {
		return &ConfigError{Source: source, Err: err}
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, wrap(fmt.Errorf("decode yaml: %w", err))
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, wrap(fmt.Errorf("convert to json: %w", err))
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, wrap(fmt.Errorf("convert to json: %w", err))
	}
	sch, err := compiledSchema()
	if err != nil {
		return nil, wrap(fmt.Errorf("compile schema: %w", err))
	}
	if err := sch.Validate(doc); err != nil {
		return nil, wrap(fmt.Errorf("schema validation failed: %w", err))
	}

	var rt ruleTable
	if err := yaml.Unmarshal(data, &rt); err != nil {
		return nil, wrap(fmt.Errorf("decode rule table: %w", err))
	}
	if !semver.IsValid(rt.Version) || semver.Major(rt.Version) != SupportedMajor {
		return nil, wrap(fmt.Errorf("unsupported version %q (want %s.x.y)", rt.Version, SupportedMajor))
	}

	t, err := rt.topic()
	if err != nil {
		return nil, wrap(err)
	}
	if err := validateTopic(t); err != nil {
		return nil, wrap(err)
	}
	return t, nil
}

func (rt *ruleTable) topic() (*Topic, error) {
	t := &Topic{
		ID:           TopicID(rt.ID),
		Name:         rt.Name,
		Description:  rt.Description,
		Version:      rt.Version,
		Agreement:    make(map[Pronoun]string, len(rt.Agreement)),
		FillInForms:  rt.FillInForms,
		ExtraWrong:   rt.ExtraWrong,
		Transform:    TransformKind(rt.Transformation),
		Vocabulary:   rt.Vocabulary,
		Explanation:  rt.Explanation,
		Hint:         rt.Hint,
		RulesOfThumb: make(map[Pronoun]string, len(rt.RulesOfThumb)),
		Templates: Templates{
			Recognition:     rt.Templates.Recognition,
			ErrorCorrection: rt.Templates.ErrorCorrection,
			Transformation:  rt.Templates.Transformation,
			Dialogue:        rt.Templates.Dialogue,
			FillIn:          make(map[Tier][]string, len(rt.Templates.FillIn)),
		},
	}
	for p, form := range rt.Agreement {
		t.Agreement[Pronoun(p)] = form
	}
	for p, rule := range rt.RulesOfThumb {
		t.RulesOfThumb[Pronoun(p)] = rule
	}
	for _, v := range rt.Verbs {
		t.Verbs = append(t.Verbs, Verb{Forms: v.Forms, Complements: v.Complements})
	}
	for _, s := range rt.Subjects {
		minTier := TierLvl0
		if s.MinTier != "" {
			tier, err := ParseTier(s.MinTier)
			if err != nil {
				return nil, err
			}
			minTier = tier
		}
		t.Subjects = append(t.Subjects, Subject{Text: s.Text, Pronoun: Pronoun(s.Pronoun), MinTier: minTier})
	}
	for key, tmpls := range rt.Templates.FillIn {
		tier, err := ParseTier(key)
		if err != nil {
			return nil, err
		}
		t.Templates.FillIn[tier] = tmpls
	}
	return t, nil
}

// LoadFS parses every *.yaml file in dir of fsys, sorted by topic id.
// Duplicate topic ids are a configuration error.
func LoadFS(fsys fs.FS, dir string) ([]*Topic, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, &ConfigError{Source: dir, Err: err}
	}
	var topics []*Topic
	seen := make(map[TopicID]string)
	for _, e := range entries {
		if e.IsDir() || !(strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		p := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &ConfigError{Source: p, Err: err}
		}
		t, err := Parse(p, data)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[t.ID]; dup {
			return nil, &ConfigError{Source: p, Err: fmt.Errorf("duplicate topic id %q (also in %s)", t.ID, prev)}
		}
		seen[t.ID] = p
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}
