package problemgen

import (
	"fmt"

	"github.com/abhisek/grammiz/internal/grammar"
)

// Registry maps each topic to its generators. It is built once from a
// validated rule set and passed to whoever needs to generate questions.
type Registry struct {
	topics []*grammar.Topic
	gens   map[grammar.TopicID]map[Archetype]Generator
}

// NewRegistry builds generators for every topic. An empty topic list or a
// duplicate topic id is a configuration error.
func NewRegistry(topics []*grammar.Topic) (*Registry, error) {
	if len(topics) == 0 {
		return nil, &grammar.ConfigError{Source: "registry", Err: fmt.Errorf("no topics")}
	}
	r := &Registry{gens: make(map[grammar.TopicID]map[Archetype]Generator, len(topics))}
	for _, t := range topics {
		if _, dup := r.gens[t.ID]; dup {
			return nil, &grammar.ConfigError{Source: "registry", Err: fmt.Errorf("duplicate topic id %q", t.ID)}
		}
		r.gens[t.ID] = NewGenerators(t)
		r.topics = append(r.topics, t)
	}
	return r, nil
}

// Topics returns the registered topics in registration order.
func (r *Registry) Topics() []*grammar.Topic {
	return r.topics
}

// Topic returns the topic with the given id.
func (r *Registry) Topic(id grammar.TopicID) (*grammar.Topic, error) {
	return grammar.Find(r.topics, id)
}

// Generator returns the generator for a topic and archetype.
func (r *Registry) Generator(id grammar.TopicID, a Archetype) (Generator, error) {
	gens, ok := r.gens[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, id)
	}
	g, ok := gens[a]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, a)
	}
	return g, nil
}

// Focus returns a registry holding only topic id, restricted to the named
// subjects. It fails when no subject of the topic matches.
func (r *Registry) Focus(id grammar.TopicID, subjects ...string) (*Registry, error) {
	t, err := r.Topic(id)
	if err != nil {
		return nil, err
	}
	ft, err := t.WithSubjects(subjects...)
	if err != nil {
		return nil, fmt.Errorf("focus %s on %v: %w", id, subjects, err)
	}
	return NewRegistry([]*grammar.Topic{ft})
}
