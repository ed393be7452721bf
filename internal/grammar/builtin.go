package grammar

import (
	"embed"
	"fmt"
	"os"
	"sync"
)

//go:embed rules/*.yaml
var builtinRules embed.FS

var builtinTopics = sync.OnceValues(func() ([]*Topic, error) {
	return LoadFS(builtinRules, "rules")
})

// Builtin returns the topics shipped with the binary. Tables are loaded and
// validated once; the returned topics must not be modified.
func Builtin() ([]*Topic, error) {
	return builtinTopics()
}

// LoadDir loads extra rule tables from a directory on disk.
func LoadDir(dir string) ([]*Topic, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// Merge combines topic sets; a later topic with the same id replaces an
// earlier one.
func Merge(sets ...[]*Topic) []*Topic {
	index := make(map[TopicID]int)
	var out []*Topic
	for _, set := range sets {
		for _, t := range set {
			if i, ok := index[t.ID]; ok {
				out[i] = t
				continue
			}
			index[t.ID] = len(out)
			out = append(out, t)
		}
	}
	return out
}

// Find returns the topic with the given id.
func Find(topics []*Topic, id TopicID) (*Topic, error) {
	for _, t := range topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, id)
}
