package langs

import (
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ErrUnsupportedLanguage marks a language id outside the closed set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Registry is the closed, read-only set of language profiles. It is
// fully populated at startup and safe for concurrent use.
type Registry struct {
	profiles map[string]Profile
	ids      mapset.Set[string]
}

func NewRegistry() *Registry {
	r := &Registry{
		profiles: map[string]Profile{},
		ids:      mapset.NewSet[string](),
	}
	for _, p := range builtinProfiles() {
		r.profiles[p.ID] = p
		r.ids.Add(p.ID)
	}
	return r
}

// Resolve returns the profile for a language id, failing fast with
// ErrUnsupportedLanguage before any directory or sandbox work happens.
func (r *Registry) Resolve(langID string) (Profile, error) {
	p, ok := r.profiles[langID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, langID)
	}
	return p, nil
}

// Ids returns the supported language ids.
func (r *Registry) Ids() []string {
	ids := r.ids.ToSlice()
	return ids
}

// PickEntry chooses the entry file for one run: the preferred canonical
// name if present, else the first listed file with the language's
// extension, else the canonical name anyway (the sandbox then reports a
// plain file-not-found as the runtime result).
func (r *Registry) PickEntry(p Profile, listing []string) string {
	for _, name := range listing {
		if name == p.EntryFile {
			return p.EntryFile
		}
	}
	for _, name := range listing {
		if strings.HasSuffix(name, p.Ext) {
			return name
		}
	}
	return p.EntryFile
}
