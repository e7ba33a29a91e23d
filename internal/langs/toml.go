package langs

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// tomlOverride mirrors one [[languages]] entry in the override file.
// Empty fields leave the builtin value in place; unknown ids are
// rejected so the language set stays closed.
type tomlOverride struct {
	ID        string `toml:"id"`
	EntryFile string `toml:"entry_file"`
	Image     string `toml:"image"`
}

type tomlRoot struct {
	Languages []tomlOverride `toml:"languages"`
}

// LoadOverrides applies a TOML override file to the registry. Only
// images and entry filenames can be re-pointed; command templates are
// fixed in code.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read language config %s: %w", path, err)
	}

	var root tomlRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parse language config %s: %w", path, err)
	}

	for _, o := range root.Languages {
		p, ok := r.profiles[o.ID]
		if !ok {
			return fmt.Errorf("%w: %s (in %s)", ErrUnsupportedLanguage, o.ID, path)
		}
		if o.EntryFile != "" {
			p.EntryFile = o.EntryFile
		}
		if o.Image != "" {
			p.Image = o.Image
		}
		r.profiles[o.ID] = p
	}
	return nil
}
