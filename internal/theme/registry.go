package theme

import (
	"fmt"
	"sort"
)

// Builtin returns the named built-in theme.
func Builtin(name string) (*Theme, error) {
	t, ok := builtins()[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %v)", name, Names())
	}
	return t, nil
}

// Names lists the built-in theme names, sorted.
func Names() []string {
	m := builtins()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every built-in theme, ordered by name.
func All() []*Theme {
	m := builtins()
	themes := make([]*Theme, 0, len(m))
	for _, name := range Names() {
		themes = append(themes, m[name])
	}
	return themes
}

func builtins() map[string]*Theme {
	return map[string]*Theme{
		"terrarium":   Terrarium(),
		"garden":      Garden(),
		"restoration": Restoration(),
		"moonbase":    Moonbase(),
	}
}
