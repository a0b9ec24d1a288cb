// Package pack holds the pack-level configuration: the launcher
// components the archive declares and the file patterns the clean and
// compile operations honor.
package pack

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/dimension-gateway/mmcpack/pack/hclspec"
)

// DefaultName is used when no pack block is configured.
const DefaultName = "Modpack"

// Component is one launcher component of the pack, e.g. net.minecraft
// or a mod loader.
type Component struct {
	UID       string
	Version   string
	Important bool
}

// Config is the decoded pack configuration with patterns compiled.
type Config struct {
	Name       string
	Version    string
	Components []Component

	// Include lists extra instance subtrees (relative to minecraft/)
	// to package besides the built-in ones.
	Include []string

	// Keep matches jars the clean operation leaves alone even when no
	// record declares them.
	Keep []glob.Glob

	// Ignore matches archive paths the compile operation drops.
	Ignore []glob.Glob
}

func Default() *Config {
	return &Config{Name: DefaultName}
}

// FromSpec compiles an HCL spec into a Config.
func FromSpec(f hclspec.File) (*Config, error) {
	if f.Pack == nil {
		return Default(), nil
	}
	c := &Config{
		Name:    f.Pack.Name,
		Version: f.Pack.Version,
		Include: f.Pack.Include,
	}
	if c.Name == "" {
		c.Name = DefaultName
	}
	for _, comp := range f.Pack.Components {
		c.Components = append(c.Components, Component{
			UID:       comp.UID,
			Version:   comp.Version,
			Important: comp.Important,
		})
	}
	var err error
	if c.Keep, err = compileGlobs(f.Pack.Keep); err != nil {
		return nil, fmt.Errorf("keep: %w", err)
	}
	if c.Ignore, err = compileGlobs(f.Pack.Ignore); err != nil {
		return nil, fmt.Errorf("ignore: %w", err)
	}
	return c, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	gs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		gs = append(gs, g)
	}
	return gs, nil
}

// Match reports whether name matches any of the patterns.
func Match(gs []glob.Glob, name string) bool {
	for _, g := range gs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
