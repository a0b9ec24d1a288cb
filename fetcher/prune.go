package fetcher

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/dimension-gateway/mmcpack"
)

// Prune removes jars from the mods directory that no record declares.
// Names matching one of the keep patterns survive; some mods have no
// download source anywhere and are dropped in by hand. With dryRun
// nothing is removed. Returns the names of the (would-be) removed
// files.
func (f *Fetcher) Prune(mods []mmcpack.Mod, keep []glob.Glob, dryRun bool) ([]string, error) {
	declared := make(map[string]bool, len(mods))
	for _, m := range mods {
		declared[m.Filename] = true
	}

	fis, err := f.Mods.ReadDir(".")
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mods: %w", err)
	}
	sort.Slice(fis, func(i, j int) bool {
		return fis[i].Name() < fis[j].Name()
	})

	var removed []string
	for _, fi := range fis {
		name := fi.Name()
		if fi.IsDir() || !strings.HasSuffix(name, ".jar") || declared[name] {
			continue
		}
		if matchAny(keep, name) {
			continue
		}
		if !dryRun {
			if err := f.Mods.Remove(name); err != nil {
				return removed, fmt.Errorf("remove %q: %w", name, err)
			}
		}
		removed = append(removed, name)
	}
	return removed, nil
}

func matchAny(gs []glob.Glob, name string) bool {
	for _, g := range gs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
