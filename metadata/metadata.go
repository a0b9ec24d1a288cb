// Package metadata reads and writes the per-mod record store of the
// instance. Every mod of the pack is declared by one TOML file under
// metadata/mods naming the target file and exactly one download source.
package metadata

import (
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/pelletier/go-toml/v2"

	"github.com/dimension-gateway/mmcpack"
)

// Dir is the record store location relative to the instance root.
const Dir = "metadata/mods"

type record struct {
	Name     string      `toml:"name,omitempty"`
	Filename string      `toml:"filename"`
	Update   *updateSpec `toml:"update,omitempty"`
	Download *download   `toml:"download,omitempty"`
}

type updateSpec struct {
	Curseforge *curseforge `toml:"curseforge,omitempty"`
	Optifine   *optifine   `toml:"optifine,omitempty"`
}

type curseforge struct {
	FileID    int `toml:"file-id"`
	ProjectID int `toml:"project-id,omitempty"`
}

type optifine struct {
	File string `toml:"file"`
}

type download struct {
	URL string `toml:"url"`
}

// Load reads every TOML record under Dir. Records are validated
// independently: an invalid record yields an error naming its file and
// does not affect the remaining ones. The returned mods are ordered by
// record file name.
func Load(fs billy.Filesystem) ([]mmcpack.Mod, []error) {
	fis, err := fs.ReadDir(Dir)
	if err != nil {
		return nil, []error{fmt.Errorf("read %q: %w", Dir, err)}
	}
	sort.Slice(fis, func(i, j int) bool {
		return fis[i].Name() < fis[j].Name()
	})

	var mods []mmcpack.Mod
	var errs []error
	declared := make(map[string]string, len(fis))
	for _, fi := range fis {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".toml") {
			continue
		}
		fpath := path.Join(Dir, fi.Name())
		m, err := readRecord(fs, fpath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, ok := declared[m.Filename]; ok {
			errs = append(errs, fmt.Errorf("record %q: %w: %q is already declared by %q",
				fpath, mmcpack.ErrDuplicateFilename, m.Filename, prev))
			continue
		}
		declared[m.Filename] = fpath
		mods = append(mods, m)
	}
	return mods, errs
}

func readRecord(fs billy.Basic, fpath string) (mmcpack.Mod, error) {
	var r record
	f, err := fs.Open(fpath)
	if err != nil {
		return mmcpack.Mod{}, fmt.Errorf("record %q: %w", fpath, err)
	}
	data, err := io.ReadAll(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return mmcpack.Mod{}, fmt.Errorf("record %q: %w", fpath, err)
	}
	if err := toml.Unmarshal(data, &r); err != nil {
		return mmcpack.Mod{}, fmt.Errorf("record %q: %w", fpath, err)
	}
	return r.mod(fpath)
}

// mod converts a decoded record into a Mod, enforcing the record
// invariants: a filename is present and exactly one source variant is
// declared.
func (r *record) mod(fpath string) (mmcpack.Mod, error) {
	m := mmcpack.Mod{
		Name:     r.Name,
		Filename: r.Filename,
		Record:   fpath,
	}
	if m.Filename == "" {
		return m, fmt.Errorf("record %q: %w", fpath, mmcpack.ErrMissingFilename)
	}
	if m.Name == "" {
		m.Name = m.Filename
	}

	sources := 0
	if r.Update != nil && r.Update.Curseforge != nil {
		sources++
		m.Method = mmcpack.MethodCurse
		m.FileID = r.Update.Curseforge.FileID
		m.ProjectID = r.Update.Curseforge.ProjectID
	}
	if r.Update != nil && r.Update.Optifine != nil {
		sources++
		m.Method = mmcpack.MethodOptifine
		m.File = r.Update.Optifine.File
	}
	if r.Download != nil {
		sources++
		m.Method = mmcpack.MethodURL
		m.URL = r.Download.URL
	}
	switch {
	case sources == 0:
		return m, fmt.Errorf("record %q: %w", fpath, mmcpack.ErrNoSource)
	case sources > 1:
		return m, fmt.Errorf("record %q: %w", fpath, mmcpack.ErrAmbiguousSource)
	}

	switch m.Method {
	case mmcpack.MethodCurse:
		if m.FileID <= 0 {
			return m, fmt.Errorf("record %q: curseforge file-id is missing", fpath)
		}
	case mmcpack.MethodOptifine:
		if m.File == "" {
			return m, fmt.Errorf("record %q: optifine file is missing", fpath)
		}
	case mmcpack.MethodURL:
		if m.URL == "" {
			return m, fmt.Errorf("record %q: download url is missing", fpath)
		}
	}
	return m, nil
}

// writeFile writes data to fpath through a temporary file in the same
// directory so a partial write is never visible under the final name.
func writeFile(fs billy.Filesystem, fpath string, data []byte) error {
	if err := fs.MkdirAll(path.Dir(fpath), 0755); err != nil {
		return err
	}
	tmp := fpath + ".tmp"
	f, err := fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := fs.Remove(tmp); rerr != nil {
			return fmt.Errorf("%w (remove %q: %v)", err, tmp, rerr)
		}
		return err
	}
	return fs.Rename(tmp, fpath)
}
