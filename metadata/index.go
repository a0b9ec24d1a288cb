package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/pelletier/go-toml/v2"
)

// indexEntry is one mod of a launcher-generated index. Launchers are
// not consistent about field names, so the common spellings are all
// accepted.
type indexEntry struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	FileName string `json:"fileName"`

	CurseforgeProjectID  int `json:"curseforge_project_id"`
	CurseforgeProjectID2 int `json:"curseforgeProjectID"`
	FileID               int `json:"fileID"`

	Update struct {
		Curseforge struct {
			FileID int `json:"file-id"`
		} `json:"curseforge"`
	} `json:"update"`
}

func (e *indexEntry) filename() string {
	if e.Filename != "" {
		return e.Filename
	}
	return e.FileName
}

func (e *indexEntry) curseFileID() int {
	for _, id := range []int{
		e.CurseforgeProjectID,
		e.CurseforgeProjectID2,
		e.FileID,
		e.Update.Curseforge.FileID,
	} {
		if id > 0 {
			return id
		}
	}
	return 0
}

// ImportIndex ingests a launcher-generated mods index at indexPath into
// the record store. The index is either a single JSON file listing the
// installed mods or a directory of ready TOML records; whichever is
// found is imported. Existing records are never overwritten. Returns
// the number of records written. A missing index is not an error.
func ImportIndex(fs billy.Filesystem, indexPath string) (int, error) {
	fi, err := fs.Stat(indexPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", indexPath, err)
	}
	if fi.IsDir() {
		return importDir(fs, indexPath)
	}
	return importJSON(fs, indexPath)
}

func importDir(fs billy.Filesystem, dir string) (int, error) {
	fis, err := fs.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read %q: %w", dir, err)
	}
	sort.Slice(fis, func(i, j int) bool {
		return fis[i].Name() < fis[j].Name()
	})

	n := 0
	for _, fi := range fis {
		name := fi.Name()
		if fi.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".toml") {
			continue
		}
		dest := path.Join(Dir, name)
		if _, err := fs.Stat(dest); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return n, fmt.Errorf("stat %q: %w", dest, err)
		}
		data, err := readAll(fs, path.Join(dir, name))
		if err != nil {
			return n, err
		}
		if err := writeFile(fs, dest, data); err != nil {
			return n, fmt.Errorf("write %q: %w", dest, err)
		}
		n++
	}
	return n, nil
}

func importJSON(fs billy.Filesystem, fpath string) (int, error) {
	data, err := readAll(fs, fpath)
	if err != nil {
		return 0, err
	}

	var entries []indexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		var wrapper struct {
			Mods []indexEntry `json:"mods"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return 0, fmt.Errorf("parse %q: %w", fpath, err)
		}
		entries = wrapper.Mods
	}

	n := 0
	for _, e := range entries {
		fname := e.filename()
		if fname == "" {
			continue
		}
		dest := path.Join(Dir, fname+".toml")
		if _, err := fs.Stat(dest); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return n, fmt.Errorf("stat %q: %w", dest, err)
		}

		r := record{
			Name:     e.Name,
			Filename: fname,
		}
		if r.Name == "" {
			r.Name = fname
		}
		if id := e.curseFileID(); id > 0 {
			r.Update = &updateSpec{
				Curseforge: &curseforge{FileID: id},
			}
		}
		out, err := toml.Marshal(&r)
		if err != nil {
			return n, fmt.Errorf("encode %q: %w", dest, err)
		}
		if err := writeFile(fs, dest, out); err != nil {
			return n, fmt.Errorf("write %q: %w", dest, err)
		}
		n++
	}
	return n, nil
}

func readAll(fs billy.Basic, fpath string) ([]byte, error) {
	f, err := fs.Open(fpath)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", fpath, err)
	}
	data, err := io.ReadAll(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", fpath, err)
	}
	return data, nil
}
