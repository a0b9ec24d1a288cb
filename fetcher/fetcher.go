// Package fetcher downloads the mod files declared by the metadata
// store into the instance mods directory. Files that are already
// present are never fetched again; existence is the only state.
package fetcher

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-git/go-billy/v5"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack"
)

type resolveFunc func(*http.Client, mmcpack.Mod) (string, error)

// resolvers maps a download method to its URL resolution strategy.
// Supporting another hosting service is a new entry here.
var resolvers = map[string]resolveFunc{
	mmcpack.MethodCurse:    curseFetchURL,
	mmcpack.MethodURL:      directFetchURL,
	mmcpack.MethodOptifine: optifineFetchURL,
}

func directFetchURL(c *http.Client, m mmcpack.Mod) (string, error) {
	return m.URL, nil
}

// Fetcher downloads missing mod files.
type Fetcher struct {
	// Mods is the filesystem rooted at the instance mods directory.
	Mods billy.Filesystem

	// Client is used for all outbound requests.
	Client *http.Client
}

// Fetch processes the given records sequentially. A failure for one
// record does not abort the rest; the outcome of every record is
// collected into the report.
func (f *Fetcher) Fetch(mods []mmcpack.Mod) Report {
	var rep Report
	for _, m := range mods {
		res := f.fetchOne(m)
		if res.Status == StatusInstalled {
			log.Infof("installed %q", m.Filename)
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}

func (f *Fetcher) fetchOne(m mmcpack.Mod) Result {
	_, err := f.Mods.Stat(m.Filename)
	if err == nil {
		return Result{Mod: m, Status: StatusSkipped}
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Result{Mod: m, Status: StatusFailed, Err: fmt.Errorf("stat %q: %w", m.Filename, err)}
	}

	resolve, ok := resolvers[m.Method]
	if !ok {
		return Result{Mod: m, Status: StatusFailed, Err: fmt.Errorf("%q: %w", m.Method, mmcpack.ErrUnknownModMethod)}
	}
	log.Infof("downloading %s", m.Name)
	rawurl, err := resolve(f.Client, m)
	if err != nil {
		return Result{Mod: m, Status: StatusFailed, Err: fmt.Errorf("resolve: %w", err)}
	}
	if err := f.download(rawurl, m.Filename); err != nil {
		return Result{Mod: m, Status: StatusFailed, Err: err}
	}
	return Result{Mod: m, Status: StatusInstalled}
}

// download streams rawurl into a temporary file next to the target and
// renames it into place, so an interrupted transfer never leaves a
// partial file under the final name.
func (f *Fetcher) download(rawurl, filename string) error {
	resp, err := f.Client.Get(rawurl)
	if err != nil {
		return err
	}
	r := resp.Body
	defer func() {
		err := r.Close()
		if err != nil {
			log.Errorf("close %q: %+v", rawurl, err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %q: unexpected status %s", rawurl, resp.Status)
	}

	tmp := filename + ".tmp"
	flags := os.O_WRONLY | os.O_TRUNC | os.O_CREATE
	dst, err := f.Mods.OpenFile(tmp, flags, 0644)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := f.Mods.Remove(tmp); rerr != nil {
			log.Errorf("remove %q: %+v", tmp, rerr)
		}
		return err
	}
	return f.Mods.Rename(tmp, filename)
}
