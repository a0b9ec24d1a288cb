// Package builder assembles the distributable instance archive: the
// two launcher manifests at the archive root and the instance contents
// under the minecraft prefix.
package builder

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/gobwas/glob"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack/builder/mmc"
	"github.com/dimension-gateway/mmcpack/pack"
)

// defaultSources lists the instance subtrees included in the archive
// with the prefix each one maps to, in walk order. A standalone mods
// directory next to the instance is folded into minecraft/mods.
var defaultSources = [][2]string{
	{"mods", "minecraft/mods"},
	{"minecraft/mods", "minecraft/mods"},
	{"minecraft/config", "minecraft/config"},
	{"minecraft/scripts", "minecraft/scripts"},
	{"minecraft/groovy", "minecraft/groovy"},
	{"minecraft/resourcepacks", "minecraft/resourcepacks"},
}

// Builder writes files into the instance archive. Duplicate archive
// paths are skipped first-wins, so a file present at two source
// locations is packed once.
type Builder struct {
	Root   billy.Filesystem
	Pack   *zip.Writer
	Ignore []glob.Glob

	seen map[string]bool
}

func New(root billy.Filesystem, w *zip.Writer, ignore []glob.Glob) *Builder {
	return &Builder{
		Root:   root,
		Pack:   w,
		Ignore: ignore,
		seen:   make(map[string]bool),
	}
}

func (b *Builder) AddReader(r io.Reader, name string) error {
	if b.seen[name] {
		return nil
	}
	b.seen[name] = true
	w, err := b.Pack.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}

func (b *Builder) AddBytes(data []byte, name string) error {
	return b.AddReader(bytes.NewReader(data), name)
}

func (b *Builder) AddFile(fpath, name string) error {
	f, err := b.Root.Open(fpath)
	if err != nil {
		return err
	}
	defer func() {
		err := f.Close()
		if err != nil {
			log.Errorf("close %q: %+v", fpath, err)
		}
	}()
	return b.AddReader(f, name)
}

// AddTree walks src in sorted order and adds every file under prefix,
// preserving relative paths. A missing source tree is skipped with a
// warning.
func (b *Builder) AddTree(src, prefix string) error {
	fis, err := b.Root.ReadDir(src)
	if errors.Is(err, os.ErrNotExist) {
		log.Warnf("source %q does not exist, skipping", src)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %q: %w", src, err)
	}
	sort.Slice(fis, func(i, j int) bool {
		return fis[i].Name() < fis[j].Name()
	})
	for _, fi := range fis {
		fpath := path.Join(src, fi.Name())
		name := path.Join(prefix, fi.Name())
		if fi.IsDir() {
			if err := b.AddTree(fpath, name); err != nil {
				return err
			}
			continue
		}
		if pack.Match(b.Ignore, name) {
			continue
		}
		if err := b.AddFile(fpath, name); err != nil {
			return fmt.Errorf("add %q: %w", fpath, err)
		}
	}
	return nil
}

// Compile writes the full instance archive to w. Hand-provided
// manifest files at the instance root win over synthesized ones; the
// synthesized ones are streamed straight into the archive and never
// written into the instance tree.
func Compile(root billy.Filesystem, cfg *pack.Config, w *zip.Writer) error {
	b := New(root, w, cfg.Ignore)

	packJSON, mp, err := packManifest(root, cfg)
	if err != nil {
		return err
	}
	if err := b.AddBytes(packJSON, mmc.PackFile); err != nil {
		return err
	}

	instCfg, err := instanceCfg(root, cfg, mp)
	if err != nil {
		return err
	}
	if err := b.AddBytes(instCfg, mmc.CfgFile); err != nil {
		return err
	}

	sources := append([][2]string{}, defaultSources...)
	for _, dir := range cfg.Include {
		sub := path.Join("minecraft", dir)
		sources = append(sources, [2]string{sub, sub})
	}
	for _, s := range sources {
		if err := b.AddTree(s[0], s[1]); err != nil {
			return err
		}
	}
	return nil
}

// packManifest returns the mmc-pack.json bytes and their parsed form.
// A hand-provided manifest at the instance root is used verbatim;
// otherwise one is synthesized from the configured components.
func packManifest(root billy.Basic, cfg *pack.Config) ([]byte, *mmc.Pack, error) {
	data, err := readFile(root, mmc.PackFile)
	switch {
	case err == nil:
		var p mmc.Pack
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", mmc.PackFile, err)
		}
		return data, &p, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, nil, err
	}

	p := mmc.Pack{
		FormatVersion: 1,
		Components:    make([]mmc.Component, 0, len(cfg.Components)),
	}
	for _, c := range cfg.Components {
		p.Components = append(p.Components, mmc.Component{
			UID:       c.UID,
			Version:   c.Version,
			Important: c.Important,
		})
	}
	data, err = json.MarshalIndent(&p, "", "    ")
	if err != nil {
		return nil, nil, err
	}
	data = append(data, '\n')
	return data, &p, nil
}

func instanceCfg(root billy.Basic, cfg *pack.Config, p *mmc.Pack) ([]byte, error) {
	data, err := readFile(root, mmc.CfgFile)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return mmc.InstanceCfg(cfg.Name, p.MinecraftVersion()), nil
}

func readFile(fs billy.Basic, fpath string) ([]byte, error) {
	f, err := fs.Open(fpath)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return data, err
}
