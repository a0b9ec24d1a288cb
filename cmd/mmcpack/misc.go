package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack/pack"
	"github.com/dimension-gateway/mmcpack/pack/hclspec"
)

const (
	modsDir   = "minecraft/mods"
	indexFile = "minecraft/mods/.index"
)

// openInstance roots a filesystem at the instance directory. The root
// is passed explicitly on every command so invocations behave the same
// from any working directory.
func openInstance(root string) (billy.Filesystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", abs)
	}
	return osfs.New(abs), nil
}

// loadConfig reads pack.hcl from the instance root. A missing file
// yields the defaults.
func loadConfig(root string) (*pack.Config, bool) {
	fpath := filepath.Join(root, defaultConfig)
	src, err := os.ReadFile(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return pack.Default(), true
	}
	if err != nil {
		log.Errorf("read %q: %+v", fpath, err)
		return nil, false
	}
	spec, ok := parseConfig(src, fpath)
	if !ok {
		return nil, false
	}
	cfg, err := pack.FromSpec(spec)
	if err != nil {
		log.Errorf("config %q: %+v", fpath, err)
		return nil, false
	}
	return cfg, true
}

func parseConfig(src []byte, fpath string) (hclspec.File, bool) {
	var f hclspec.File

	parser := hclparse.NewParser()
	diagWr, _ := newDiagWr(parser)

	file, diags := parser.ParseHCL(src, fpath)
	if diags.HasErrors() {
		if err := diagWr.WriteDiagnostics(diags); err != nil {
			log.Errorf("write diags: %+v", err)
		}
		return f, false
	}

	decodeDiags := gohcl.DecodeBody(file.Body, nil, &f)
	diags = append(diags, decodeDiags...)
	if err := diagWr.WriteDiagnostics(diags); err != nil {
		log.Errorf("write diags: %+v", err)
		return f, false
	}
	return f, !diags.HasErrors()
}

func newDiagWr(p *hclparse.Parser) (diagWr hcl.DiagnosticWriter, color bool) {
	files := p.Files()
	stderr := os.Stderr
	fd := int(stderr.Fd())
	istty, color := fdinfo(fd)
	if !istty {
		diagWr := hcl.NewDiagnosticTextWriter(stderr, files, 80, color)
		return diagWr, color
	}
	var width uint
	if w, _, err := terminal.GetSize(fd); err != nil {
		log.Errorf("get term size: %+v", err)
	} else if w >= 0 {
		width = uint(w)
	} else {
		width = 80
	}
	return hcl.NewDiagnosticTextWriter(stderr, files, width, color), color
}

func fdinfo(fd int) (istty, color bool) {
	istty = terminal.IsTerminal(fd)
	if istty {
		color = true
	}
	// See https://no-color.org
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		color = false
	}
	return
}
