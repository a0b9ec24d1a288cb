package main

import (
	"archive/zip"
	"bufio"
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack/builder"
)

type CompileCommand struct {
	Root       string
	OutputPath string
}

func (*CompileCommand) Name() string     { return "compile" }
func (*CompileCommand) Synopsis() string { return "build the instance archive" }
func (*CompileCommand) Usage() string {
	return `Usage: mmcpack compile [-root dir] [-o path]

	Builds the distributable instance archive. The archive root holds
	mmc-pack.json and instance.cfg; hand-provided copies at the
	instance root win, otherwise both are synthesized from pack.hcl.
	Everything else goes under the minecraft/ prefix with relative
	paths preserved. The output file is replaced atomically.

Flags:
`
}

func (cmd *CompileCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Root, "root", ".", "instance root directory")
	fs.StringVar(&cmd.OutputPath, "o", "build/modpack-latest.zip", "archive output path")
}

func (cmd *CompileCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) (rc subcommands.ExitStatus) {
	instance, err := openInstance(cmd.Root)
	if err != nil {
		log.Errorf("instance root: %+v", err)
		return subcommands.ExitFailure
	}
	cfg, ok := loadConfig(cmd.Root)
	if !ok {
		return subcommands.ExitFailure
	}

	outPath := filepath.FromSlash(cmd.OutputPath)
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(cmd.Root, outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		log.Errorf("mkdir %q: %+v", filepath.Dir(outPath), err)
		return subcommands.ExitFailure
	}

	pf, err := renameio.NewPendingFile(outPath, renameio.WithPermissions(0644))
	if err != nil {
		log.Errorf("create %q: %+v", outPath, err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := pf.Cleanup(); err != nil {
			log.Errorf("cleanup %q: %+v", outPath, err)
			rc = subcommands.ExitFailure
		}
	}()

	w := bufio.NewWriter(pf)
	z := zip.NewWriter(w)

	if err := builder.Compile(instance, cfg, z); err != nil {
		log.Errorf("compile: %+v", err)
		return subcommands.ExitFailure
	}
	if err := z.Close(); err != nil {
		log.Errorf("close archive: %+v", err)
		return subcommands.ExitFailure
	}
	if err := w.Flush(); err != nil {
		log.Errorf("flush %q: %+v", outPath, err)
		return subcommands.ExitFailure
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		log.Errorf("write %q: %+v", outPath, err)
		return subcommands.ExitFailure
	}

	log.Infof("packed %q", outPath)
	return subcommands.ExitSuccess
}
