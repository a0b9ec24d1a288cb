package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack/fetcher"
	"github.com/dimension-gateway/mmcpack/metadata"
)

type FetchCommand struct {
	Root    string
	Timeout time.Duration
}

func (*FetchCommand) Name() string     { return "fetch" }
func (*FetchCommand) Synopsis() string { return "download missing mods" }
func (*FetchCommand) Usage() string {
	return `Usage: mmcpack fetch [-root dir] [-timeout duration]

	Downloads the mod files declared by the metadata records that are
	not present in the instance mods directory yet. Present files are
	never re-downloaded. A failing record does not stop the run; every
	failure is reported and the command exits non-zero if any occurred.

Flags:
`
}

func (cmd *FetchCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Root, "root", ".", "instance root directory")
	fs.DurationVar(&cmd.Timeout, "timeout", 5*time.Minute, "per-download timeout")
}

func (cmd *FetchCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	instance, err := openInstance(cmd.Root)
	if err != nil {
		log.Errorf("instance root: %+v", err)
		return subcommands.ExitFailure
	}

	mods, errs := metadata.Load(instance)
	for _, err := range errs {
		log.Errorf("metadata: %+v", err)
	}

	if err := instance.MkdirAll(modsDir, 0755); err != nil {
		log.Errorf("mkdir %q: %+v", modsDir, err)
		return subcommands.ExitFailure
	}
	modsFS, err := instance.Chroot(modsDir)
	if err != nil {
		log.Errorf("chroot %q: %+v", modsDir, err)
		return subcommands.ExitFailure
	}

	f := fetcher.Fetcher{
		Mods:   modsFS,
		Client: &http.Client{Timeout: cmd.Timeout},
	}
	rep := f.Fetch(mods)

	for _, res := range rep.Failed() {
		log.Errorf("fetch %q (%s): %+v", res.Mod.Name, res.Mod.Filename, res.Err)
	}
	installed, skipped, failed := rep.Summary()
	log.Infof("installed %d, skipped %d, failed %d", installed, skipped, failed)

	if failed > 0 || len(errs) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
