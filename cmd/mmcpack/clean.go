package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack/fetcher"
	"github.com/dimension-gateway/mmcpack/metadata"
)

type CleanCommand struct {
	Root   string
	DryRun bool
}

func (*CleanCommand) Name() string     { return "clean" }
func (*CleanCommand) Synopsis() string { return "remove undeclared mods" }
func (*CleanCommand) Usage() string {
	return `Usage: mmcpack clean [-root dir] [-n]

	Removes jars from the instance mods directory that no metadata
	record declares. Jars matching a keep pattern from pack.hcl are
	left alone. With -n the removals are only printed.

Flags:
`
}

func (cmd *CleanCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Root, "root", ".", "instance root directory")
	fs.BoolVar(&cmd.DryRun, "n", false, "print removals without removing")
}

func (cmd *CleanCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	instance, err := openInstance(cmd.Root)
	if err != nil {
		log.Errorf("instance root: %+v", err)
		return subcommands.ExitFailure
	}

	// Refuse to remove anything while the metadata store is invalid:
	// a broken record must not turn its jar into an "undeclared" one.
	mods, errs := metadata.Load(instance)
	if len(errs) > 0 {
		for _, err := range errs {
			log.Errorf("metadata: %+v", err)
		}
		return subcommands.ExitFailure
	}

	cfg, ok := loadConfig(cmd.Root)
	if !ok {
		return subcommands.ExitFailure
	}

	modsFS, err := instance.Chroot(modsDir)
	if err != nil {
		log.Errorf("chroot %q: %+v", modsDir, err)
		return subcommands.ExitFailure
	}

	f := fetcher.Fetcher{Mods: modsFS}
	removed, perr := f.Prune(mods, cfg.Keep, cmd.DryRun)
	for _, name := range removed {
		if cmd.DryRun {
			log.Infof("would remove %q", name)
		} else {
			log.Infof("removed %q", name)
		}
	}
	if perr != nil {
		log.Errorf("clean: %+v", perr)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
