package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack/metadata"
)

type ImportCommand struct {
	Root string
}

func (*ImportCommand) Name() string     { return "import" }
func (*ImportCommand) Synopsis() string { return "import a launcher mods index" }
func (*ImportCommand) Usage() string {
	return `Usage: mmcpack import [-root dir]

	Imports the launcher-generated minecraft/mods/.index into the
	metadata store. The index is either a JSON file listing installed
	mods or a directory of ready TOML records. Existing records are
	never overwritten; a missing index is not an error.

Flags:
`
}

func (cmd *ImportCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Root, "root", ".", "instance root directory")
}

func (cmd *ImportCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	instance, err := openInstance(cmd.Root)
	if err != nil {
		log.Errorf("instance root: %+v", err)
		return subcommands.ExitFailure
	}

	n, err := metadata.ImportIndex(instance, indexFile)
	if err != nil {
		log.Errorf("import %q: %+v", indexFile, err)
		return subcommands.ExitFailure
	}
	log.Infof("imported %d records", n)
	return subcommands.ExitSuccess
}
