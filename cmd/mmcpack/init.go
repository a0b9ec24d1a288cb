package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/google/subcommands"
	"github.com/hashicorp/hcl/v2/hclwrite"
	log "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"
)

type InitCommand struct {
	Root      string
	PackName  string
	Version   string
	MCVersion string
}

func (*InitCommand) Name() string     { return "init" }
func (*InitCommand) Synopsis() string { return "create a starter pack.hcl" }
func (*InitCommand) Usage() string {
	return `Usage: mmcpack init [-root dir] [-name string] [-version string] [-mc version]

	Writes a starter pack.hcl into the instance root. Refuses to
	overwrite an existing one.

Flags:
`
}

func (cmd *InitCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&cmd.Root, "root", ".", "instance root directory")
	fs.StringVar(&cmd.PackName, "name", "Modpack", "pack display name")
	fs.StringVar(&cmd.Version, "version", "1.0.0", "pack version")
	fs.StringVar(&cmd.MCVersion, "mc", "", "minecraft version component")
}

func (cmd *InitCommand) Execute(ctx context.Context, fs *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	fpath := filepath.Join(cmd.Root, defaultConfig)
	if _, err := os.Stat(fpath); err == nil {
		log.Errorf("%q already exists", fpath)
		return subcommands.ExitFailure
	} else if !os.IsNotExist(err) {
		log.Errorf("stat %q: %+v", fpath, err)
		return subcommands.ExitFailure
	}

	conf := hclwrite.NewEmptyFile()
	body := conf.Body()
	block := body.AppendNewBlock("pack", []string{cmd.PackName})
	pb := block.Body()
	pb.SetAttributeValue("version", cty.StringVal(cmd.Version))
	if cmd.MCVersion != "" {
		pb.AppendNewline()
		comp := pb.AppendNewBlock("component", nil)
		cb := comp.Body()
		cb.SetAttributeValue("uid", cty.StringVal("net.minecraft"))
		cb.SetAttributeValue("version", cty.StringVal(cmd.MCVersion))
	}

	if err := renameio.WriteFile(fpath, conf.Bytes(), 0644); err != nil {
		log.Errorf("write %q: %+v", fpath, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
