// Package mmc describes the manifest files a MultiMC-style launcher
// expects at the root of an importable instance archive.
package mmc

import (
	"bytes"
	"fmt"
)

// PackFile and CfgFile are the manifest names at the archive root.
const (
	PackFile = "mmc-pack.json"
	CfgFile  = "instance.cfg"
)

// Pack is the mmc-pack.json component manifest.
type Pack struct {
	FormatVersion int         `json:"formatVersion"`
	Components    []Component `json:"components"`
}

type Component struct {
	UID       string `json:"uid"`
	Version   string `json:"version"`
	Important bool   `json:"important,omitempty"`
}

// MinecraftVersion returns the version of the net.minecraft component,
// or the empty string when the manifest has none.
func (p *Pack) MinecraftVersion() string {
	for _, c := range p.Components {
		if c.UID == "net.minecraft" {
			return c.Version
		}
	}
	return ""
}

// InstanceCfg renders the minimal instance.cfg companion file. Some
// launchers look for it rather than mmc-pack.json.
func InstanceCfg(name, mcVersion string) []byte {
	var b bytes.Buffer
	b.WriteString("[Instance]\n")
	fmt.Fprintf(&b, "name=%s\n", name)
	if mcVersion != "" {
		fmt.Fprintf(&b, "mcVersion=%s\n", mcVersion)
	}
	return b.Bytes()
}
