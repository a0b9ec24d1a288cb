package fetcher

import (
	"reflect"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/gobwas/glob"

	"github.com/dimension-gateway/mmcpack"
)

func TestPrune(t *testing.T) {
	fs := memfs.New()
	writeMod(t, fs, "declared.jar", "keep")
	writeMod(t, fs, "extraneous.jar", "drop")
	writeMod(t, fs, "manual.jar", "kept by pattern")
	writeMod(t, fs, "notes.txt", "not a jar")

	mods := []mmcpack.Mod{{Filename: "declared.jar"}}
	keep := []glob.Glob{glob.MustCompile("manual*.jar")}

	f := Fetcher{Mods: fs}
	removed, err := f.Prune(mods, keep, false)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if want := []string{"extraneous.jar"}; !reflect.DeepEqual(removed, want) {
		t.Fatalf("removed %v, want %v", removed, want)
	}

	want := []string{"declared.jar", "manual.jar", "notes.txt"}
	if got := listMods(t, fs); !reflect.DeepEqual(got, want) {
		t.Fatalf("mods dir %v, want %v", got, want)
	}
}

func TestPruneDryRun(t *testing.T) {
	fs := memfs.New()
	writeMod(t, fs, "extraneous.jar", "drop")

	f := Fetcher{Mods: fs}
	removed, err := f.Prune(nil, nil, true)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if want := []string{"extraneous.jar"}; !reflect.DeepEqual(removed, want) {
		t.Fatalf("removed %v, want %v", removed, want)
	}
	if got := listMods(t, fs); !reflect.DeepEqual(got, []string{"extraneous.jar"}) {
		t.Fatalf("dry run removed files: %v", got)
	}
}
