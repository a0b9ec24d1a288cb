package mmcpack

const (
	// MethodCurse resolves the download through the CurseForge
	// file ID declared in the record.
	MethodCurse = "curseforge"

	// MethodURL downloads the declared URL as-is.
	MethodURL = "url"

	// MethodOptifine scrapes the OptiFine download page
	// for the declared file name.
	MethodOptifine = "optifine"
)

// Mod is one entry of the metadata store, describing a single
// file of the pack and where to get it from.
type Mod struct {
	// Name is the display name of the mod.
	Name string

	// Filename is the file name in the instance mods directory.
	// Unique across the store.
	Filename string

	// Method is the download method for the mod.
	// One of MethodCurse, MethodURL, MethodOptifine.
	Method string

	// FileID is the CurseForge file ID (MethodCurse).
	FileID int
	// ProjectID is the CurseForge project ID (MethodCurse).
	// Optional; when present the download URL is resolved
	// through the addons API instead of the CDN scheme.
	ProjectID int

	// URL is the direct download URL (MethodURL).
	URL string

	// File is the OptiFine file name (MethodOptifine).
	File string

	// Record is the metadata file the mod was loaded from.
	Record string
}
