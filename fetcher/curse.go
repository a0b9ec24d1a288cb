package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack"
)

// Base endpoints; variables so tests can point them at a local server.
var (
	curseAddonsAPI = "https://addons-ecs.forgesvc.net/api/v2"
	curseCDN       = "https://edge.forgecdn.net/files"
)

func curseAPIURL(projectID, fileID int) string {
	return fmt.Sprintf("%s/addon/%d/file/%d/download-url", curseAddonsAPI, projectID, fileID)
}

// curseCDNURL derives the CDN location from the file ID alone: the ID
// splits into its leading digits and the last three, so 1234567 maps
// to files/1234/567.
func curseCDNURL(fileID int, filename string) string {
	return fmt.Sprintf("%s/%d/%03d/%s", curseCDN, fileID/1000, fileID%1000, url.PathEscape(filename))
}

// curseFetchURL resolves the download URL for a CurseForge record.
// Records carrying a project ID go through the addons API; the usual
// file-id-only records use the CDN path scheme directly.
func curseFetchURL(c *http.Client, m mmcpack.Mod) (string, error) {
	if m.ProjectID <= 0 {
		return curseCDNURL(m.FileID, m.Filename), nil
	}

	u := curseAPIURL(m.ProjectID, m.FileID)
	resp, err := c.Get(u)
	if err != nil {
		return "", err
	}
	r := resp.Body
	defer func() {
		err := r.Close()
		if err != nil {
			log.Errorf("close %q: %+v", u, err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %q: unexpected status %s", u, resp.Status)
	}

	// Don’t read URLs larger than 1KiB.
	lr := io.LimitReader(r, 1024)

	var b strings.Builder
	if _, err := io.Copy(&b, lr); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
