package fetcher

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/net/html"

	"github.com/andybalholm/cascadia"
	log "github.com/sirupsen/logrus"

	"github.com/dimension-gateway/mmcpack"
)

var ErrUnexpectedNode = errors.New("unexpected html node")

var optifineSel = cascadia.MustCompile("#Download > a")

// optifineBase is a variable so tests can point it at a local server.
var optifineBase = "https://optifine.net"

func optifineURL(file string) string {
	return fmt.Sprintf("%s/adloadx?f=%s", optifineBase, url.QueryEscape(file))
}

// optifineFetchURL scrapes the download page for the declared file and
// extracts the mirror link.
func optifineFetchURL(c *http.Client, m mmcpack.Mod) (string, error) {
	u := optifineURL(m.File)
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

	// Don’t read HTML pages larger than 1MiB.
	lr := io.LimitReader(r, 1024*1024)

	root, err := html.Parse(lr)
	if err != nil {
		return "", err
	}
	n := optifineSel.MatchFirst(root)
	if n == nil || n.Type != html.ElementNode {
		return "", ErrUnexpectedNode
	}
	if n.Namespace != "" || n.Data != "a" {
		return "", ErrUnexpectedNode
	}
	for _, attr := range n.Attr {
		if attr.Namespace != "" {
			continue
		}
		if attr.Key != "href" {
			continue
		}
		rawurl := fmt.Sprintf("%s/%s", optifineBase, attr.Val)
		return rawurl, nil
	}
	return "", ErrUnexpectedNode
}
