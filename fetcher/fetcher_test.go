package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/dimension-gateway/mmcpack"
)

func writeMod(t *testing.T, fs billy.Filesystem, name, content string) {
	t.Helper()
	f, err := fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		t.Fatalf("write %q: %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %q: %v", name, err)
	}
}

func readMod(t *testing.T, fs billy.Filesystem, name string) []byte {
	t.Helper()
	f, err := fs.Open(name)
	if err != nil {
		t.Fatalf("open %q: %v", name, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %q: %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %q: %v", name, err)
	}
	return data
}

func listMods(t *testing.T, fs billy.Filesystem) []string {
	t.Helper()
	fis, err := fs.ReadDir(".")
	if err != nil {
		t.Fatalf("read mods dir: %v", err)
	}
	names := make([]string, 0, len(fis))
	for _, fi := range fis {
		names = append(names, fi.Name())
	}
	sort.Strings(names)
	return names
}

func TestFetchSkipsExisting(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	fs := memfs.New()
	writeMod(t, fs, "present.jar", "already here")

	f := Fetcher{Mods: fs, Client: srv.Client()}
	rep := f.Fetch([]mmcpack.Mod{{
		Name:     "Present",
		Filename: "present.jar",
		Method:   mmcpack.MethodURL,
		URL:      srv.URL + "/present.jar",
	}})

	if requests != 0 {
		t.Fatalf("expected zero requests, got %d", requests)
	}
	installed, skipped, failed := rep.Summary()
	if installed != 0 || skipped != 1 || failed != 0 {
		t.Fatalf("unexpected summary: %d/%d/%d", installed, skipped, failed)
	}
	if got := readMod(t, fs, "present.jar"); string(got) != "already here" {
		t.Fatalf("existing file was touched: %q", got)
	}
}

func TestFetchDownloadsMissing(t *testing.T) {
	payload := "0123456789" // 10 bytes
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	fs := memfs.New()
	f := Fetcher{Mods: fs, Client: srv.Client()}
	rep := f.Fetch([]mmcpack.Mod{{
		Name:     "Missing",
		Filename: "missing.jar",
		Method:   mmcpack.MethodURL,
		URL:      srv.URL + "/missing.jar",
	}})

	installed, _, failed := rep.Summary()
	if installed != 1 || failed != 0 {
		t.Fatalf("unexpected summary: %+v", rep.Results)
	}
	if got := readMod(t, fs, "missing.jar"); string(got) != payload {
		t.Fatalf("unexpected content: %q", got)
	}
	// No temporary file left behind.
	if names := listMods(t, fs); len(names) != 1 {
		t.Fatalf("unexpected files: %v", names)
	}
}

func TestFetchPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone.jar" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	fs := memfs.New()
	f := Fetcher{Mods: fs, Client: srv.Client()}
	rep := f.Fetch([]mmcpack.Mod{
		{Name: "Gone", Filename: "gone.jar", Method: mmcpack.MethodURL, URL: srv.URL + "/gone.jar"},
		{Name: "Fine", Filename: "fine.jar", Method: mmcpack.MethodURL, URL: srv.URL + "/fine.jar"},
		{Name: "Odd", Filename: "odd.jar", Method: "mystery"},
	})

	installed, _, failed := rep.Summary()
	if installed != 1 || failed != 2 {
		t.Fatalf("unexpected summary: %+v", rep.Results)
	}
	// The failure of the first record did not stop the second.
	if got := readMod(t, fs, "fine.jar"); string(got) != "ok" {
		t.Fatalf("unexpected content: %q", got)
	}
	for _, res := range rep.Failed() {
		if res.Err == nil {
			t.Fatalf("failed result without error: %+v", res)
		}
	}
}

func TestFetchUnknownMethod(t *testing.T) {
	fs := memfs.New()
	f := Fetcher{Mods: fs, Client: http.DefaultClient}
	rep := f.Fetch([]mmcpack.Mod{{
		Name:     "Odd",
		Filename: "odd.jar",
		Method:   "mystery",
	}})

	failed := rep.Failed()
	if len(failed) != 1 {
		t.Fatalf("expected 1 failure, got %+v", rep.Results)
	}
	if len(listMods(t, fs)) != 0 {
		t.Fatalf("unexpected files in mods dir")
	}
}

func TestFetchTruncatedBodyLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Announce more than is sent so the client hits an
		// unexpected EOF mid-copy.
		w.Header().Set("Content-Length", "100")
		if _, err := w.Write([]byte("short")); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))
	defer srv.Close()

	fs := memfs.New()
	f := Fetcher{Mods: fs, Client: srv.Client()}
	rep := f.Fetch([]mmcpack.Mod{{
		Name:     "Cut",
		Filename: "cut.jar",
		Method:   mmcpack.MethodURL,
		URL:      srv.URL + "/cut.jar",
	}})

	if _, _, failed := rep.Summary(); failed != 1 {
		t.Fatalf("expected failure, got %+v", rep.Results)
	}
	if names := listMods(t, fs); len(names) != 0 {
		t.Fatalf("expected empty mods dir, got %v", names)
	}
}
