package fetcher

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"

	"github.com/dimension-gateway/mmcpack"
)

func TestCurseCDNURL(t *testing.T) {
	tests := []struct {
		fileID   int
		filename string
		want     string
	}{
		{1234567, "example-mod-1.0.jar", "https://edge.forgecdn.net/files/1234/567/example-mod-1.0.jar"},
		{1234007, "pad.jar", "https://edge.forgecdn.net/files/1234/007/pad.jar"},
		{987001, "with space.jar", "https://edge.forgecdn.net/files/987/001/with%20space.jar"},
	}
	for _, tt := range tests {
		if got := curseCDNURL(tt.fileID, tt.filename); got != tt.want {
			t.Errorf("curseCDNURL(%d, %q) = %q, want %q", tt.fileID, tt.filename, got, tt.want)
		}
	}
}

func TestFetchCurseCDN(t *testing.T) {
	payload := "0123456789" // 10 bytes
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	oldCDN := curseCDN
	curseCDN = srv.URL + "/files"
	defer func() { curseCDN = oldCDN }()

	fs := memfs.New()
	f := Fetcher{Mods: fs, Client: srv.Client()}
	rep := f.Fetch([]mmcpack.Mod{{
		Name:     "Example Mod",
		Filename: "example-mod-1.0.jar",
		Method:   mmcpack.MethodCurse,
		FileID:   1234567,
	}})

	if installed, _, failed := rep.Summary(); installed != 1 || failed != 0 {
		t.Fatalf("unexpected summary: %+v", rep.Results)
	}
	if want := "/files/1234/567/example-mod-1.0.jar"; gotPath != want {
		t.Fatalf("requested %q, want %q", gotPath, want)
	}
	data := readMod(t, fs, "example-mod-1.0.jar")
	if len(data) != 10 || string(data) != payload {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestFetchCurseAPI(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/api/addon/42/file/7/download-url", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s/dl/real.jar\n", srv.URL)
	})
	mux.HandleFunc("/dl/real.jar", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "resolved bytes")
	})

	oldAPI := curseAddonsAPI
	curseAddonsAPI = srv.URL + "/api"
	defer func() { curseAddonsAPI = oldAPI }()

	fs := memfs.New()
	f := Fetcher{Mods: fs, Client: srv.Client()}
	rep := f.Fetch([]mmcpack.Mod{{
		Name:      "Via API",
		Filename:  "via-api.jar",
		Method:    mmcpack.MethodCurse,
		ProjectID: 42,
		FileID:    7,
	}})

	if installed, _, failed := rep.Summary(); installed != 1 || failed != 0 {
		t.Fatalf("unexpected summary: %+v", rep.Results)
	}
	if got := readMod(t, fs, "via-api.jar"); string(got) != "resolved bytes" {
		t.Fatalf("unexpected content: %q", got)
	}
}
