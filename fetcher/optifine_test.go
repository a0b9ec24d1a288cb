package fetcher

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimension-gateway/mmcpack"
)

func TestOptifineFetchURL(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/adloadx", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("f"); got != "OptiFine_HD_U_I1.jar" {
			t.Errorf("unexpected file query: %q", got)
		}
		fmt.Fprint(w, `<html><body>
			<div id="Download"><a href="downloadx?f=OptiFine_HD_U_I1.jar&x=abc123">Download</a></div>
		</body></html>`)
	})

	oldBase := optifineBase
	optifineBase = srv.URL
	defer func() { optifineBase = oldBase }()

	m := mmcpack.Mod{
		Filename: "OptiFine_HD_U_I1.jar",
		Method:   mmcpack.MethodOptifine,
		File:     "OptiFine_HD_U_I1.jar",
	}
	rawurl, err := optifineFetchURL(srv.Client(), m)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := srv.URL + "/downloadx?f=OptiFine_HD_U_I1.jar&x=abc123"
	if rawurl != want {
		t.Fatalf("resolved %q, want %q", rawurl, want)
	}
}

func TestOptifineFetchURLNoDownloadLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	}))
	defer srv.Close()

	oldBase := optifineBase
	optifineBase = srv.URL
	defer func() { optifineBase = oldBase }()

	m := mmcpack.Mod{File: "OptiFine_HD_U_I1.jar"}
	_, err := optifineFetchURL(srv.Client(), m)
	if !errors.Is(err, ErrUnexpectedNode) {
		t.Fatalf("expected ErrUnexpectedNode, got %v", err)
	}
}
