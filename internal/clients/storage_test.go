package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetURL_AbsoluteAndRelative(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := NewLocalStorage(tmpDir, "/files", "http://example.com:8020")
	if err != nil {
		t.Fatalf("failed create storage: %v", err)
	}

	got := c.GetURL("NACOS_Receipt_REF1.xlsx")
	want := "http://example.com:8020/files/NACOS_Receipt_REF1.xlsx"
	if got != want {
		t.Fatalf("expected %s; got %s", want, got)
	}

	// without base url
	c2, _ := NewLocalStorage(tmpDir, "/files", "")
	if got2 := c2.GetURL("r.xlsx"); got2 != "/files/r.xlsx" {
		t.Fatalf("expected /files/r.xlsx; got %s", got2)
	}
}

func TestSaveAndServeReceipt(t *testing.T) {
	tmpDir := t.TempDir()
	c, err := NewLocalStorage(tmpDir, "/files", "")
	if err != nil {
		t.Fatalf("storage init: %v", err)
	}

	content := []byte("receipt bytes")
	saved, err := c.Save(context.Background(), "NACOS_Receipt_REF123.xlsx", content)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// serve files the way main does: strip the random prefix for the
	// Content-Disposition filename
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file := strings.TrimPrefix(r.URL.Path, "/files/")
		path := filepath.Join(c.BaseDir, file)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		if idx := strings.IndexByte(file, '_'); idx >= 0 {
			file = file[idx+1:]
		}
		w.Header().Set("Content-Disposition", "attachment; filename=\""+file+"\"")
		http.ServeFile(w, r, path)
	})

	ts := httptest.NewServer(h)
	defer ts.Close()

	resp, err := http.Get(ts.URL + c.GetURL(saved))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("bad status: %d", resp.StatusCode)
	}

	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "NACOS_Receipt_REF123.xlsx") {
		t.Fatalf("expected Content-Disposition with receipt filename, got %s", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	if string(body) != string(content) {
		t.Fatalf("content mismatch: %s", string(body))
	}
}

func TestSave_UniqueNames(t *testing.T) {
	tmpDir := t.TempDir()
	c, _ := NewLocalStorage(tmpDir, "/files", "")

	a, err := c.Save(context.Background(), "NACOS_Receipt_REF1.xlsx", []byte("a"))
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	b, err := c.Save(context.Background(), "NACOS_Receipt_REF1.xlsx", []byte("b"))
	if err != nil {
		t.Fatalf("save b: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct stored names for repeated saves")
	}
}
