package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/cmi5-backend/internal/data/repos/testutil"
	"github.com/yungbote/cmi5-backend/internal/domain/errs"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) UploadFile(ctx context.Context, key string, body io.Reader, size int64) error {
	if m.failOn != "" && strings.HasSuffix(key, m.failOn) {
		return errors.New("bucket unavailable")
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memStore) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) DeletePrefix(ctx context.Context, prefix string) error {
	keys, _ := m.ListKeys(ctx, prefix)
	for _, k := range keys {
		_ = m.DeleteFile(ctx, k)
	}
	return nil
}

func (m *memStore) GetPublicURL(key string) string { return "https://cdn.test/" + key }

type recordingObserver struct {
	mu       sync.Mutex
	statuses []string
}

func (r *recordingObserver) ObservePackageUpload(status string, files int, dur time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

const testManifest = `<?xml version="1.0" encoding="utf-8"?>
<courseStructure xmlns="https://w3id.org/xapi/profiles/cmi5/v1/CourseStructure.xsd">
  <course id="https://example.com/course">
    <title><langstring lang="en-US">Intro to Safety</langstring></title>
    <description><langstring lang="en-US">Basics</langstring></description>
  </course>
</courseStructure>`

func buildZip(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func source(r *bytes.Reader, contentType string) PackageSource {
	return PackageSource{Filename: "course.zip", ContentType: contentType, Body: r, Size: r.Size()}
}

func TestPackageServiceUpload(t *testing.T) {
	store := newMemStore()
	obs := &recordingObserver{}
	svc := NewPackageService(testutil.Logger(t), store, PackageConfig{Concurrency: 2}, obs)

	zr := buildZip(t, map[string]string{
		"cmi5.xml":          testManifest,
		"res/index.html":    "<html></html>",
		"res/js/app.js":     "console.log(1)",
		"res/css/style.css": "body{}",
	})
	pkg, err := svc.Upload(context.Background(), source(zr, "application/zip"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	wantLink := "courses/" + pkg.ID.String() + "/res/index.html"
	if pkg.FileLink != wantLink {
		t.Fatalf("file link: want %q got %q", wantLink, pkg.FileLink)
	}
	if pkg.Title != "Intro to Safety" || pkg.Description != "Basics" {
		t.Fatalf("manifest metadata: %+v", pkg)
	}
	keys, _ := store.ListKeys(context.Background(), pkg.Prefix+"/")
	if len(keys) != 4 || pkg.Files != 4 {
		t.Fatalf("expected 4 stored objects, got %v", keys)
	}
	if got := svc.LaunchURL(pkg.FileLink); got != "https://cdn.test/"+wantLink {
		t.Fatalf("LaunchURL: %q", got)
	}
	if len(obs.statuses) != 1 || obs.statuses[0] != "stored" {
		t.Fatalf("observer: %v", obs.statuses)
	}

	if err := svc.Remove(context.Background(), pkg.Prefix); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if keys, _ := store.ListKeys(context.Background(), pkg.Prefix); len(keys) != 0 {
		t.Fatalf("Remove left objects: %v", keys)
	}
}

func TestPackageServiceRejects(t *testing.T) {
	svc := NewPackageService(testutil.Logger(t), newMemStore(), PackageConfig{MaxBytes: 1 << 20}, nil)
	ctx := context.Background()

	valid := buildZip(t, map[string]string{"cmi5.xml": testManifest})
	_, err := svc.Upload(ctx, source(valid, "text/plain"))
	if !errs.IsCode(err, errs.CodeInvalidUpload) || errs.MessageOf(err) != msgBadArchive {
		t.Fatalf("content type: got %v", err)
	}

	garbage := bytes.NewReader([]byte("not a zip"))
	_, err = svc.Upload(ctx, source(garbage, "application/zip"))
	if !errs.IsCode(err, errs.CodeInvalidUpload) || errs.MessageOf(err) != msgBadArchive {
		t.Fatalf("bad archive: got %v", err)
	}

	noManifest := buildZip(t, map[string]string{"res/index.html": "x", "nested/cmi5.xml": "x"})
	_, err = svc.Upload(ctx, source(noManifest, "application/x-zip-compressed"))
	if !errs.IsCode(err, errs.CodeInvalidUpload) || errs.MessageOf(err) != msgMissingManifest {
		t.Fatalf("missing manifest: got %v", err)
	}

	slip := buildZip(t, map[string]string{"cmi5.xml": testManifest, "../../etc/passwd": "x"})
	_, err = svc.Upload(ctx, source(slip, "application/octet-stream"))
	if !errs.IsCode(err, errs.CodeInvalidUpload) {
		t.Fatalf("zip slip: got %v", err)
	}

	small := NewPackageService(testutil.Logger(t), newMemStore(), PackageConfig{MaxBytes: 10}, nil)
	_, err = small.Upload(ctx, source(buildZip(t, map[string]string{"cmi5.xml": testManifest}), "application/zip"))
	if !errs.IsCode(err, errs.CodeInvalidUpload) {
		t.Fatalf("oversize: got %v", err)
	}
}

func TestPackageServiceCleansUpOnStoreFailure(t *testing.T) {
	store := newMemStore()
	store.failOn = "app.js"
	obs := &recordingObserver{}
	svc := NewPackageService(testutil.Logger(t), store, PackageConfig{Concurrency: 1}, obs)

	zr := buildZip(t, map[string]string{
		"cmi5.xml":       testManifest,
		"res/index.html": "<html></html>",
		"res/app.js":     "x",
	})
	_, err := svc.Upload(context.Background(), source(zr, "application/zip"))
	if !errs.IsCode(err, errs.CodeInternal) {
		t.Fatalf("want internal error, got %v", err)
	}
	if keys, _ := store.ListKeys(context.Background(), "courses/"); len(keys) != 0 {
		t.Fatalf("partial upload not cleaned: %v", keys)
	}
	if len(obs.statuses) != 1 || obs.statuses[0] != "failed" {
		t.Fatalf("observer: %v", obs.statuses)
	}
}

func TestPackageServiceRemoveGuards(t *testing.T) {
	svc := NewPackageService(testutil.Logger(t), newMemStore(), PackageConfig{}, nil)
	if err := svc.Remove(context.Background(), ""); err == nil {
		t.Fatalf("empty prefix must be refused")
	}
	if err := svc.Remove(context.Background(), "courses/"); err == nil {
		t.Fatalf("category-wide prefix must be refused")
	}
}

func TestCleanEntryName(t *testing.T) {
	cases := map[string]string{
		"res/index.html":   "res/index.html",
		"./res/a.js":       "res/a.js",
		"res\\win.css":     "res/win.css",
		"/abs/path":        "",
		"../escape":        "",
		"res/../../escape": "",
	}
	for in, want := range cases {
		if got := cleanEntryName(in); got != want {
			t.Fatalf("%q: want %q got %q", in, want, got)
		}
	}
}
