package services

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/cmi5-backend/internal/domain/errs"
	"github.com/yungbote/cmi5-backend/internal/platform/logger"
	"github.com/yungbote/cmi5-backend/internal/platform/objectstore"
)

const (
	ManifestName     = "cmi5.xml"
	launchEntryPoint = "res/index.html"

	msgBadArchive      = "Uploading Failed: Bad archive or file"
	msgMissingManifest = "Failed to retrieve course structure data from zip: not found cmi5.xml file"
)

var allowedPackageContentTypes = map[string]struct{}{
	"application/zip":              {},
	"application/octet-stream":     {},
	"application/x-zip-compressed": {},
}

// PackageSource is an uploaded course archive.
type PackageSource struct {
	Filename    string
	ContentType string
	Body        io.ReaderAt
	Size        int64
}

// UploadedPackage describes an archive that now lives in the object store.
type UploadedPackage struct {
	ID       uuid.UUID
	Prefix   string
	FileLink string
	// Title and Description come from the cmi5.xml course element, when present.
	Title       string
	Description string
	Files       int
}

// PackageObserver receives upload outcomes; observability.Metrics implements it.
type PackageObserver interface {
	ObservePackageUpload(status string, files int, dur time.Duration)
}

type PackageService interface {
	Upload(ctx context.Context, src PackageSource) (*UploadedPackage, error)
	// Remove deletes everything stored under prefix. Used to undo Upload
	// when the course row cannot be written.
	Remove(ctx context.Context, prefix string) error
	LaunchURL(fileLink string) string
}

type PackageConfig struct {
	MaxBytes    int64
	Concurrency int
}

type packageService struct {
	log      *logger.Logger
	store    objectstore.Store
	cfg      PackageConfig
	observer PackageObserver
}

func NewPackageService(baseLog *logger.Logger, store objectstore.Store, cfg PackageConfig, observer PackageObserver) PackageService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	return &packageService{
		log:      baseLog.With("service", "PackageService"),
		store:    store,
		cfg:      cfg,
		observer: observer,
	}
}

func (s *packageService) observe(status string, files int, start time.Time) {
	if s.observer != nil {
		s.observer.ObservePackageUpload(status, files, time.Since(start))
	}
}

func (s *packageService) Upload(ctx context.Context, src PackageSource) (*UploadedPackage, error) {
	const op = "package.upload"
	start := time.Now()

	if !isAllowedPackageContentType(src.ContentType) || src.Body == nil || src.Size <= 0 {
		s.observe("rejected", 0, start)
		return nil, errs.InvalidUpload(op, msgBadArchive)
	}
	if s.cfg.MaxBytes > 0 && src.Size > s.cfg.MaxBytes {
		s.observe("rejected", 0, start)
		return nil, errs.InvalidUpload(op, fmt.Sprintf("%s: archive exceeds %d bytes", msgBadArchive, s.cfg.MaxBytes))
	}

	zr, err := zip.NewReader(src.Body, src.Size)
	if err != nil {
		s.observe("rejected", 0, start)
		return nil, errs.New(errs.CodeInvalidUpload, op, msgBadArchive, err)
	}

	files, manifest, err := packageEntries(zr)
	if err != nil {
		s.observe("rejected", 0, start)
		return nil, err
	}
	if manifest == nil {
		s.observe("rejected", 0, start)
		return nil, errs.InvalidUpload(op, msgMissingManifest)
	}

	meta, err := readManifest(manifest)
	if err != nil {
		// the manifest is only mined for defaults
		s.log.Warn("unreadable cmi5.xml", "error", err)
	}

	id := uuid.New()
	prefix := objectstore.Key(objectstore.CategoryCourses, id.String())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, f := range files {
		f := f
		g.Go(func() error {
			return s.uploadEntry(gctx, prefix, f)
		})
	}
	if err := g.Wait(); err != nil {
		s.observe("failed", len(files), start)
		if rmErr := s.Remove(context.WithoutCancel(ctx), prefix); rmErr != nil {
			s.log.Error("failed to clean up partial package", "prefix", prefix, "error", rmErr)
		}
		return nil, errs.New(errs.CodeInternal, op, "failed to store course package", err)
	}

	s.observe("stored", len(files), start)
	s.log.Info("course package stored", "prefix", prefix, "files", len(files), "filename", src.Filename)

	return &UploadedPackage{
		ID:          id,
		Prefix:      prefix,
		FileLink:    objectstore.Key(objectstore.CategoryCourses, id.String(), launchEntryPoint),
		Title:       meta.Title,
		Description: meta.Description,
		Files:       len(files),
	}, nil
}

func (s *packageService) uploadEntry(ctx context.Context, prefix string, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	key := prefix + "/" + cleanEntryName(f.Name)
	if err := s.store.UploadFile(ctx, key, rc, int64(f.UncompressedSize64)); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *packageService) Remove(ctx context.Context, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.Trim(prefix, "/") == string(objectstore.CategoryCourses) {
		return errors.New("refusing to remove an empty or category-wide prefix")
	}
	return s.store.DeletePrefix(ctx, strings.TrimRight(prefix, "/")+"/")
}

func (s *packageService) LaunchURL(fileLink string) string {
	if strings.TrimSpace(fileLink) == "" {
		return ""
	}
	return s.store.GetPublicURL(fileLink)
}

func isAllowedPackageContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	_, ok := allowedPackageContentTypes[ct]
	return ok
}

// packageEntries returns the regular files of the archive and its root
// manifest. Entries escaping the archive root reject the whole package.
func packageEntries(zr *zip.Reader) ([]*zip.File, *zip.File, error) {
	var (
		files    []*zip.File
		manifest *zip.File
	)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := cleanEntryName(f.Name)
		if name == "" {
			return nil, nil, errs.InvalidUpload("package.upload", msgBadArchive)
		}
		if name == ManifestName {
			manifest = f
		}
		files = append(files, f)
	}
	return files, manifest, nil
}

// cleanEntryName normalizes an archive path, returning "" for absolute or
// parent-relative names.
func cleanEntryName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return ""
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ""
	}
	return cleaned
}

type manifestMeta struct {
	Title       string
	Description string
}

type courseStructure struct {
	XMLName xml.Name `xml:"courseStructure"`
	Course  struct {
		Title       []langString `xml:"title>langstring"`
		Description []langString `xml:"description>langstring"`
	} `xml:"course"`
}

type langString struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

func firstLangString(values []langString) string {
	for _, v := range values {
		if s := strings.TrimSpace(v.Value); s != "" {
			return s
		}
	}
	return ""
}

func readManifest(f *zip.File) (manifestMeta, error) {
	rc, err := f.Open()
	if err != nil {
		return manifestMeta{}, err
	}
	defer rc.Close()

	var cs courseStructure
	if err := xml.NewDecoder(io.LimitReader(rc, 4<<20)).Decode(&cs); err != nil {
		return manifestMeta{}, err
	}
	return manifestMeta{
		Title:       firstLangString(cs.Course.Title),
		Description: firstLangString(cs.Course.Description),
	}, nil
}
