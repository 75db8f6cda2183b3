package backup

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

// ImportReport summarises a successful restore.
type ImportReport struct {
	Rows          map[string]int
	FilesWritten  int
	AssetFailures int
}

// Message is the admin-facing summary of the restore.
func (r ImportReport) Message() string {
	if r.AssetFailures > 0 {
		return fmt.Sprintf("Database restored; %d asset file(s) could not be restored.", r.AssetFailures)
	}
	return fmt.Sprintf("Backup restored: %d paintings, %d reviews, %d files.",
		r.Rows["paintings"], r.Rows["reviews"], r.FilesWritten)
}

// Import replaces the content store and the asset tree with the archive
// read from r.
//
// The content store is replaced in one transaction; when that fails nothing
// has changed and the error wraps ErrCorruptBackup or ErrImportFailed.
// Only after commit is the asset tree wiped and rewritten. That phase is
// best-effort: failures are logged and counted in the report, never
// returned. Importing the same archive again is the recovery path.
func (s *Service) Import(ctx context.Context, filename string, r io.ReaderAt, size int64) (ImportReport, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".zip") {
		return ImportReport{}, invalid("The file must be a .zip backup.", nil)
	}
	// Non-local entry names are refused per entry by the asset store.
	zr, err := zip.NewReader(r, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return ImportReport{}, invalid("The file is not a readable zip archive.", err)
	}
	doc, err := readDocument(zr)
	if err != nil {
		return ImportReport{}, err
	}

	snap := doc.Snapshot()
	if err := s.store.Replace(ctx, snap); err != nil {
		if errors.Is(err, content.ErrInvalidRow) {
			s.logger.Errorf("[import] rejected row, rolled back: %v", err)
			return ImportReport{}, fmt.Errorf("%w: %v", ErrCorruptBackup, err)
		}
		s.logger.Errorf("[import] transaction failed, rolled back: %v", err)
		return ImportReport{}, fmt.Errorf("%w: %v", ErrImportFailed, err)
	}

	report := ImportReport{Rows: map[string]int{
		"paintings":      len(snap.Paintings),
		"biography":      len(snap.Biography),
		"reviews":        len(snap.Reviews),
		"external_links": len(snap.ExternalLinks),
		"seo_metadata":   len(snap.SeoMetadata),
		"settings":       len(snap.Settings),
	}}
	s.logger.Infof("[import] content restored (version %d, exported %s)", doc.Version, doc.ExportedAt)

	report.AssetFailures = s.assets.Wipe()
	for _, f := range zr.File {
		rel, ok := strings.CutPrefix(f.Name, AssetPrefix)
		if !ok || rel == "" || f.FileInfo().IsDir() {
			continue
		}
		if err := s.restoreFile(rel, f); err != nil {
			s.logger.Warnf("[import] asset %s: %v", f.Name, err)
			report.AssetFailures++
			continue
		}
		report.FilesWritten++
	}

	cache.Apply(s.cache, cache.ForImport())
	s.logger.Infof("[import] %d asset files restored, %d failures", report.FilesWritten, report.AssetFailures)
	return report, nil
}

func (s *Service) restoreFile(rel string, f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return s.assets.WriteFile(rel, rc)
}

func readDocument(zr *zip.Reader) (Document, error) {
	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == DocumentName {
			entry = f
			break
		}
	}
	if entry == nil {
		return Document{}, invalid("The backup has no "+DocumentName+" file.", nil)
	}
	rc, err := entry.Open()
	if err != nil {
		return Document{}, invalid("The backup data file cannot be read.", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxDocumentSize+1))
	if err != nil {
		return Document{}, invalid("The backup data file cannot be read.", err)
	}
	if int64(len(data)) > maxDocumentSize {
		return Document{}, invalid("The backup data file is too large.", nil)
	}
	return parseDocument(data)
}
