package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/eringen/atelier/assets"
	"github.com/eringen/atelier/cache"
	"github.com/eringen/atelier/content"
)

// Service exports and restores backups of one content store and asset tree.
type Service struct {
	store  *content.Store
	assets *assets.Store
	cache  cache.Revalidator
	logger echo.Logger
	now    func() time.Time
}

// NewService wires a backup Service. A nil logger falls back to a gommon logger.
func NewService(store *content.Store, files *assets.Store, rv cache.Revalidator, logger echo.Logger) *Service {
	if logger == nil {
		logger = log.New("backup")
	}
	return &Service{store: store, assets: files, cache: rv, logger: logger, now: time.Now}
}

// Archive is a finished export.
type Archive struct {
	Filename string
	Data     []byte
}

// Export writes the whole content store and asset tree to a zip archive.
// Nothing is returned unless every entry was written.
func (s *Service) Export(ctx context.Context) (Archive, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Archive{}, fmt.Errorf("snapshot: %w", err)
	}
	now := s.now().UTC()
	doc := newDocument(snap)
	doc.ExportedAt = now.Format(time.RFC3339)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: DocumentName, Method: zip.Deflate, Modified: now})
	if err != nil {
		return Archive{}, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return Archive{}, fmt.Errorf("encode %s: %w", DocumentName, err)
	}

	files := 0
	err = s.assets.Walk(func(rel string, f *os.File) error {
		info, err := f.Stat()
		if err != nil {
			return err
		}
		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = AssetPrefix + rel
		hdr.Method = zip.Deflate
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("archive %s: %w", rel, err)
		}
		files++
		return nil
	})
	if err != nil {
		return Archive{}, fmt.Errorf("archive assets: %w", err)
	}
	if err := zw.Close(); err != nil {
		return Archive{}, err
	}

	s.logger.Infof("[export] %d paintings, %d reviews, %d asset files, %d bytes",
		len(snap.Paintings), len(snap.Reviews), files, buf.Len())
	return Archive{
		Filename: "atelier-backup-" + now.Format("2006-01-02") + ".zip",
		Data:     buf.Bytes(),
	}, nil
}
