// Package backup exports the whole gallery (content store and asset tree)
// to a zip archive and restores it from one.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eringen/atelier/content"
)

const (
	// DocumentName is the zip entry holding the content document.
	DocumentName = "content.json"
	// AssetPrefix prefixes every asset entry of the archive.
	AssetPrefix = "assets/"
	// FormatVersion is written to every exported document.
	FormatVersion = 1
)

// maxDocumentSize bounds the decompressed content.json.
var maxDocumentSize int64 = 64 << 20

var (
	// ErrInvalidArchive is returned when an upload fails validation. The
	// content store has not been touched.
	ErrInvalidArchive = errors.New("backup: invalid archive")
	// ErrCorruptBackup is returned when a row of the archive could not be
	// restored. The content store was rolled back.
	ErrCorruptBackup = errors.New("backup: corrupted or incomplete backup")
	// ErrImportFailed is returned when the restore transaction failed for a
	// reason unrelated to the archive. The content store was rolled back.
	ErrImportFailed = errors.New("backup: import failed")
)

// Document is the JSON shape of content.json.
type Document struct {
	Paintings     []content.Painting     `json:"paintings"`
	Biography     []content.Biography    `json:"biography"`
	Reviews       []content.Review       `json:"reviews"`
	ExternalLinks []content.ExternalLink `json:"externalLinks"`
	SeoMetadata   []content.SeoMetadata  `json:"seoMetadata"`
	Settings      []content.Settings     `json:"settings"`
	Version       int                    `json:"version"`
	ExportedAt    string                 `json:"exportedAt"`
}

// requiredSections must be present as keys, even if null or empty.
var requiredSections = []string{"paintings", "biography"}

func newDocument(snap content.Snapshot) Document {
	return Document{
		Paintings:     snap.Paintings,
		Biography:     snap.Biography,
		Reviews:       snap.Reviews,
		ExternalLinks: snap.ExternalLinks,
		SeoMetadata:   snap.SeoMetadata,
		Settings:      snap.Settings,
		Version:       FormatVersion,
	}
}

// Snapshot returns the rows of the document.
func (d Document) Snapshot() content.Snapshot {
	return content.Snapshot{
		Paintings:     d.Paintings,
		Biography:     d.Biography,
		Reviews:       d.Reviews,
		ExternalLinks: d.ExternalLinks,
		SeoMetadata:   d.SeoMetadata,
		Settings:      d.Settings,
	}
}

// parseDocument decodes content.json and checks the mandatory sections.
func parseDocument(data []byte) (Document, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return Document{}, invalid("The backup data file is not valid JSON.", err)
	}
	for _, k := range requiredSections {
		if _, ok := keys[k]; !ok {
			return Document{}, invalid("The backup is missing required data ("+k+").", nil)
		}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, invalid("The backup data file is not valid JSON.", err)
	}
	return doc, nil
}

// invalidError carries the user-facing reason an archive was rejected.
type invalidError struct {
	reason string
	cause  error
}

func invalid(reason string, cause error) error {
	return &invalidError{reason: reason, cause: cause}
}

func (e *invalidError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("backup: invalid archive: %s: %v", e.reason, e.cause)
	}
	return "backup: invalid archive: " + e.reason
}

func (e *invalidError) Unwrap() error { return e.cause }

func (e *invalidError) Is(target error) bool { return target == ErrInvalidArchive }

// UserMessage turns an export or import error into text safe to show an admin.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArchive):
		var ie *invalidError
		if errors.As(err, &ie) {
			return ie.reason
		}
		return "Invalid backup file."
	case errors.Is(err, ErrCorruptBackup):
		return "The backup is corrupted or incomplete."
	case errors.Is(err, ErrImportFailed):
		return "Critical failure during import; nothing was changed."
	default:
		return "Backup operation failed."
	}
}
