package admin

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/eringen/atelier/ai"
	"github.com/eringen/atelier/backup"
	"github.com/eringen/atelier/content"
)

// ImportConfirmation must be typed by the admin before a restore.
const ImportConfirmation = "RESTORE"

// ExportBackup builds a backup archive. The Result only carries the outcome
// message; the archive is returned separately for download.
func (s *Service) ExportBackup(ctx context.Context) (backup.Archive, Result) {
	arc, err := s.backup.Export(ctx)
	if err != nil {
		s.logger.Errorf("[export] %v", err)
		return backup.Archive{}, fail("Export failed.")
	}
	return arc, ok("Backup exported.", map[string]any{"filename": arc.Filename, "size": len(arc.Data)})
}

// ImportBackup replaces all content and assets with the uploaded archive.
func (s *Service) ImportBackup(ctx context.Context, f url.Values, file *File) Result {
	if formString(f, "confirm") != ImportConfirmation {
		return fail("Type " + ImportConfirmation + " to confirm the restore.")
	}
	if !hasFile(file) {
		return fail("Choose a backup file.")
	}
	report, err := s.backup.Import(ctx, file.Name, file.Content, file.Size)
	if err != nil {
		if !errors.Is(err, backup.ErrInvalidArchive) {
			s.logger.Errorf("[import] %v", err)
		}
		return fail(backup.UserMessage(err))
	}
	// Asset failures still count as success: the content is restored and
	// the message names how many files are missing.
	return ok(report.Message(), report)
}

// SyncFromFiles registers files of the asset tree that have no row yet.
func (s *Service) SyncFromFiles(ctx context.Context) Result {
	report, err := s.sync.Run(ctx)
	if err != nil {
		s.logger.Errorf("[sync] %v", err)
		return fail("Sync failed.")
	}
	return ok(report.Message(), report)
}

// Audit lists paintings without a file and image files without a painting.
func (s *Service) Audit(ctx context.Context) Result {
	report, err := s.sync.Audit(ctx)
	if err != nil {
		s.logger.Errorf("[audit] %v", err)
		return fail("Audit failed.")
	}
	if report.Clean() {
		return ok("Every painting has its image file.", report)
	}
	return ok(strconv.Itoa(len(report.Missing))+" missing image(s), "+
		strconv.Itoa(len(report.Orphaned))+" unregistered file(s).", report)
}

// GenerateSeo suggests SEO text for a painting, a review or a page. The
// suggestion is returned, not saved.
func (s *Service) GenerateSeo(ctx context.Context, f url.Values) Result {
	if s.ai == nil {
		return fail("AI generation is not configured.")
	}
	subject, msg, found := s.seoSubject(ctx, f)
	if !found {
		return fail(msg)
	}
	sug, err := s.ai.GenerateSeo(ctx, subject)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			return fail("AI generation is not configured.")
		}
		s.logger.Errorf("[ai] %v", err)
		return fail("AI generation failed.")
	}
	return ok("Suggestion generated.", sug)
}

func (s *Service) seoSubject(ctx context.Context, f url.Values) (ai.Subject, string, bool) {
	subject := ai.Subject{Kind: formString(f, "kind"), SiteName: s.siteName}
	id, _ := strconv.ParseInt(formString(f, "id"), 10, 64)

	switch subject.Kind {
	case "painting":
		p, err := s.store.GetPainting(ctx, id)
		if err != nil {
			return subject, paintingNotFound, false
		}
		subject.Title, subject.Description = p.Title, p.Description
		if p.Width > 0 && p.Height > 0 {
			subject.Details = strconv.Itoa(p.Width) + " x " + strconv.Itoa(p.Height) + " cm"
		}
	case "review":
		rv, err := s.store.GetReview(ctx, id)
		if err != nil {
			return subject, reviewNotFound, false
		}
		subject.Title, subject.Description, subject.Details = rv.Title, rv.Source, rv.Content
	case "page":
		key := formString(f, "key")
		if !content.IsPageKey(key) {
			return subject, "Unknown page.", false
		}
		subject.Title = key
		if key == content.PageBiography {
			if b, err := s.Biography(ctx); err == nil {
				subject.Details = b.Content
			}
		}
	default:
		return subject, "Unknown content type.", false
	}
	return subject, "", true
}
