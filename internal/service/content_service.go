package service

import (
	"context"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

// AddContactMessage records a message from the public contact form. No login is required.
func (s *SiteService) AddContactMessage(ctx context.Context, in dto.ContactMessageInput) (*models.ContactMessage, error) {
	var created *models.ContactMessage
	err := s.run("add_contact_message", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := s.validate(in, "invalid contact message"); err != nil {
			return err
		}
		msg := models.ContactMessage{
			ID:         s.ids.Next(),
			Name:       in.Name,
			Email:      in.Email,
			Message:    in.Message,
			Status:     models.MessageStatusUnread,
			ReceivedAt: s.now().UTC(),
		}
		doc.ContactMessages = append([]models.ContactMessage{msg}, doc.ContactMessages...)
		if err := s.commit(ctx, doc); err != nil {
			return err
		}
		created = &msg
		return nil
	})
	return created, err
}

// UpdateContactMessageStatus marks a message read or unread.
func (s *SiteService) UpdateContactMessageStatus(ctx context.Context, sess *Session, messageID int64, status models.MessageStatus) error {
	return s.run("update_contact_message_status", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		if status != models.MessageStatusRead && status != models.MessageStatusUnread {
			return appErrors.Clone(appErrors.ErrValidation, "status must be read or unread")
		}
		for i := range doc.ContactMessages {
			if doc.ContactMessages[i].ID == messageID {
				doc.ContactMessages[i].Status = status
				return s.commit(ctx, doc)
			}
		}
		return errNoop
	})
}

func (s *SiteService) DeleteContactMessage(ctx context.Context, sess *Session, messageID int64) error {
	return s.run("delete_contact_message", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		for i := range doc.ContactMessages {
			if doc.ContactMessages[i].ID == messageID {
				doc.ContactMessages = append(doc.ContactMessages[:i], doc.ContactMessages[i+1:]...)
				return s.commit(ctx, doc)
			}
		}
		return errNoop
	})
}

// AddGeneralDownload prepends a downloadable pdf. The pdf is required.
func (s *SiteService) AddGeneralDownload(ctx context.Context, sess *Session, title string, pdf *models.FileUpload) (*models.GeneralDownload, error) {
	var created *models.GeneralDownload
	err := s.run("add_general_download", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		if title == "" {
			return appErrors.Clone(appErrors.ErrValidation, "title is required")
		}
		if !pdf.Present() {
			return appErrors.Clone(appErrors.ErrValidation, "pdf file is required")
		}
		keys, err := s.blobs.upload(ctx, pdf)
		if err != nil {
			return err
		}
		download := models.GeneralDownload{
			ID:          s.ids.Next(),
			Title:       title,
			PdfKey:      keys[0],
			PdfFileName: pdf.Name,
		}
		doc.GeneralDownloads = append([]models.GeneralDownload{download}, doc.GeneralDownloads...)
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		created = &download
		return nil
	})
	return created, err
}

// UpdateGeneralDownload renames a download and optionally replaces its pdf.
func (s *SiteService) UpdateGeneralDownload(ctx context.Context, sess *Session, downloadID int64, title string, pdf *models.FileUpload) error {
	return s.run("update_general_download", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		idx := -1
		for i := range doc.GeneralDownloads {
			if doc.GeneralDownloads[i].ID == downloadID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errNoop
		}
		if title == "" {
			return appErrors.Clone(appErrors.ErrValidation, "title is required")
		}
		keys, err := s.blobs.upload(ctx, pdf)
		if err != nil {
			return err
		}
		download := &doc.GeneralDownloads[idx]
		download.Title = title
		var superseded string
		if keys[0] != "" {
			superseded = download.PdfKey
			download.PdfKey = keys[0]
			download.PdfFileName = pdf.Name
		}
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "download pdf replaced", superseded)
		return nil
	})
}

func (s *SiteService) DeleteGeneralDownload(ctx context.Context, sess *Session, downloadID int64) error {
	return s.run("delete_general_download", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		for i, d := range doc.GeneralDownloads {
			if d.ID != downloadID {
				continue
			}
			doc.GeneralDownloads = append(doc.GeneralDownloads[:i], doc.GeneralDownloads[i+1:]...)
			if err := s.commit(ctx, doc); err != nil {
				return err
			}
			_ = s.blobs.release(ctx, "download deleted", d.PdfKey)
			return nil
		}
		return errNoop
	})
}

// AddSyllabus prepends a syllabus with optional pdf and cover image.
func (s *SiteService) AddSyllabus(ctx context.Context, sess *Session, in dto.SyllabusInput, pdf, image *models.FileUpload) (*models.Syllabus, error) {
	var created *models.Syllabus
	err := s.run("add_syllabus", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		if err := s.validate(in, "invalid syllabus payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, pdf, image)
		if err != nil {
			return err
		}
		syllabus := models.Syllabus{
			ID:          s.ids.Next(),
			Title:       in.Title,
			Description: in.Description,
			PdfKey:      keys[0],
			ImageKey:    keys[1],
		}
		if syllabus.PdfKey != "" {
			syllabus.PdfFileName = pdf.Name
		}
		doc.Syllabuses = append([]models.Syllabus{syllabus}, doc.Syllabuses...)
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		created = &syllabus
		return nil
	})
	return created, err
}

// UpdateSyllabus replaces title and description; new files supersede the stored ones.
func (s *SiteService) UpdateSyllabus(ctx context.Context, sess *Session, syllabus models.Syllabus, pdf, image *models.FileUpload) error {
	return s.run("update_syllabus", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		idx := syllabusIndex(doc, syllabus.ID)
		if idx < 0 {
			return errNoop
		}
		in := dto.SyllabusInput{Title: syllabus.Title, Description: syllabus.Description}
		if err := s.validate(in, "invalid syllabus payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, pdf, image)
		if err != nil {
			return err
		}
		current := &doc.Syllabuses[idx]
		current.Title = in.Title
		current.Description = in.Description
		var superseded []string
		if keys[0] != "" {
			superseded = append(superseded, current.PdfKey)
			current.PdfKey = keys[0]
			current.PdfFileName = pdf.Name
		}
		if keys[1] != "" {
			superseded = append(superseded, current.ImageKey)
			current.ImageKey = keys[1]
		}
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "syllabus files replaced", superseded...)
		return nil
	})
}

// DeleteSyllabus removes a syllabus and releases its pdf and image.
func (s *SiteService) DeleteSyllabus(ctx context.Context, sess *Session, syllabusID int64) error {
	return s.run("delete_syllabus", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		idx := syllabusIndex(doc, syllabusID)
		if idx < 0 {
			return errNoop
		}
		syllabus := doc.Syllabuses[idx]
		doc.Syllabuses = append(doc.Syllabuses[:idx], doc.Syllabuses[idx+1:]...)
		if err := s.commit(ctx, doc); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "syllabus deleted", syllabus.BlobKeys()...)
		return nil
	})
}

func syllabusIndex(doc models.SiteDocument, id int64) int {
	for i := range doc.Syllabuses {
		if doc.Syllabuses[i].ID == id {
			return i
		}
	}
	return -1
}
