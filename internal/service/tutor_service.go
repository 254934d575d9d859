package service

import (
	"context"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
)

// AddTutor prepends a tutor profile.
func (s *SiteService) AddTutor(ctx context.Context, sess *Session, in dto.TutorInput, photo *models.FileUpload) (*models.Tutor, error) {
	var created *models.Tutor
	err := s.run("add_tutor", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		if err := s.validate(in, "invalid tutor payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, photo)
		if err != nil {
			return err
		}
		tutor := models.Tutor{
			ID:             s.ids.Next(),
			Name:           in.Name,
			Designation:    in.Designation,
			Qualifications: in.Qualifications,
			Experience:     in.Experience,
			PhotoKey:       keys[0],
		}
		doc.Tutors = append([]models.Tutor{tutor}, doc.Tutors...)
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		created = &tutor
		return nil
	})
	return created, err
}

// UpdateTutor replaces the profile fields of tutor; a new photo supersedes the old one.
func (s *SiteService) UpdateTutor(ctx context.Context, sess *Session, tutor models.Tutor, photo *models.FileUpload) error {
	return s.run("update_tutor", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		idx := tutorIndex(doc, tutor.ID)
		if idx < 0 {
			return errNoop
		}
		in := dto.TutorInput{Name: tutor.Name, Designation: tutor.Designation, Qualifications: tutor.Qualifications, Experience: tutor.Experience}
		if err := s.validate(in, "invalid tutor payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, photo)
		if err != nil {
			return err
		}
		current := doc.Tutors[idx]
		var superseded string
		if keys[0] != "" {
			superseded = current.PhotoKey
			current.PhotoKey = keys[0]
		}
		current.Name = in.Name
		current.Designation = in.Designation
		current.Qualifications = in.Qualifications
		current.Experience = in.Experience
		doc.Tutors[idx] = current
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "tutor photo replaced", superseded)
		return nil
	})
}

// DeleteTutor removes a tutor and releases the photo.
func (s *SiteService) DeleteTutor(ctx context.Context, sess *Session, tutorID int64) error {
	return s.run("delete_tutor", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		idx := tutorIndex(doc, tutorID)
		if idx < 0 {
			return errNoop
		}
		tutor := doc.Tutors[idx]
		doc.Tutors = append(doc.Tutors[:idx], doc.Tutors[idx+1:]...)
		if err := s.commit(ctx, doc); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "tutor deleted", tutor.PhotoKey)
		return nil
	})
}

func tutorIndex(doc models.SiteDocument, id int64) int {
	for i := range doc.Tutors {
		if doc.Tutors[i].ID == id {
			return i
		}
	}
	return -1
}
