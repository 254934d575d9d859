package service

import (
	"context"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

// AddCourse prepends a new course. Courses created by a teacher record the teacher as owner.
func (s *SiteService) AddCourse(ctx context.Context, sess *Session, in dto.CourseInput, image *models.FileUpload) (*models.Course, error) {
	var created *models.Course
	err := s.run("add_course", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireCourseAuthor(sess); err != nil {
			return err
		}
		if err := s.validate(in, "invalid course payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, image)
		if err != nil {
			return err
		}
		course := models.Course{
			ID:          s.ids.Next(),
			Name:        in.Name,
			Instructor:  in.Instructor,
			Description: in.Description,
			Fee:         in.Fee,
			ImageKey:    keys[0],
			Lectures:    []models.Lecture{},
		}
		if user, _ := sess.User(); user.Role == models.RoleTeacher {
			course.TeacherEmail = user.Email
		}
		doc.Courses = append([]models.Course{course}, doc.Courses...)
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		created = &course
		return nil
	})
	return created, err
}

// UpdateCourse replaces the editable fields of course. Lectures, owner and blob keys stay
// as stored; a new image supersedes the old one.
func (s *SiteService) UpdateCourse(ctx context.Context, sess *Session, course models.Course, image *models.FileUpload) error {
	return s.run("update_course", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		idx := doc.CourseIndex(course.ID)
		if idx < 0 {
			return errNoop
		}
		current := doc.Courses[idx]
		if err := requireCourseManager(sess, current); err != nil {
			return err
		}
		in := dto.CourseInput{Name: course.Name, Instructor: course.Instructor, Description: course.Description, Fee: course.Fee}
		if err := s.validate(in, "invalid course payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, image)
		if err != nil {
			return err
		}
		var superseded string
		if keys[0] != "" {
			superseded = current.ImageKey
			current.ImageKey = keys[0]
		}
		current.Name = in.Name
		current.Instructor = in.Instructor
		current.Description = in.Description
		current.Fee = in.Fee
		doc.Courses[idx] = current
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "course image replaced", superseded)
		return nil
	})
}

// DeleteCourse removes a course and releases its image and every lecture blob.
func (s *SiteService) DeleteCourse(ctx context.Context, sess *Session, courseID int64) error {
	return s.run("delete_course", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		idx := doc.CourseIndex(courseID)
		if idx < 0 {
			return errNoop
		}
		course := doc.Courses[idx]
		if err := requireCourseManager(sess, course); err != nil {
			return err
		}
		doc.Courses = append(doc.Courses[:idx], doc.Courses[idx+1:]...)
		if err := s.commit(ctx, doc); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "course deleted", course.BlobKeys()...)
		return nil
	})
}

// lectureTarget resolves the course that owns a lecture operation and checks access.
func (s *SiteService) lectureTarget(sess *Session, doc models.SiteDocument, courseID int64) (int, error) {
	idx := doc.CourseIndex(courseID)
	if idx < 0 {
		return -1, errNoop
	}
	if err := requireCourseManager(sess, doc.Courses[idx]); err != nil {
		return -1, err
	}
	return idx, nil
}

// AddLecture appends a lecture to a course. An uploaded video takes precedence over a video URL.
func (s *SiteService) AddLecture(ctx context.Context, sess *Session, courseID int64, in dto.LectureInput, video, pdf *models.FileUpload) (*models.Lecture, error) {
	var created *models.Lecture
	err := s.run("add_lecture", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		idx, err := s.lectureTarget(sess, doc, courseID)
		if err != nil {
			return err
		}
		if err := s.validate(in, "invalid lecture payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, video, pdf)
		if err != nil {
			return err
		}
		lecture := models.Lecture{
			ID:          s.ids.Next(),
			Title:       in.Title,
			Description: in.Description,
			VideoKey:    keys[0],
			PdfKey:      keys[1],
		}
		if lecture.VideoKey == "" {
			lecture.VideoURL = in.VideoURL
		}
		if lecture.PdfKey != "" {
			lecture.PdfFileName = pdf.Name
		}
		doc.Courses[idx].Lectures = append(doc.Courses[idx].Lectures, lecture)
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		created = &lecture
		return nil
	})
	return created, err
}

// UpdateLecture replaces the editable fields of a lecture. Uploading a video clears the URL;
// setting a URL without a video releases a stored video.
func (s *SiteService) UpdateLecture(ctx context.Context, sess *Session, courseID int64, lecture models.Lecture, video, pdf *models.FileUpload) error {
	return s.run("update_lecture", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		idx, err := s.lectureTarget(sess, doc, courseID)
		if err != nil {
			return err
		}
		li := doc.Courses[idx].LectureIndex(lecture.ID)
		if li < 0 {
			return errNoop
		}
		in := dto.LectureInput{Title: lecture.Title, Description: lecture.Description, VideoURL: lecture.VideoURL}
		if err := s.validate(in, "invalid lecture payload"); err != nil {
			return err
		}
		keys, err := s.blobs.upload(ctx, video, pdf)
		if err != nil {
			return err
		}

		current := doc.Courses[idx].Lectures[li]
		var superseded []string
		current.Title = in.Title
		current.Description = in.Description
		switch {
		case keys[0] != "":
			superseded = append(superseded, current.VideoKey)
			current.VideoKey = keys[0]
			current.VideoURL = ""
		case in.VideoURL != "":
			superseded = append(superseded, current.VideoKey)
			current.VideoKey = ""
			current.VideoURL = in.VideoURL
		case current.VideoKey == "":
			current.VideoURL = ""
		}
		if keys[1] != "" {
			superseded = append(superseded, current.PdfKey)
			current.PdfKey = keys[1]
			current.PdfFileName = pdf.Name
		}
		doc.Courses[idx].Lectures[li] = current
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "lecture files replaced", superseded...)
		return nil
	})
}

// DeleteLecture removes a lecture and releases its video and pdf.
func (s *SiteService) DeleteLecture(ctx context.Context, sess *Session, courseID, lectureID int64) error {
	return s.run("delete_lecture", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		idx, err := s.lectureTarget(sess, doc, courseID)
		if err != nil {
			return err
		}
		li := doc.Courses[idx].LectureIndex(lectureID)
		if li < 0 {
			return errNoop
		}
		lectures := doc.Courses[idx].Lectures
		lecture := lectures[li]
		doc.Courses[idx].Lectures = append(lectures[:li], lectures[li+1:]...)
		if err := s.commit(ctx, doc); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "lecture deleted", lecture.BlobKeys()...)
		return nil
	})
}

// UpdateLecturePdf attaches pdf to a lecture, superseding any previous pdf.
func (s *SiteService) UpdateLecturePdf(ctx context.Context, sess *Session, courseID, lectureID int64, pdf *models.FileUpload) error {
	return s.run("update_lecture_pdf", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		idx, err := s.lectureTarget(sess, doc, courseID)
		if err != nil {
			return err
		}
		li := doc.Courses[idx].LectureIndex(lectureID)
		if li < 0 {
			return errNoop
		}
		if !pdf.Present() {
			return appErrors.Clone(appErrors.ErrValidation, "pdf file is required")
		}
		keys, err := s.blobs.upload(ctx, pdf)
		if err != nil {
			return err
		}
		lecture := &doc.Courses[idx].Lectures[li]
		superseded := lecture.PdfKey
		lecture.PdfKey = keys[0]
		lecture.PdfFileName = pdf.Name
		if err := s.commit(ctx, doc, keys...); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "lecture pdf replaced", superseded)
		return nil
	})
}

// RemoveLecturePdf detaches and releases a lecture's pdf.
func (s *SiteService) RemoveLecturePdf(ctx context.Context, sess *Session, courseID, lectureID int64) error {
	return s.run("remove_lecture_pdf", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		idx, err := s.lectureTarget(sess, doc, courseID)
		if err != nil {
			return err
		}
		li := doc.Courses[idx].LectureIndex(lectureID)
		if li < 0 || doc.Courses[idx].Lectures[li].PdfKey == "" {
			return errNoop
		}
		lecture := &doc.Courses[idx].Lectures[li]
		superseded := lecture.PdfKey
		lecture.PdfKey = ""
		lecture.PdfFileName = ""
		if err := s.commit(ctx, doc); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "lecture pdf removed", superseded)
		return nil
	})
}
