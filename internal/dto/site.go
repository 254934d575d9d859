package dto

// SettingsUpdate is a partial update of the scalar site settings. Nil fields are left unchanged.
type SettingsUpdate struct {
	ClassroomName *string `json:"classroomName,omitempty"`
	HomeTitle     *string `json:"homeTitle,omitempty"`
	HomeSubtitle  *string `json:"homeSubtitle,omitempty"`
	UpiID         *string `json:"upiId,omitempty"`
	UpiNumber     *string `json:"upiNumber,omitempty"`
}

// Empty reports whether the update touches nothing.
func (s SettingsUpdate) Empty() bool {
	return s.ClassroomName == nil && s.HomeTitle == nil && s.HomeSubtitle == nil && s.UpiID == nil && s.UpiNumber == nil
}

// CourseInput carries the editable course fields.
type CourseInput struct {
	Name        string  `json:"name" validate:"required"`
	Instructor  string  `json:"instructor" validate:"required"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee" validate:"gte=0"`
}

// LectureInput carries the editable lecture fields. VideoURL is ignored when a video file is uploaded.
type LectureInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl" validate:"omitempty,url"`
}

type TutorInput struct {
	Name           string `json:"name" validate:"required"`
	Designation    string `json:"designation" validate:"required"`
	Qualifications string `json:"qualifications"`
	Experience     string `json:"experience"`
}

type SyllabusInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// VerificationInput files a payment for a course on behalf of the logged-in user.
type VerificationInput struct {
	CourseID      int64  `json:"courseId" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
}

// ContactMessageInput is submitted from the public contact form.
type ContactMessageInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}
