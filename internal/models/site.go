package models

// HomeContent holds the landing page copy.
type HomeContent struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
}

// PaymentDetails tells students where to send course fees.
type PaymentDetails struct {
	UpiID     string `json:"upiId" yaml:"upiId"`
	UpiNumber string `json:"upiNumber" yaml:"upiNumber"`
}

// SiteDocument is the singleton aggregate of all site content and settings.
// It is always persisted and replaced as a whole.
type SiteDocument struct {
	ClassroomName               string                       `json:"classroomName" yaml:"classroomName"`
	Home                        HomeContent                  `json:"home" yaml:"home"`
	PaymentDetails              PaymentDetails               `json:"paymentDetails" yaml:"paymentDetails"`
	Courses                     []Course                     `json:"courses" yaml:"courses"`
	Tutors                      []Tutor                      `json:"tutors" yaml:"tutors"`
	Syllabuses                  []Syllabus                   `json:"syllabuses" yaml:"syllabuses"`
	GeneralDownloads            []GeneralDownload            `json:"generalDownloads" yaml:"generalDownloads"`
	ContactMessages             []ContactMessage             `json:"contactMessages" yaml:"contactMessages"`
	PendingVerifications        []VerificationRequest        `json:"pendingVerifications" yaml:"pendingVerifications"`
	TeacherVerificationRequests []TeacherVerificationRequest `json:"teacherVerificationRequests" yaml:"teacherVerificationRequests"`
	NavItems                    []NavItem                    `json:"navItems" yaml:"navItems"`
}

// Normalize replaces absent collections with empty ones.
func (d *SiteDocument) Normalize() {
	if d.Courses == nil {
		d.Courses = []Course{}
	}
	for i := range d.Courses {
		if d.Courses[i].Lectures == nil {
			d.Courses[i].Lectures = []Lecture{}
		}
	}
	if d.Tutors == nil {
		d.Tutors = []Tutor{}
	}
	if d.Syllabuses == nil {
		d.Syllabuses = []Syllabus{}
	}
	if d.GeneralDownloads == nil {
		d.GeneralDownloads = []GeneralDownload{}
	}
	if d.ContactMessages == nil {
		d.ContactMessages = []ContactMessage{}
	}
	if d.PendingVerifications == nil {
		d.PendingVerifications = []VerificationRequest{}
	}
	if d.TeacherVerificationRequests == nil {
		d.TeacherVerificationRequests = []TeacherVerificationRequest{}
	}
	if d.NavItems == nil {
		d.NavItems = []NavItem{}
	}
}

// Clone returns a deep copy. The result is always normalized.
func (d SiteDocument) Clone() SiteDocument {
	out := d
	out.Courses = make([]Course, len(d.Courses))
	for i, c := range d.Courses {
		out.Courses[i] = c.Clone()
	}
	out.Tutors = append(make([]Tutor, 0, len(d.Tutors)), d.Tutors...)
	out.Syllabuses = append(make([]Syllabus, 0, len(d.Syllabuses)), d.Syllabuses...)
	out.GeneralDownloads = append(make([]GeneralDownload, 0, len(d.GeneralDownloads)), d.GeneralDownloads...)
	out.ContactMessages = append(make([]ContactMessage, 0, len(d.ContactMessages)), d.ContactMessages...)
	out.PendingVerifications = append(make([]VerificationRequest, 0, len(d.PendingVerifications)), d.PendingVerifications...)
	out.TeacherVerificationRequests = append(make([]TeacherVerificationRequest, 0, len(d.TeacherVerificationRequests)), d.TeacherVerificationRequests...)
	out.NavItems = append(make([]NavItem, 0, len(d.NavItems)), d.NavItems...)
	out.Normalize()
	return out
}

// CourseIndex returns the index of course id, or -1.
func (d SiteDocument) CourseIndex(id int64) int {
	for i := range d.Courses {
		if d.Courses[i].ID == id {
			return i
		}
	}
	return -1
}

// BlobKeys lists every blob key referenced anywhere in the document.
func (d SiteDocument) BlobKeys() []string {
	var keys []string
	for _, c := range d.Courses {
		keys = append(keys, c.BlobKeys()...)
	}
	for _, t := range d.Tutors {
		if t.PhotoKey != "" {
			keys = append(keys, t.PhotoKey)
		}
	}
	for _, s := range d.Syllabuses {
		keys = append(keys, s.BlobKeys()...)
	}
	for _, g := range d.GeneralDownloads {
		if g.PdfKey != "" {
			keys = append(keys, g.PdfKey)
		}
	}
	for _, v := range d.PendingVerifications {
		if v.ScreenshotKey != "" {
			keys = append(keys, v.ScreenshotKey)
		}
	}
	for _, r := range d.TeacherVerificationRequests {
		if r.ScreenshotKey != "" {
			keys = append(keys, r.ScreenshotKey)
		}
		if r.PhotoKey != "" {
			keys = append(keys, r.PhotoKey)
		}
	}
	return keys
}

// DefaultSiteDocument is the seed returned when no site document has been persisted.
func DefaultSiteDocument() SiteDocument {
	doc := SiteDocument{
		ClassroomName: "Online Classroom",
		Home: HomeContent{
			Title:    "Learn from the best teachers, anywhere",
			Subtitle: "Live and recorded courses with notes, syllabuses and downloads in one place.",
		},
		PaymentDetails: PaymentDetails{
			UpiID:     "classroom@upi",
			UpiNumber: "9876543210",
		},
		Courses: []Course{
			{
				ID:          1,
				Name:        "Foundations of Mathematics",
				Instructor:  "Dr. A. Sharma",
				Description: "Algebra, geometry and arithmetic fundamentals for secondary students.",
				Fee:         499,
				Lectures: []Lecture{
					{ID: 101, Title: "Introduction", Description: "Course overview and study plan."},
				},
			},
			{
				ID:          2,
				Name:        "Physics Essentials",
				Instructor:  "Prof. R. Iyer",
				Description: "Mechanics, waves and electricity with solved problems.",
				Fee:         599,
				Lectures:    []Lecture{},
			},
		},
		Tutors: []Tutor{
			{ID: 1, Name: "Dr. A. Sharma", Designation: "Senior Faculty, Mathematics", Qualifications: "PhD Mathematics", Experience: "12 years"},
			{ID: 2, Name: "Prof. R. Iyer", Designation: "Faculty, Physics", Qualifications: "MSc Physics", Experience: "8 years"},
		},
		NavItems: []NavItem{
			{ID: 1, Label: "Home", Path: "/", Order: 0},
			{ID: 2, Label: "Courses", Path: "/courses", Order: 1},
			{ID: 3, Label: "Tutors", Path: "/tutors", Order: 2},
			{ID: 4, Label: "Syllabus", Path: "/syllabus", Order: 3},
			{ID: 5, Label: "Downloads", Path: "/downloads", Order: 4},
			{ID: 6, Label: "Contact", Path: "/contact", Order: 5},
		},
	}
	doc.Normalize()
	return doc
}
