package models

// Course is a purchasable course with its ordered lectures.
// TeacherEmail is set only when a teacher created the course.
type Course struct {
	ID           int64     `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Instructor   string    `json:"instructor" yaml:"instructor"`
	Description  string    `json:"description" yaml:"description"`
	Fee          float64   `json:"fee" yaml:"fee"`
	ImageKey     string    `json:"imageKey,omitempty" yaml:"imageKey,omitempty"`
	TeacherEmail string    `json:"teacherEmail,omitempty" yaml:"teacherEmail,omitempty"`
	Lectures     []Lecture `json:"lectures" yaml:"lectures"`
}

// Lecture belongs to exactly one course. VideoKey and VideoURL are mutually exclusive.
type Lecture struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	VideoKey    string `json:"videoKey,omitempty" yaml:"videoKey,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	PdfKey      string `json:"pdfKey,omitempty" yaml:"pdfKey,omitempty"`
	PdfFileName string `json:"pdfFileName,omitempty" yaml:"pdfFileName,omitempty"`
}

// BlobKeys lists every blob the course owns, its image first.
func (c Course) BlobKeys() []string {
	keys := make([]string, 0, 1+2*len(c.Lectures))
	if c.ImageKey != "" {
		keys = append(keys, c.ImageKey)
	}
	for _, l := range c.Lectures {
		keys = append(keys, l.BlobKeys()...)
	}
	return keys
}

// BlobKeys lists the video and pdf blobs of the lecture.
func (l Lecture) BlobKeys() []string {
	keys := make([]string, 0, 2)
	if l.VideoKey != "" {
		keys = append(keys, l.VideoKey)
	}
	if l.PdfKey != "" {
		keys = append(keys, l.PdfKey)
	}
	return keys
}

// Clone returns a deep copy of c.
func (c Course) Clone() Course {
	out := c
	out.Lectures = append(make([]Lecture, 0, len(c.Lectures)), c.Lectures...)
	return out
}

// LectureIndex returns the index of lecture id within c, or -1.
func (c Course) LectureIndex(id int64) int {
	for i := range c.Lectures {
		if c.Lectures[i].ID == id {
			return i
		}
	}
	return -1
}
