package models

import "time"

// Tutor is a faculty profile shown on the site.
type Tutor struct {
	ID             int64  `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Designation    string `json:"designation" yaml:"designation"`
	Qualifications string `json:"qualifications" yaml:"qualifications"`
	Experience     string `json:"experience" yaml:"experience"`
	PhotoKey       string `json:"photoKey,omitempty" yaml:"photoKey,omitempty"`
}

type Syllabus struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	PdfKey      string `json:"pdfKey,omitempty" yaml:"pdfKey,omitempty"`
	PdfFileName string `json:"pdfFileName,omitempty" yaml:"pdfFileName,omitempty"`
	ImageKey    string `json:"imageKey,omitempty" yaml:"imageKey,omitempty"`
}

// BlobKeys lists the pdf and image blobs of the syllabus.
func (s Syllabus) BlobKeys() []string {
	keys := make([]string, 0, 2)
	if s.PdfKey != "" {
		keys = append(keys, s.PdfKey)
	}
	if s.ImageKey != "" {
		keys = append(keys, s.ImageKey)
	}
	return keys
}

type GeneralDownload struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	PdfKey      string `json:"pdfKey" yaml:"pdfKey"`
	PdfFileName string `json:"pdfFileName" yaml:"pdfFileName"`
}

// MessageStatus marks whether an admin has seen a contact message.
type MessageStatus string

const (
	MessageStatusUnread MessageStatus = "unread"
	MessageStatusRead   MessageStatus = "read"
)

type ContactMessage struct {
	ID         int64         `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Email      string        `json:"email" yaml:"email"`
	Message    string        `json:"message" yaml:"message"`
	Status     MessageStatus `json:"status" yaml:"status"`
	ReceivedAt time.Time     `json:"receivedAt" yaml:"receivedAt"`
}

// NavItem is one entry of the site navigation; Order is its zero-based position.
type NavItem struct {
	ID    int64  `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
	Order int    `json:"order" yaml:"order"`
}
