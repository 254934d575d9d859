package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiteDocumentLookupsOnValues(t *testing.T) {
	assert.Equal(t, -1, DefaultSiteDocument().CourseIndex(-42))
	assert.Empty(t, SiteDocument{}.BlobKeys())

	doc := SiteDocument{
		Courses:              []Course{{ID: 7, ImageKey: "img", Lectures: []Lecture{{VideoKey: "vid", PdfKey: "pdf"}}}},
		Tutors:               []Tutor{{PhotoKey: "photo"}, {}},
		PendingVerifications: []VerificationRequest{{ScreenshotKey: "shot"}},
	}
	assert.Equal(t, 0, doc.Clone().CourseIndex(7))
	assert.ElementsMatch(t, []string{"img", "vid", "pdf", "photo", "shot"}, doc.Clone().BlobKeys())
}
