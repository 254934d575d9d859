package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestSiteServiceUpdateSettings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)
	before := f.doc(t)

	require.NoError(t, f.site.UpdateSettings(ctx, admin, dto.SettingsUpdate{ClassroomName: strPtr("Bright Minds"), UpiID: strPtr("bm@upi")}))
	doc := f.doc(t)
	assert.Equal(t, "Bright Minds", doc.ClassroomName)
	assert.Equal(t, "bm@upi", doc.PaymentDetails.UpiID)
	assert.Equal(t, before.PaymentDetails.UpiNumber, doc.PaymentDetails.UpiNumber)
	assert.Equal(t, before.Home, doc.Home)

	err := f.site.UpdateSettings(ctx, f.studentSession(t, "s@x.io"), dto.SettingsUpdate{HomeTitle: strPtr("x")})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
}

func TestSiteServiceNavItemsOrder(t *testing.T) {
	f := newFixture(t)
	admin := f.adminSession(t)
	items := f.doc(t).NavItems
	reversed := make([]models.NavItem, len(items))
	for i := range items {
		reversed[len(items)-1-i] = items[i]
	}

	require.NoError(t, f.site.UpdateNavItemsOrder(context.Background(), admin, reversed))
	stored := f.doc(t).NavItems
	require.Len(t, stored, len(items))
	for i, item := range stored {
		assert.Equal(t, i, item.Order)
		assert.Equal(t, reversed[i].ID, item.ID)
	}
}

func TestSiteServiceContactMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)

	first, err := f.site.AddContactMessage(ctx, dto.ContactMessageInput{Name: "A", Email: "a@x.io", Message: "hello"})
	require.NoError(t, err)
	second, err := f.site.AddContactMessage(ctx, dto.ContactMessageInput{Name: "B", Email: "b@x.io", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusUnread, first.Status)
	assert.Greater(t, second.ID, first.ID)

	messages := f.doc(t).ContactMessages
	require.Len(t, messages, 2)
	assert.Equal(t, second.ID, messages[0].ID, "newest first")

	_, err = f.site.AddContactMessage(ctx, dto.ContactMessageInput{Name: "C", Email: "bad", Message: "x"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	require.NoError(t, f.site.UpdateContactMessageStatus(ctx, admin, first.ID, models.MessageStatusRead))
	assert.Equal(t, models.MessageStatusRead, f.doc(t).ContactMessages[1].Status)
	err = f.site.UpdateContactMessageStatus(ctx, admin, first.ID, "archived")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	err = f.site.DeleteContactMessage(ctx, NewSession(), first.ID)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
	require.NoError(t, f.site.DeleteContactMessage(ctx, admin, first.ID))
	require.NoError(t, f.site.DeleteContactMessage(ctx, admin, first.ID))
	assert.Len(t, f.doc(t).ContactMessages, 1)
}

func TestSiteServiceGeneralDownloads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)

	_, err := f.site.AddGeneralDownload(ctx, admin, "Forms", nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	download, err := f.site.AddGeneralDownload(ctx, admin, "Forms", file("forms.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "forms.pdf", download.PdfFileName)

	require.NoError(t, f.site.UpdateGeneralDownload(ctx, admin, download.ID, "Admission forms", nil))
	stored := f.doc(t).GeneralDownloads[0]
	assert.Equal(t, "Admission forms", stored.Title)
	assert.Equal(t, download.PdfKey, stored.PdfKey)

	require.NoError(t, f.site.UpdateGeneralDownload(ctx, admin, download.ID, "Admission forms", file("forms-v2.pdf")))
	replaced := f.doc(t).GeneralDownloads[0]
	assert.Equal(t, "forms-v2.pdf", replaced.PdfFileName)
	assert.False(t, f.blobs.exists(t, download.PdfKey))

	require.NoError(t, f.site.DeleteGeneralDownload(ctx, admin, download.ID))
	assert.Empty(t, f.doc(t).GeneralDownloads)
	assert.False(t, f.blobs.exists(t, replaced.PdfKey))
}

func TestSiteServiceSyllabuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)

	syllabus, err := f.site.AddSyllabus(ctx, admin, dto.SyllabusInput{Title: "Term 1"}, file("t1.pdf"), nil)
	require.NoError(t, err)
	assert.Empty(t, syllabus.ImageKey)
	assert.Equal(t, "t1.pdf", syllabus.PdfFileName)

	update := *syllabus
	update.Description = "Updated"
	require.NoError(t, f.site.UpdateSyllabus(ctx, admin, update, nil, file("cover.png")))
	stored := f.doc(t).Syllabuses[0]
	assert.Equal(t, "Updated", stored.Description)
	assert.Equal(t, syllabus.PdfKey, stored.PdfKey)
	assert.NotEmpty(t, stored.ImageKey)

	deletes := f.blobs.deleteCount()
	require.NoError(t, f.site.DeleteSyllabus(ctx, admin, syllabus.ID))
	assert.Equal(t, deletes+2, f.blobs.deleteCount())
	assert.Empty(t, f.doc(t).Syllabuses)
}

func TestSiteServiceTutors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)

	tutor, err := f.site.AddTutor(ctx, admin, dto.TutorInput{Name: "N", Designation: "D"}, file("n.jpg"))
	require.NoError(t, err)
	assert.Equal(t, tutor.ID, f.doc(t).Tutors[0].ID)

	update := *tutor
	update.Experience = "3 years"
	require.NoError(t, f.site.UpdateTutor(ctx, admin, update, file("n2.jpg")))
	stored := f.doc(t).Tutors[0]
	assert.Equal(t, "3 years", stored.Experience)
	assert.False(t, f.blobs.exists(t, tutor.PhotoKey))

	err = f.site.DeleteTutor(ctx, f.studentSession(t, "s@x.io"), tutor.ID)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))
	require.NoError(t, f.site.DeleteTutor(ctx, admin, tutor.ID))
	assert.False(t, f.blobs.exists(t, stored.PhotoKey))
}

func TestSiteServiceSubscribe(t *testing.T) {
	f := newFixture(t)
	admin := f.adminSession(t)
	var seen []string
	unsubscribe := f.site.Subscribe(func(doc models.SiteDocument) {
		seen = append(seen, doc.ClassroomName)
	})

	require.NoError(t, f.site.UpdateSettings(context.Background(), admin, dto.SettingsUpdate{ClassroomName: strPtr("One")}))
	unsubscribe()
	unsubscribe()
	require.NoError(t, f.site.UpdateSettings(context.Background(), admin, dto.SettingsUpdate{ClassroomName: strPtr("Two")}))

	assert.Equal(t, []string{"One"}, seen)
}

func TestSiteServiceEmptyReplacementStillReplaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)
	download, err := f.site.AddGeneralDownload(ctx, admin, "Forms", file("forms.pdf"))
	require.NoError(t, err)

	require.NoError(t, f.site.UpdateGeneralDownload(ctx, admin, download.ID, "Forms", &models.FileUpload{Name: "blank.pdf"}))
	stored := f.doc(t).GeneralDownloads[0]
	assert.Equal(t, "blank.pdf", stored.PdfFileName)
	assert.NotEqual(t, download.PdfKey, stored.PdfKey)
	assert.False(t, f.blobs.exists(t, download.PdfKey))
	assert.True(t, f.blobs.exists(t, stored.PdfKey))
}
