package models

import "time"

// VerificationRequest is a queued student payment awaiting admin review.
type VerificationRequest struct {
	ID            int64     `json:"id" yaml:"id"`
	UserName      string    `json:"userName" yaml:"userName"`
	UserEmail     string    `json:"userEmail" yaml:"userEmail"`
	CourseID      int64     `json:"courseId" yaml:"courseId"`
	CourseName    string    `json:"courseName" yaml:"courseName"`
	TransactionID string    `json:"transactionId" yaml:"transactionId"`
	ScreenshotKey string    `json:"screenshotKey" yaml:"screenshotKey"`
	RequestedAt   time.Time `json:"requestedAt" yaml:"requestedAt"`
}

// TeacherVerificationRequest is a queued teacher registration awaiting admin review.
// Approving it turns the profile fields and PhotoKey into a Tutor.
type TeacherVerificationRequest struct {
	ID             int64     `json:"id" yaml:"id"`
	UserName       string    `json:"userName" yaml:"userName"`
	UserEmail      string    `json:"userEmail" yaml:"userEmail"`
	Designation    string    `json:"designation" yaml:"designation"`
	Qualifications string    `json:"qualifications" yaml:"qualifications"`
	Experience     string    `json:"experience" yaml:"experience"`
	TransactionID  string    `json:"transactionId" yaml:"transactionId"`
	ScreenshotKey  string    `json:"screenshotKey" yaml:"screenshotKey"`
	PhotoKey       string    `json:"photoKey" yaml:"photoKey"`
	RequestedAt    time.Time `json:"requestedAt" yaml:"requestedAt"`
}
