package models

import "time"

// OperationMetrics aggregates process-local counters for reporting.
type OperationMetrics struct {
	OperationsTotal   uint64            `json:"operationsTotal" yaml:"operationsTotal"`
	OperationFailures uint64            `json:"operationFailures" yaml:"operationFailures"`
	OperationsSkipped uint64            `json:"operationsSkipped" yaml:"operationsSkipped"`
	ByOperation       map[string]uint64 `json:"byOperation" yaml:"byOperation"`
	BlobPuts          uint64            `json:"blobPuts" yaml:"blobPuts"`
	BlobDeletes       uint64            `json:"blobDeletes" yaml:"blobDeletes"`
	CleanupFailures   uint64            `json:"cleanupFailures" yaml:"cleanupFailures"`
	GeneratedAt       time.Time         `json:"generatedAt" yaml:"generatedAt"`
}

// SweepReport describes one reconciliation pass over the blob store.
type SweepReport struct {
	DryRun     bool     `json:"dryRun" yaml:"dryRun"`
	Scanned    int      `json:"scanned" yaml:"scanned"`
	Referenced int      `json:"referenced" yaml:"referenced"`
	Orphans    []string `json:"orphans" yaml:"orphans"`
	// Recent lists unreferenced blobs younger than the sweep's minimum age.
	Recent     []string `json:"recent" yaml:"recent"`
	Deleted    []string `json:"deleted" yaml:"deleted"`
	Failed     []string `json:"failed" yaml:"failed"`
}

// CourseAccess is what a session may do with one course.
type CourseAccess string

const (
	CourseAccessNone     CourseAccess = "none"
	CourseAccessPending  CourseAccess = "pending"
	CourseAccessEnrolled CourseAccess = "enrolled"
	// CourseAccessManage is granted to admins and the owning approved teacher.
	CourseAccessManage CourseAccess = "manage"
)
