package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-core/internal/models"
	"github.com/noah-isme/classroom-core/internal/service"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
	"github.com/noah-isme/classroom-core/pkg/export"
	"github.com/noah-isme/classroom-core/pkg/storage"
)

var (
	sweepDryRun  bool
	sweepMinAge  time.Duration
	dumpUsers    bool
	blobFileName string

	rosterFormat string
	rosterOut    string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete blobs that no stored document references",
	RunE: func(cmd *cobra.Command, args []string) error {
		minAge := current.cfg.Blob.SweepMinAge
		if cmd.Flags().Changed("min-age") {
			minAge = sweepMinAge
		}
		reconciler := service.NewReconciler(current.docs, current.blobs, current.logger, current.metrics)
		report, err := reconciler.Sweep(cmd.Context(), sweepDryRun, minAge)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, report)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the stored site document",
	RunE: func(cmd *cobra.Command, args []string) error {
		if dumpUsers {
			if !current.session.IsAdmin() {
				return appErrors.Clone(appErrors.ErrForbidden, "dumping users requires an admin session")
			}
			users, err := current.docs.LoadUsers(cmd.Context())
			if err != nil {
				return err
			}
			infos := make([]models.UserInfo, len(users))
			for i, u := range users {
				infos[i] = u.Info()
			}
			return render(cmd.OutOrStdout(), outputFormat, infos)
		}
		doc, _ := current.site.Site()
		return render(cmd.OutOrStdout(), outputFormat, doc)
	},
}

type siteStats struct {
	Courses              int       `json:"courses" yaml:"courses"`
	Lectures             int       `json:"lectures" yaml:"lectures"`
	Tutors               int       `json:"tutors" yaml:"tutors"`
	Users                int       `json:"users" yaml:"users"`
	PendingVerifications int       `json:"pendingVerifications" yaml:"pendingVerifications"`
	TeacherRequests      int       `json:"teacherRequests" yaml:"teacherRequests"`
	UnreadMessages       int       `json:"unreadMessages" yaml:"unreadMessages"`
	ReferencedBlobs      int       `json:"referencedBlobs" yaml:"referencedBlobs"`
	StoredBlobs          int       `json:"storedBlobs" yaml:"storedBlobs"`
	GeneratedAt          time.Time `json:"generatedAt" yaml:"generatedAt"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the stored documents and blobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		doc, _ := current.site.Site()
		users, err := current.docs.LoadUsers(ctx)
		if err != nil {
			return err
		}
		keys, err := current.blobs.Keys(ctx)
		if err != nil {
			return err
		}
		stats := siteStats{
			Courses:              len(doc.Courses),
			Tutors:               len(doc.Tutors),
			Users:                len(users),
			PendingVerifications: len(doc.PendingVerifications),
			TeacherRequests:      len(doc.TeacherVerificationRequests),
			ReferencedBlobs:      len(doc.BlobKeys()),
			StoredBlobs:          len(keys),
			GeneratedAt:          time.Now().UTC(),
		}
		for _, c := range doc.Courses {
			stats.Lectures += len(c.Lectures)
		}
		for _, m := range doc.ContactMessages {
			if m.Status != models.MessageStatusRead {
				stats.UnreadMessages++
			}
		}
		return render(cmd.OutOrStdout(), outputFormat, stats)
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Export the enrollments visible to the session as csv or pdf",
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, err := export.ForFormat(rosterFormat)
		if err != nil {
			return err
		}
		data, err := current.site.Roster(cmd.Context(), current.session)
		if err != nil {
			return err
		}
		if rosterOut == "" {
			return renderer.Render(cmd.OutOrStdout(), data)
		}
		f, err := os.Create(rosterOut)
		if err != nil {
			return err
		}
		if err := renderer.Render(f, data); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	},
}

var blobCmd = &cobra.Command{
	Use:   "blob",
	Short: "Inspect stored files",
}

var blobURLCmd = &cobra.Command{
	Use:   "url <key>",
	Short: "Issue a time-limited download token for a blob",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer := storage.NewSignedURLSigner(current.cfg.Blob.SignedURLSecret, current.cfg.Blob.SignedURLTTL)
		token, expiresAt, err := signer.Generate(args[0], blobFileName)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, map[string]interface{}{
			"token":     token,
			"expiresAt": expiresAt,
		})
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "Report orphans without deleting them")
	sweepCmd.Flags().DurationVar(&sweepMinAge, "min-age", 0, "Skip blobs written more recently than this (defaults to BLOB_SWEEP_MIN_AGE)")
	dumpCmd.Flags().BoolVar(&dumpUsers, "users", false, "Dump the user list instead (admin only)")
	rosterCmd.Flags().StringVar(&rosterFormat, "as", "csv", "File format: csv or pdf")
	rosterCmd.Flags().StringVar(&rosterOut, "out", "", "Write to this path instead of stdout")
	blobURLCmd.Flags().StringVar(&blobFileName, "name", "", "File name embedded in the token")
	blobCmd.AddCommand(blobURLCmd)
}
