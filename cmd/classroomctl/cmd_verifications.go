package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-core/internal/dto"
)

var (
	verifyTeacher       bool
	verifyTransactionID string
	verifyScreenshot    string
)

var verificationsCmd = &cobra.Command{
	Use:   "verifications",
	Short: "Review course payments and teacher registrations",
}

var verificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _ := current.site.Site()
		if verifyTeacher {
			return render(cmd.OutOrStdout(), outputFormat, doc.TeacherVerificationRequests)
		}
		return render(cmd.OutOrStdout(), outputFormat, doc.PendingVerifications)
	},
}

var verificationsFileCmd = &cobra.Command{
	Use:   "file <course-id>",
	Short: "File a course payment for the session user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, err := parseID(args[0])
		if err != nil {
			return err
		}
		screenshot, err := readUpload(verifyScreenshot)
		if err != nil {
			return err
		}
		req, err := current.site.AddVerificationRequest(cmd.Context(), current.session, dto.VerificationInput{
			CourseID:      courseID,
			TransactionID: verifyTransactionID,
		}, screenshot)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, req)
	},
}

var verificationsApproveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if verifyTeacher {
			return current.site.ApproveTeacherVerification(cmd.Context(), current.session, id)
		}
		return current.site.ApproveVerification(cmd.Context(), current.session, id)
	},
}

var verificationsRejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject a pending request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if verifyTeacher {
			return current.site.RejectTeacherVerification(cmd.Context(), current.session, id)
		}
		return current.site.RejectVerification(cmd.Context(), current.session, id)
	},
}

func init() {
	verificationsCmd.PersistentFlags().BoolVar(&verifyTeacher, "teacher", false, "Operate on teacher registrations instead of course payments")
	verificationsFileCmd.Flags().StringVar(&verifyTransactionID, "transaction-id", "", "Payment transaction id")
	verificationsFileCmd.Flags().StringVar(&verifyScreenshot, "screenshot", "", "Path to the payment screenshot")

	verificationsCmd.AddCommand(verificationsListCmd, verificationsFileCmd, verificationsApproveCmd, verificationsRejectCmd)
}
