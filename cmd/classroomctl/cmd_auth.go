package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
)

var (
	loginEmail    string
	loginPassword string
	loginRole     string

	signupName     string
	signupEmail    string
	signupPassword string

	teacherDesignation    string
	teacherQualifications string
	teacherExperience     string
	teacherTransactionID  string
	teacherScreenshot     string
	teacherPhoto          string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in on the student, teacher or admin panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := current.auth.Login(cmd.Context(), current.session, dto.LoginRequest{
			Email:    loginEmail,
			Password: loginPassword,
			Role:     models.UserRole(loginRole),
		})
		if err != nil {
			return err
		}
		return renderUser(cmd.OutOrStdout(), outputFormat, user)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		current.auth.Logout(cmd.Context(), current.session)
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the restored session user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, ok := current.session.User()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "anonymous")
			return nil
		}
		return renderUser(cmd.OutOrStdout(), outputFormat, &user)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a student account",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := current.auth.Signup(cmd.Context(), dto.SignupRequest{
			Name:            signupName,
			Email:           signupEmail,
			Password:        signupPassword,
			ConfirmPassword: signupPassword,
		})
		if err != nil {
			return err
		}
		return renderUser(cmd.OutOrStdout(), outputFormat, user)
	},
}

var teacherSignupCmd = &cobra.Command{
	Use:   "teacher-signup",
	Short: "Register a teacher account pending admin approval",
	RunE: func(cmd *cobra.Command, args []string) error {
		screenshot, err := readUpload(teacherScreenshot)
		if err != nil {
			return err
		}
		photo, err := readUpload(teacherPhoto)
		if err != nil {
			return err
		}
		user, err := current.auth.TeacherSignup(cmd.Context(), dto.TeacherSignupRequest{
			Name:            signupName,
			Email:           signupEmail,
			Password:        signupPassword,
			ConfirmPassword: signupPassword,
			Designation:     teacherDesignation,
			Qualifications:  teacherQualifications,
			Experience:      teacherExperience,
			TransactionID:   teacherTransactionID,
		}, screenshot, photo)
		if err != nil {
			return err
		}
		return renderUser(cmd.OutOrStdout(), outputFormat, user)
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	loginCmd.Flags().StringVar(&loginRole, "role", string(models.RoleStudent), "Panel: student, teacher or admin")

	for _, c := range []*cobra.Command{signupCmd, teacherSignupCmd} {
		c.Flags().StringVar(&signupName, "name", "", "Display name")
		c.Flags().StringVar(&signupEmail, "email", "", "Account email")
		c.Flags().StringVar(&signupPassword, "password", "", "Account password")
	}
	teacherSignupCmd.Flags().StringVar(&teacherDesignation, "designation", "", "Job title")
	teacherSignupCmd.Flags().StringVar(&teacherQualifications, "qualifications", "", "Degrees and certificates")
	teacherSignupCmd.Flags().StringVar(&teacherExperience, "experience", "", "Teaching experience")
	teacherSignupCmd.Flags().StringVar(&teacherTransactionID, "transaction-id", "", "Registration fee transaction id")
	teacherSignupCmd.Flags().StringVar(&teacherScreenshot, "screenshot", "", "Path to the payment screenshot")
	teacherSignupCmd.Flags().StringVar(&teacherPhoto, "photo", "", "Path to the profile photo")
}
