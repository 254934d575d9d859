package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-core/internal/dto"
)

var (
	courseName        string
	courseInstructor  string
	courseDescription string
	courseFee         float64
	courseImage       string
	coursesMine       bool

	lectureTitle       string
	lectureDescription string
	lectureVideoURL    string
	lectureVideo       string
	lecturePdf         string
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List and manage courses",
}

var coursesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the published courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		if coursesMine {
			return render(cmd.OutOrStdout(), outputFormat, current.site.TeacherCourses(current.session))
		}
		doc, _ := current.site.Site()
		return render(cmd.OutOrStdout(), outputFormat, doc.Courses)
	},
}

var coursesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a course",
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := readUpload(courseImage)
		if err != nil {
			return err
		}
		course, err := current.site.AddCourse(cmd.Context(), current.session, dto.CourseInput{
			Name:        courseName,
			Instructor:  courseInstructor,
			Description: courseDescription,
			Fee:         courseFee,
		}, image)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, course)
	},
}

var coursesDeleteCmd = &cobra.Command{
	Use:   "delete <course-id>",
	Short: "Delete a course with its lectures and files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return current.site.DeleteCourse(cmd.Context(), current.session, id)
	},
}

var coursesAccessCmd = &cobra.Command{
	Use:   "access <course-id>",
	Short: "Show what the session user may do with a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		access, err := current.site.CourseAccess(cmd.Context(), current.session, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), access)
		return nil
	},
}

var lecturesAddCmd = &cobra.Command{
	Use:   "add-lecture <course-id>",
	Short: "Append a lecture to a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		video, err := readUpload(lectureVideo)
		if err != nil {
			return err
		}
		pdf, err := readUpload(lecturePdf)
		if err != nil {
			return err
		}
		lecture, err := current.site.AddLecture(cmd.Context(), current.session, id, dto.LectureInput{
			Title:       lectureTitle,
			Description: lectureDescription,
			VideoURL:    lectureVideoURL,
		}, video, pdf)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, lecture)
	},
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func init() {
	coursesListCmd.Flags().BoolVar(&coursesMine, "mine", false, "Only courses owned by the session teacher")

	coursesAddCmd.Flags().StringVar(&courseName, "name", "", "Course name")
	coursesAddCmd.Flags().StringVar(&courseInstructor, "instructor", "", "Instructor name")
	coursesAddCmd.Flags().StringVar(&courseDescription, "description", "", "Course description")
	coursesAddCmd.Flags().Float64Var(&courseFee, "fee", 0, "Course fee")
	coursesAddCmd.Flags().StringVar(&courseImage, "image", "", "Path to the cover image")

	lecturesAddCmd.Flags().StringVar(&lectureTitle, "title", "", "Lecture title")
	lecturesAddCmd.Flags().StringVar(&lectureDescription, "description", "", "Lecture description")
	lecturesAddCmd.Flags().StringVar(&lectureVideoURL, "video-url", "", "External video link")
	lecturesAddCmd.Flags().StringVar(&lectureVideo, "video", "", "Path to an uploaded video")
	lecturesAddCmd.Flags().StringVar(&lecturePdf, "pdf", "", "Path to lecture notes")

	coursesCmd.AddCommand(coursesListCmd, coursesAddCmd, coursesDeleteCmd, coursesAccessCmd, lecturesAddCmd)
}
