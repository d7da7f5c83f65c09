package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"luct/reporting/internal/client"
	"luct/reporting/internal/navigation"
	"luct/reporting/internal/session"
)

type app struct {
	serverURL   string
	sessionPath string
}

var errNotLoggedIn = errors.New("not logged in; run `reportingctl login` first")

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "reportingctl",
		Short:         "Lecture reporting client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", envOr("REPORTING_SERVER", "http://localhost:5000"), "API base URL")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (defaults to the user config dir)")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.sectionsCommand(),
		a.coursesCommand(),
		a.lecturesCommand(),
		a.reportsCommand(),
		a.ratingsCommand(),
	)
	return root
}

func (a *app) store() (*session.Store, error) {
	path := a.sessionPath
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return session.NewStore(path), nil
}

func (a *app) current() (session.Session, error) {
	store, err := a.store()
	if err != nil {
		return session.Session{}, err
	}
	sess, ok, err := store.Read()
	if err != nil {
		return session.Session{}, err
	}
	if !ok {
		return session.Session{}, errNotLoggedIn
	}
	return sess, nil
}

// enter loads the session and checks that its role may open at least one of
// sections.
func (a *app) enter(sections ...navigation.Section) (*client.Client, error) {
	sess, err := a.current()
	if err != nil {
		return nil, err
	}
	for _, section := range sections {
		if navigation.CanEnter(sess, section) {
			return client.New(a.serverURL).WithToken(sess.Token), nil
		}
	}
	return nil, fmt.Errorf("section %q is not available to role %s", sections[0], sess.Role)
}

func (a *app) registerCommand() *cobra.Command {
	var fullName, role string
	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.New(a.serverURL).Register(cmd.Context(), args[0], args[1], fullName, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s as %s\n", result.Username, result.Role)
			if result.Token != "" {
				return a.save(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&role, "role", "student", "student, lecturer, prl or pl")
	return cmd
}

func (a *app) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Log in and store the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.New(a.serverURL).Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.save(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) save(out io.Writer, result client.AuthResult) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	sess := session.Session{ID: result.ID, Username: result.Username, Token: result.Token, Role: result.Role}
	if err := store.Write(sess); err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s (%s)\n", sess.Username, sess.Role)
	return nil
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.current()
			if err != nil {
				return err
			}
			me, err := client.New(a.serverURL).WithToken(sess.Token).Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", me.ID, me.Username, me.FullName, me.Role)
			return nil
		},
	}
}

func (a *app) sectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the sections open to the current role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.current()
			if err != nil {
				return err
			}
			for _, section := range navigation.Sections(sess.Role) {
				fmt.Fprintln(cmd.OutOrStdout(), section)
			}
			return nil
		},
	}
}

func (a *app) coursesCommand() *cobra.Command {
	courses := &cobra.Command{Use: "courses", Short: "Courses"}
	courses.AddCommand(&cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.enter(navigation.Courses)
			if err != nil {
				return err
			}
			list, err := api.ListCourses(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tNAME\tFACULTY")
			for _, c := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Code, c.Name, c.Faculty)
			}
			return tw.Flush()
		},
	})
	return courses
}

func (a *app) lecturesCommand() *cobra.Command {
	var courseID int64
	var mine bool
	lectures := &cobra.Command{Use: "lectures", Short: "Lectures"}
	list := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.enter(navigation.Lectures)
			if err != nil {
				return err
			}
			items, err := api.ListLectures(cmd.Context(), courseID, mine)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCOURSE\tWEEK\tTOPIC\tPRESENT\tSTATUS")
			for _, l := range items {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d/%d\t%s\n", l.ID, l.CourseCode, l.Week, l.Topic, l.StudentsPresent, l.TotalStudents, l.Status)
			}
			return tw.Flush()
		},
	}
	list.Flags().Int64Var(&courseID, "course", 0, "only lectures of this course")
	list.Flags().BoolVar(&mine, "mine", false, "only lectures assigned to me")
	lectures.AddCommand(list)
	return lectures
}

func (a *app) reportsCommand() *cobra.Command {
	reports := &cobra.Command{Use: "reports", Short: "Lecture reports"}

	var status string
	list := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := a.enter(navigation.Reports)
			if err != nil {
				return err
			}
			items, err := api.ListReports(cmd.Context(), status)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLECTURE\tLECTURER\tSTATUS\tFEEDBACK")
			for _, r := range items {
				feedback := ""
				if r.PRLFeedback != nil {
					feedback = *r.PRLFeedback
				}
				fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", r.ID, r.LectureID, r.LecturerID, r.Status, feedback)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&status, "status", "", "pending or completed")

	var feedbackStatus string
	feedback := &cobra.Command{
		Use:   "feedback <lectureID> <text>",
		Short: "Attach PRL feedback to every report of a lecture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lectureID, err := parseID(args[0])
			if err != nil {
				return err
			}
			// Program leaders reach feedback from their monitoring view.
			api, err := a.enter(navigation.Feedback, navigation.Monitoring)
			if err != nil {
				return err
			}
			updated, err := api.SubmitFeedback(cmd.Context(), lectureID, args[1], feedbackStatus)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d report(s)\n", len(updated))
			return nil
		},
	}
	feedback.Flags().StringVar(&feedbackStatus, "status", "", "status to set (defaults to completed)")

	reports.AddCommand(list, feedback)
	return reports
}

func (a *app) ratingsCommand() *cobra.Command {
	ratings := &cobra.Command{Use: "ratings", Short: "Lecture ratings"}

	average := &cobra.Command{
		Use:  "average <lectureID>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lectureID, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := a.enter(navigation.Ratings)
			if err != nil {
				return err
			}
			summary, err := api.RatingAverage(cmd.Context(), lectureID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "lecture %d: %.2f from %d rating(s)\n", summary.LectureID, summary.Average, summary.Count)
			return nil
		},
	}

	var comment string
	submit := &cobra.Command{
		Use:  "submit <lectureID> <rating>",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lectureID, err := parseID(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.ParseInt(args[1], 10, 32)
			if err != nil || value < 1 || value > 5 {
				return fmt.Errorf("rating must be between 1 and 5")
			}
			api, err := a.enter(navigation.Ratings)
			if err != nil {
				return err
			}
			rating, err := api.SubmitRating(cmd.Context(), lectureID, int32(value), comment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rating %d recorded\n", rating.ID)
			return nil
		},
	}
	submit.Flags().StringVar(&comment, "comment", "", "optional comment")

	ratings.AddCommand(average, submit)
	return ratings
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
