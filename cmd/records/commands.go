package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alem-hub/student-records/internal/application/command"
	"github.com/alem-hub/student-records/internal/application/query"
	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/internal/infrastructure/catalog"
)

// runner calls fn with a hydrated session and a context bounded by
// STORE_QUERY_TIMEOUT.
type runner func(cmd *cobra.Command, fn func(ctx context.Context, s *session.Session) error) error

// newRootCmd builds the command tree. Every command except shell runs in a
// session of its own, so undo is only offered inside shell.
func newRootCmd() *cobra.Command {
	var o overrides

	root := &cobra.Command{
		Use:           "records",
		Short:         "Student records and course prerequisites",
		Long:          `records keeps student records ranked by GPA and recommends course paths from a prerequisite graph.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.driver, "driver", "", "store driver: sqlite, postgres, redis, badger, memory (overrides STORE_DRIVER)")
	root.PersistentFlags().StringVar(&o.dsn, "dsn", "", "sqlite path or postgres URL (overrides STORE_DSN)")

	root.AddCommand(newMigrateCmd(&o), newShellCmd(&o))
	root.AddCommand(sessionCommands(oneShot(&o))...)
	return root
}

// sessionCommands are the commands available both from the command line and
// inside shell.
func sessionCommands(run runner) []*cobra.Command {
	return []*cobra.Command{
		newImportCatalogCmd(run),
		newAddCmd(run),
		newDeleteCmd(run),
		newFindCmd(run),
		newListCmd(run),
		newTopCmd(run),
		newAddCourseCmd(run),
		newPathCmd(run),
		newCoursesCmd(run),
	}
}

// oneShot opens the stores, runs fn in a fresh session and closes them.
func oneShot(o *overrides) runner {
	return func(cmd *cobra.Command, fn func(ctx context.Context, s *session.Session) error) (err error) {
		a, err := newApp(cmd, *o)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		s, err := a.openSession(cmd.Context())
		if err != nil {
			return err
		}
		return a.within(s)(cmd, fn)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Schema
// ─────────────────────────────────────────────────────────────────────────────

func newMigrateCmd(o *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the store schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(cmd, *o)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			ctx, cancel := a.timeout(cmd.Context())
			defer cancel()
			if err := a.stores.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date\n", a.stores.Driver)
			return nil
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Students
// ─────────────────────────────────────────────────────────────────────────────

func newAddCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:     "add ID NAME COURSE YEAR GPA",
		Short:   "Add a student record",
		Example: `  records add P12345 "John Doe" "Computer Science" 2 3.8`,
		Args:    cobra.ExactArgs(student.RowArity),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := student.ParseRecord(args[0], args[1], args[2], args[3], args[4])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := command.NewAddStudentHandler(s).Handle(ctx, command.AddStudentCommand{
					ID: r.ID, Name: r.Name, Course: r.Course, Year: r.Year, GPA: r.GPA,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", res.Record)
				return nil
			})
		},
	}
}

func newDeleteCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a student record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := command.NewDeleteStudentHandler(s).Handle(ctx, command.DeleteStudentCommand{ID: args[0]})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", res.Record)
				return nil
			})
		},
	}
}

func newFindCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "find ID",
		Short: "Show one student record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				r, err := query.NewFindStudentHandler(s).Handle(ctx, query.FindStudentQuery{ID: args[0]})
				if err != nil {
					return err
				}
				return writeRecords(cmd.OutOrStdout(), nil, []student.Record{r})
			})
		},
	}
}

func newListCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List student records in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				records, err := query.NewListStudentsHandler(s).Handle(ctx, query.ListStudentsQuery{})
				if err != nil {
					return err
				}
				return writeRecords(cmd.OutOrStdout(), nil, records)
			})
		},
	}
}

func newTopCmd(run runner) *cobra.Command {
	var k int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the students with the highest GPA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				rows, err := query.NewTopStudentsHandler(s).Handle(ctx, query.TopStudentsQuery{K: k})
				if err != nil {
					return err
				}
				ranks := make([]int, len(rows))
				records := make([]student.Record, len(rows))
				for i, row := range rows {
					ranks[i], records[i] = row.Rank, row.Record
				}
				return writeRecords(cmd.OutOrStdout(), ranks, records)
			})
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of students (default RANKING_TOP_K)")
	return cmd
}

func writeRecords(out io.Writer, ranks []int, records []student.Record) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	header := "ID\tNAME\tCOURSE\tYEAR\tGPA"
	if ranks != nil {
		header = "RANK\t" + header
	}
	fmt.Fprintln(w, header)
	for i, r := range records {
		if ranks != nil {
			fmt.Fprintf(w, "%d\t", ranks[i])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Course, r.Year, strconv.FormatFloat(r.GPA, 'f', 2, 64))
	}
	return w.Flush()
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

func newImportCatalogCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import-catalog FILE",
		Short: "Add every course listed in a YAML catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := command.NewImportCatalogHandler(s).Handle(ctx, command.ImportCatalogCommand{Courses: c.Courses})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d courses\n", res.Imported)
				return nil
			})
		},
	}
}

func newAddCourseCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:     "add-course NAME [PREREQUISITE...]",
		Short:   "Set the prerequisites of a course",
		Example: `  records add-course Algorithms "Data Structures"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				err := command.NewAddCourseHandler(s).Handle(ctx, command.AddCourseCommand{
					Name:          args[0],
					Prerequisites: args[1:],
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), course.Entry{Name: args[0], Prerequisites: args[1:]})
				return nil
			})
		},
	}
}

func newPathCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "path COURSE",
		Short: "Recommend the order in which to take a course and its prerequisites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				path, err := query.NewRecommendPathHandler(s).Handle(ctx, query.RecommendPathQuery{Course: args[0]})
				if err != nil {
					return err
				}
				if len(path) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "unknown course %q\n", args[0])
					return nil
				}
				for i, c := range path {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, c)
				}
				return nil
			})
		},
	}
}

func newCoursesCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List known courses with their prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				entries, err := query.NewListCoursesHandler(s).Handle(ctx, query.ListCoursesQuery{})
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Fprintln(cmd.OutOrStdout(), e)
				}
				return nil
			})
		},
	}
}
