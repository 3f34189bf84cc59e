package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alem-hub/student-records/internal/application/command"
	"github.com/alem-hub/student-records/internal/application/session"
)

const shellPrompt = "records> "

func newShellCmd(o *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands line by line in one session, with undo",
		Long: `shell reads one command per line from standard input and runs it against a
single session. Besides the regular commands it offers "undo", which restores
the most recently deleted student. Quote arguments that contain spaces.
"exit" or end of input leaves the shell.`,
		Args: cobra.NoArgs,
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

			s, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.within(s))
		},
	}
}

// runShell executes each input line as a command. A failing command prints
// its error and the shell goes on.
func runShell(ctx context.Context, in io.Reader, out io.Writer, run runner) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, shellPrompt)
	for scanner.Scan() {
		args, err := splitLine(scanner.Text())
		switch {
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			return nil
		default:
			line := newShellTree(run)
			line.SetArgs(args)
			line.SetIn(strings.NewReader(""))
			line.SetOut(out)
			line.SetErr(out)
			if err := line.ExecuteContext(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(out, shellPrompt)
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

// newShellTree builds the commands for one shell line. Flags are parsed
// afresh for each line.
func newShellTree(run runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(sessionCommands(run)...)
	root.AddCommand(newUndoCmd(run))
	return root
}

func newUndoCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Restore the most recently deleted student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, s *session.Session) error {
				res, err := command.NewUndoDeleteHandler(s).Handle(ctx, command.UndoDeleteCommand{})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", res.Record)
				return nil
			})
		},
	}
}

// splitLine splits a shell line on spaces. Double quotes group words, and a
// doubled quote inside quotes is a literal quote.
func splitLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse line: %w", err)
	}

	args := fields[:0]
	for _, f := range fields {
		if f != "" {
			args = append(args, f)
		}
	}
	return args, nil
}
