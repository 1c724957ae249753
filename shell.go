package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"expensetracker/appcontext"

	"github.com/google/shlex"
)

const prompt = "expenses> "

// runShell reads commands from in until EOF or quit. The working set is kept
// between commands, so total, by-date, by-category and export act on the
// last listing.
func (a *app) runShell(ctx context.Context, in io.Reader) error {
	logger := appcontext.LoggerFromContext(ctx)
	scanner := bufio.NewScanner(in)
	a.confirm = func(question string) bool {
		fmt.Fprintf(a.out, "%s [y/N] ", question)
		if !scanner.Scan() {
			return false
		}
		return isYes(scanner.Text())
	}

	fmt.Fprint(a.out, prompt)
	for scanner.Scan() {
		args, err := splitArgs(scanner.Text())
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			fmt.Fprint(a.out, prompt)
			continue
		}

		if len(args) > 0 {
			switch args[0] {
			case "quit", "exit":
				return nil
			case "help":
				printUsage(a.out)
			default:
				if err := a.dispatch(ctx, args[0], args[1:]); err != nil {
					logger.DebugContext(ctx, "Shell command failed", "command", args[0], "error", err)
					fmt.Fprintf(a.out, "error: %v\n", err)
				}
			}
		}
		fmt.Fprint(a.out, prompt)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fmt.Fprintln(a.out)
	return nil
}

// isYes reports whether answer accepts a confirmation question.
func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// splitArgs splits a line with shell quoting rules. Quotes group words, a
// backslash escapes the next character and an unquoted # starts a comment.
func splitArgs(line string) ([]string, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("invalid command line: %w", err)
	}

	return args, nil
}
