// ABOUTME: Interactive terminal quiz session
// ABOUTME: Reads answers from stdin, shows feedback, and prints the final score
package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/harper/quizsmith/internal/quiz"
	"github.com/spf13/cobra"
)

// NewStartCmd creates the start command
func NewStartCmd() *cobra.Command {
	var (
		random bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "start [topic]",
		Short: "Take a quiz in the terminal",
		Long: `Take a multiple-choice quiz in the terminal.

Topic mode generates each question fresh from the topic's document.
Random mode (--random) draws a batch of questions from the question bank.
Without a topic you pick one from the course list.

Answer with a letter (a-d) or the option text. Enter "s" to skip a
question (it counts as wrong) and "q" to stop early.`,
		Example: `  quiz start "Chapter07 Lists and Tuples"
  quiz start --random
  quiz start -n 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, args, random, limit)
		},
	}

	cmd.Flags().BoolVar(&random, "random", false, "Draw questions from the question bank")
	cmd.Flags().IntVarP(&limit, "max", "n", 0, "Questions per quiz (default: QUIZ_MAX_QUESTIONS)")

	return cmd
}

func runStart(cmd *cobra.Command, args []string, random bool, limit int) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	opts := a.sessionOptions()
	if limit > 0 {
		opts.MaxQuestions = limit
	}

	start := quiz.StartOptions{Mode: quiz.ModeTopic}
	if random {
		start.Mode = quiz.ModeRandom
	} else if len(args) > 0 {
		start.Topic = args[0]
	} else {
		topic, ok := chooseTopic(in, out, a.cfg.Course.Topics)
		if !ok {
			return nil
		}
		start.Topic = topic
	}

	s := quiz.NewSession(opts)
	if !quiet {
		fmt.Fprintf(out, "\n%s\n\n", a.cfg.Course.Title)
	}
	if err := s.Start(ctx, start); err != nil {
		return fmt.Errorf("failed to start quiz: %w", err)
	}

	return playSession(ctx, in, out, s)
}

// chooseTopic lists the topics and reads a choice by number or name
func chooseTopic(in *bufio.Scanner, out io.Writer, topics []string) (string, bool) {
	for i, t := range topics {
		fmt.Fprintf(out, "%2d. %s\n", i+1, t)
	}
	for {
		fmt.Fprint(out, "Choose a topic: ")
		if !in.Scan() {
			return "", false
		}
		input := strings.TrimSpace(in.Text())
		if input == "" {
			continue
		}
		if n, err := strconv.Atoi(input); err == nil {
			if n >= 1 && n <= len(topics) {
				return topics[n-1], true
			}
			fmt.Fprintf(out, "Pick a number between 1 and %d.\n", len(topics))
			continue
		}
		return input, true
	}
}

// playSession runs a started session until it completes or input ends
func playSession(ctx context.Context, in *bufio.Scanner, out io.Writer, s *quiz.Session) error {
	for s.State() == quiz.InProgress {
		v := s.Snapshot()

		if !v.Answered {
			printQuestion(out, v)
			fmt.Fprint(out, "Your answer (a-d, s to skip, q to quit): ")
			if !in.Scan() {
				fmt.Fprintln(out)
				break
			}
			input := strings.TrimSpace(in.Text())

			switch strings.ToLower(input) {
			case "q", "quit":
				printScore(out, s)
				return nil
			case "s", "skip", "":
				fmt.Fprintln(out, "Skipped.")
			default:
				fb, err := s.Submit(v.Index, v.Question.ResolveChoice(input))
				if err != nil {
					fmt.Fprintf(out, "%v\n\n", err)
					continue
				}
				printFeedback(out, fb)
			}
		}

		if err := s.Advance(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Could not load the next question: %v\n", err)
			fmt.Fprint(out, "Press Enter to retry or q to quit: ")
			if !in.Scan() || strings.EqualFold(strings.TrimSpace(in.Text()), "q") {
				break
			}
			// An unanswered question was not marked skipped; it can still be answered
		}
	}

	printScore(out, s)
	return nil
}

func printQuestion(out io.Writer, v quiz.View) {
	fmt.Fprintf(out, "Question %d of %d\n", v.Index+1, v.Max)
	fmt.Fprintf(out, "%s\n\n", v.Question.Question)
	for i, opt := range v.Question.Options {
		fmt.Fprintf(out, "  %s) %s\n", optionLetter(i), opt)
	}
	fmt.Fprintln(out)
}

func printFeedback(out io.Writer, fb *quiz.Feedback) {
	if fb.Correct {
		fmt.Fprintln(out, "Correct!")
	} else {
		fmt.Fprintf(out, "Incorrect. The answer is: %s\n", fb.Answer)
	}
	if fb.Explanation != "" {
		fmt.Fprintf(out, "%s\n", fb.Explanation)
	}
	fmt.Fprintln(out)
}

func printScore(out io.Writer, s *quiz.Session) {
	sc := s.Score()
	fmt.Fprintf(out, "Score: %d correct, %d incorrect (%.0f%%)\n", sc.Correct, sc.Incorrect, sc.Percent)
}
