package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/app"
	"github.com/abhisek/studyaid/internal/llm"
	"github.com/abhisek/studyaid/internal/quiz"
	"github.com/abhisek/studyaid/internal/session"
	"github.com/abhisek/studyaid/internal/store"
	"github.com/abhisek/studyaid/internal/ui/components"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate, take and review quizzes",
}

var quizGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz from study material",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("content-file")
		kindFlag, _ := cmd.Flags().GetString("type")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		out, _ := cmd.Flags().GetString("out")
		takeNow, _ := cmd.Flags().GetBool("take")
		subject, _ := cmd.Flags().GetString("subject")

		kind, ok := quiz.ParseKind(kindFlag)
		if !ok {
			return fmt.Errorf("unknown question type %q", kindFlag)
		}
		content, err := readInput(path)
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := newProvider(ctx, st)
		if err != nil {
			return err
		}

		qz, err := generateQuiz(ctx, cmd.ErrOrStderr(), provider, quiz.GenerateRequest{
			Content:    content,
			Kind:       kind,
			Count:      count,
			Difficulty: difficulty,
		})
		if err != nil {
			return err
		}

		if out != "" {
			data, err := json.MarshalIndent(qz, "", "  ")
			if err != nil {
				return fmt.Errorf("encode quiz: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write quiz: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved quiz to %s\n", out)
		}

		if takeNow {
			return takeQuiz(ctx, cmd.OutOrStdout(), st, provider, qz, subject)
		}
		printQuiz(cmd.OutOrStdout(), qz)
		return nil
	},
}

var quizTakeCmd = &cobra.Command{
	Use:   "take <quiz-file>",
	Short: "Take a saved quiz interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		subject, _ := cmd.Flags().GetString("subject")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read quiz: %w", err)
		}
		var qz quiz.Quiz
		if err := json.Unmarshal(data, &qz); err != nil {
			return fmt.Errorf("invalid quiz file: %w", err)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		// Without a provider, short answers are graded by exact match only.
		provider, err := newProvider(ctx, st)
		if err != nil {
			log.Warn().Err(err).Msg("short answers will be graded by exact match")
			provider = nil
		}
		return takeQuiz(ctx, cmd.OutOrStdout(), st, provider, &qz, subject)
	},
}

var quizHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		difficulty, _ := cmd.Flags().GetString("difficulty")
		kindFlag, _ := cmd.Flags().GetString("type")
		sortBy, _ := cmd.Flags().GetString("sort")

		filter := quiz.HistoryFilter{Difficulty: difficulty, Sort: sortBy}
		if kindFlag != "" {
			kind, ok := quiz.ParseKind(kindFlag)
			if !ok {
				return fmt.Errorf("unknown question type %q", kindFlag)
			}
			filter.Kind = kind
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}
		records, err := ws.QuizHistory(ctx)
		if err != nil {
			return fmt.Errorf("load quiz history: %w", err)
		}
		records = quiz.FilterHistory(records, filter)

		w := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(w, "No quiz results found.")
			return nil
		}

		heading(w, "Quiz History")
		fmt.Fprintf(w, "%-8s  %-16s  %-28s  %-8s  %-7s  %-10s  %s\n",
			"ID", "Date", "Title", "Score", "Correct", "Difficulty", "Type")
		for _, r := range records {
			fmt.Fprintf(w, "%-8s  %-16s  %-28s  %s  %-7s  %-10s  %s\n",
				shortID(r.ID),
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(r.Title, 28),
				fmt.Sprintf("%-8s", fmt.Sprintf("%.1f%%", r.Score)),
				fmt.Sprintf("%d/%d", r.CorrectAnswers, r.TotalQuestions),
				r.Difficulty,
				r.QuestionType.Label(),
			)
		}
		return nil
	},
}

var quizRetakeCmd = &cobra.Command{
	Use:   "retake <record-id>",
	Short: "Generate a fresh quiz from a past quiz's material and take it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		subject, _ := cmd.Flags().GetString("subject")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}
		rec, err := ws.QuizRecord(ctx, args[0])
		if err != nil {
			return err
		}
		if strings.TrimSpace(rec.OriginalContent) == "" {
			return fmt.Errorf("quiz %s has no stored material to retake", shortID(rec.ID))
		}

		provider, err := newProvider(ctx, st)
		if err != nil {
			return err
		}
		qz, err := generateQuiz(ctx, cmd.ErrOrStderr(), provider, quiz.RetakeRequest(rec))
		if err != nil {
			return err
		}
		return takeQuiz(ctx, cmd.OutOrStdout(), st, provider, qz, subject)
	},
}

func generateQuiz(ctx context.Context, status io.Writer, provider llm.Provider, req quiz.GenerateRequest) (*quiz.Quiz, error) {
	var opts []quiz.Option
	if cfg.QuizMaxContentChars > 0 {
		opts = append(opts, quiz.WithMaxContentChars(cfg.QuizMaxContentChars))
	}
	fmt.Fprintf(status, "Generating %d %s questions...\n", max(req.Count, 1), req.Kind.Label())
	qz, err := quiz.NewPipeline(provider, opts...).Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(qz.Questions) < req.Count {
		fmt.Fprintf(status, "Only %d of %d questions could be generated.\n", len(qz.Questions), req.Count)
	}
	return qz, nil
}

// takeQuiz runs the interactive quiz and records a finished attempt for the
// current user. provider may be nil.
func takeQuiz(ctx context.Context, w io.Writer, st *store.Store, provider llm.Provider, qz *quiz.Quiz, subject string) error {
	ws, err := openWorkspace(ctx, st)
	if err != nil {
		return err
	}
	attempt, err := session.Start(qz, time.Now())
	if err != nil {
		return err
	}

	var judge quiz.Judge
	if provider != nil {
		judge = quiz.NewLLMJudge(provider)
	}
	rec, err := app.Run(ctx, app.Options{Attempt: attempt, Grader: quiz.NewGrader(judge)})
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Fprintln(w, "Quiz abandoned; nothing was recorded.")
		return nil
	}

	if err := ws.RecordQuiz(ctx, rec, subject); err != nil {
		return fmt.Errorf("record quiz: %w", err)
	}
	printRecord(w, rec)
	return nil
}

func printQuiz(w io.Writer, qz *quiz.Quiz) {
	heading(w, qz.Title)
	for i, q := range qz.Questions {
		styled(w, theme.Body.Bold(true), "%d. %s", i+1, q.Text)
		switch q.Kind {
		case quiz.KindMultipleChoice:
			for j, opt := range q.Options {
				fmt.Fprintf(w, "   %s) %s\n", components.Label(j), opt)
			}
		case quiz.KindTrueFalse:
			fmt.Fprintln(w, "   True / False")
		}
		fmt.Fprintln(w)
	}
	styled(w, theme.Hint, "Save with --out and run 'studyaid quiz take <file>' to answer it.")
}

func printRecord(w io.Writer, rec *quiz.QuizSessionRecord) {
	heading(w, rec.Title)
	fmt.Fprintf(w, "Score: %s  (%d/%d correct in %s)\n", scoreLabel(rec.Score), rec.CorrectAnswers, rec.TotalQuestions, rec.TimeTakenLabel())
	fmt.Fprintln(w, quiz.Feedback(rec.Score).Message)
	fmt.Fprintf(w, "Saved as %s\n", shortID(rec.ID))
}

func init() {
	quizGenerateCmd.Flags().StringP("content-file", "f", "-", "File with the study material (- for stdin)")
	quizGenerateCmd.Flags().StringP("type", "t", string(quiz.KindMultipleChoice), "Question type: multiple_choice, true_false, short_answer or mixed")
	quizGenerateCmd.Flags().IntP("count", "n", 5, "Number of questions")
	quizGenerateCmd.Flags().StringP("difficulty", "d", "Medium", "Difficulty: Easy, Medium or Hard")
	quizGenerateCmd.Flags().StringP("out", "o", "", "Save the generated quiz as JSON")
	quizGenerateCmd.Flags().Bool("take", false, "Take the quiz right away")

	quizHistoryCmd.Flags().String("difficulty", "", "Only show this difficulty")
	quizHistoryCmd.Flags().String("type", "", "Only show this question type")
	quizHistoryCmd.Flags().String("sort", "newest", "Order: newest, oldest, highest or lowest")

	for _, c := range []*cobra.Command{quizGenerateCmd, quizTakeCmd, quizRetakeCmd} {
		c.Flags().StringP("subject", "s", "", "Subject the result is filed under")
	}

	quizCmd.AddCommand(quizGenerateCmd)
	quizCmd.AddCommand(quizTakeCmd)
	quizCmd.AddCommand(quizHistoryCmd)
	quizCmd.AddCommand(quizRetakeCmd)
}
