package cmd

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/quiz"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

var gradeTextCmd = &cobra.Command{
	Use:   "grade-text",
	Short: "Grade an essay or report out of 10",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("file")
		textType, _ := cmd.Flags().GetString("type")
		notes, _ := cmd.Flags().GetString("notes")

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
		fb, err := quiz.NewEssayGrader(provider).Grade(ctx, content, textType, notes)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		heading(w, fmt.Sprintf("Score: %.1f / 10", fb.Score))
		printList(w, theme.Correct, "Strengths", fb.Strengths)
		printList(w, theme.Incorrect, "Weaknesses", fb.Weaknesses)
		printList(w, theme.Label, "Suggestions", fb.Suggestions)
		if fb.DetailedFeedback != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, fb.DetailedFeedback)
		}
		return nil
	},
}

func printList(w io.Writer, style lipgloss.Style, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, style.Render(title))
	for _, it := range items {
		fmt.Fprintf(w, "  • %s\n", it)
	}
}

func init() {
	gradeTextCmd.Flags().StringP("file", "f", "-", "File with the text to grade (- for stdin)")
	gradeTextCmd.Flags().StringP("type", "t", "essay", "Kind of text, such as essay or report")
	gradeTextCmd.Flags().String("notes", "", "Extra grading instructions")
}
