package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/progress"
	"github.com/abhisek/studyaid/internal/ui/components"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show study statistics and recommendations",
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

		w := cmd.OutOrStdout()
		now := time.Now()
		acts := ws.Activity

		title := "All subjects"
		if subject != "" {
			title = subject
		}
		stats := progress.SubjectStats(acts, subject)
		heading(w, "Progress: "+title)
		fmt.Fprintf(w, "Sessions:        %d (%d quizzes)\n", stats.TotalSessions, stats.QuizSessions)
		fmt.Fprintf(w, "Study time:      %d min\n", stats.TotalStudyMinutes)
		fmt.Fprintf(w, "Average score:   %s\n", scoreLabel(stats.AverageScore))
		fmt.Fprintf(w, "Accuracy:        %.1f%% of %d questions\n", stats.Accuracy, stats.TotalQuestions)
		fmt.Fprintf(w, "Trend:           %s\n", stats.Trend)
		fmt.Fprintf(w, "Notes created:   %d\n", stats.NotesCreated)
		fmt.Fprintf(w, "Cards studied:   %d\n", stats.FlashcardsStudied)

		if pts := progress.ScoreSeries(acts, 10); len(pts) > 0 {
			fmt.Fprintln(w)
			heading(w, "Recent scores")
			for _, p := range pts {
				bar := components.NewScoreBar(p.Score, 30).WithScore()
				fmt.Fprintf(w, "%s  %s\n", p.At.Local().Format("01-02 15:04"), bar.View())
			}
		}

		week := progress.WeeklySummary(acts, now)
		fmt.Fprintln(w)
		heading(w, "This week")
		fmt.Fprintf(w, "%s: %d sessions, %d min\n", week.Period, week.TotalSessions, week.TotalStudyMinutes)
		subjects := make([]string, 0, len(week.Subjects))
		for s := range week.Subjects {
			subjects = append(subjects, s)
		}
		slices.Sort(subjects)
		for _, s := range subjects {
			ss := week.Subjects[s]
			fmt.Fprintf(w, "  %-20s %d sessions  %d min  avg %s\n", truncate(s, 20), ss.TotalSessions, ss.TotalStudyMinutes, scoreLabel(ss.AverageScore))
		}

		analysis := progress.StrengthsAndWeaknesses(acts)
		if len(analysis.Strengths) > 0 || len(analysis.NeedsImprovement) > 0 {
			fmt.Fprintln(w)
			if len(analysis.Strengths) > 0 {
				styled(w, theme.Correct, "Strengths: %s", strings.Join(analysis.Strengths, ", "))
			}
			if len(analysis.NeedsImprovement) > 0 {
				styled(w, theme.Incorrect, "Needs work: %s", strings.Join(analysis.NeedsImprovement, ", "))
			}
		}

		recs := append(analysis.Recommendations, progress.Recommendations(acts, now)...)
		if len(recs) > 0 {
			fmt.Fprintln(w)
			heading(w, "Recommendations")
			for _, r := range recs {
				fmt.Fprintf(w, "• %s\n", r)
			}
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().StringP("subject", "s", "", "Only count this subject")
}
