package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/flashcards"
	"github.com/abhisek/studyaid/internal/review"
	"github.com/abhisek/studyaid/internal/ui/theme"
	"github.com/abhisek/studyaid/internal/workspace"
)

var flashcardsCmd = &cobra.Command{
	Use:     "flashcards",
	Aliases: []string{"cards"},
	Short:   "Generate and manage flashcards",
}

var flashcardsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate flashcards from study material",
	Long: `Generates flashcards from --content-file, or with --from-notes from
your saved notes. --note and --note-category narrow which notes are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("content-file")
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		category, _ := cmd.Flags().GetString("category")
		save, _ := cmd.Flags().GetBool("save")
		fromNotes, _ := cmd.Flags().GetBool("from-notes")
		noteTitle, _ := cmd.Flags().GetString("note")
		noteCategory, _ := cmd.Flags().GetString("note-category")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var ws *workspace.Workspace
		var content string
		if fromNotes {
			if ws, err = openWorkspace(ctx, st); err != nil {
				return err
			}
			text, n, err := ws.NoteMaterial(noteTitle, noteCategory)
			if err != nil {
				return err
			}
			log.Debug().Int("notes", n).Msg("flashcards from saved notes")
			content = text
		} else {
			if content, err = readInput(path); err != nil {
				return err
			}
		}

		provider, err := newProvider(ctx, st)
		if err != nil {
			return err
		}
		cards, err := flashcards.NewGenerator(provider).Generate(ctx, content, count, difficulty)
		if err != nil {
			return err
		}
		if category != "" {
			for i := range cards {
				cards[i].Category = category
			}
		}

		printCards(cmd, cards)
		if !save {
			return nil
		}
		if ws == nil {
			if ws, err = openWorkspace(ctx, st); err != nil {
				return err
			}
		}
		if err := ws.AddFlashcards(ctx, cards...); err != nil {
			return err
		}
		styled(cmd.ErrOrStderr(), theme.Correct, "Saved %d flashcards.", len(cards))
		return nil
	},
}

var flashcardsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a flashcard by hand",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		front, _ := cmd.Flags().GetString("front")
		back, _ := cmd.Flags().GetString("back")
		category, _ := cmd.Flags().GetString("category")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		card, err := flashcards.NewCard(front, back, category, difficulty, time.Now())
		if err != nil {
			return err
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
		if err := ws.AddFlashcards(ctx, card); err != nil {
			return err
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Added flashcard %s.", cardRef(card.ID))
		return nil
	},
}

var flashcardsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a flashcard",
	Long:  "Deletes the flashcard with the given ID. Any unique ID prefix shown by list is accepted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}
		card, err := ws.DeleteFlashcard(ctx, args[0])
		if err != nil {
			return err
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Deleted %q.", truncate(card.Front, 50))
		return nil
	},
}

var flashcardsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every flashcard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		yes, _ := cmd.Flags().GetBool("yes")

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
		if len(ws.Flashcards) == 0 {
			fmt.Fprintln(w, "No flashcards found.")
			return nil
		}
		if !yes {
			fmt.Fprintf(w, "Delete all %d flashcards? [y/N]: ", len(ws.Flashcards))
			line, err := readLine(inputReader(cmd))
			if err != nil && !errors.Is(err, errNoInput) {
				return err
			}
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(w, "Nothing deleted.")
				return nil
			}
		}
		n, err := ws.ClearFlashcards(ctx)
		if err != nil {
			return err
		}
		styled(w, theme.Correct, "Deleted %d flashcards.", n)
		return nil
	},
}

var flashcardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved flashcards",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, _ := cmd.Flags().GetString("category")
		out, _ := cmd.Flags().GetString("out")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}

		cards := filterCards(ws.Flashcards, category)

		if out != "" {
			data, err := flashcards.EncodeDeck(cards, time.Now())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write deck: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d flashcards to %s\n", len(cards), out)
			return nil
		}
		if len(cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No flashcards found.")
			return nil
		}
		printCards(cmd, cards)
		return nil
	},
}

var flashcardsStudyCmd = &cobra.Command{
	Use:   "study",
	Short: "Review the flashcards that are due",
	Long: `Shows each due card, then its answer, and asks whether you knew it.
Cards you knew come back after a growing interval; cards you missed come
back the next day. Cards never studied follow the due ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, _ := cmd.Flags().GetString("category")
		limit, _ := cmd.Flags().GetInt("limit")

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
		deck := filterCards(ws.Flashcards, category)
		if len(deck) == 0 {
			fmt.Fprintln(w, "No flashcards found.")
			return nil
		}

		history, err := ws.ReviewHistory(ctx)
		if err != nil {
			return err
		}
		sched := review.NewScheduler(history)
		now := time.Now()
		queue := sched.Queue(deck, now, limit)
		if len(queue) == 0 {
			fmt.Fprintf(w, "Nothing is due. Next review on %s.\n", sched.NextDue(deck).Local().Format("2006-01-02"))
			return nil
		}

		rec := &review.StudyRecord{Category: category, Started: now}
		in := inputReader(cmd)
		for i, c := range queue {
			known, err := reviewCard(w, in, c, fmt.Sprintf("Card %d of %d  ·  %s", i+1, len(queue), sched.StatusOf(c.ID, now)))
			if errors.Is(err, errStopStudy) || errors.Is(err, errNoInput) {
				break
			}
			if err != nil {
				return err
			}
			res := review.Result{CardID: c.ID, Correct: known, At: time.Now()}
			sched.Record(res)
			rec.Results = append(rec.Results, res)
		}
		rec.Finished = time.Now()

		if len(rec.Results) == 0 {
			fmt.Fprintln(w, "Nothing was recorded.")
			return nil
		}
		if err := ws.RecordStudy(ctx, rec); err != nil {
			return fmt.Errorf("record study: %w", err)
		}
		styled(w, theme.Band(rec.Score()), "Knew %d of %d cards.", rec.Known(), len(rec.Results))
		if next := sched.NextDue(deck); !next.IsZero() {
			fmt.Fprintf(w, "Next review on %s.\n", next.Local().Format("2006-01-02"))
		}
		return nil
	},
}

var errStopStudy = errors.New("study stopped")

// reviewCard shows the front of c, waits for Enter, shows the back and
// asks whether the card was known. "q" stops the run.
func reviewCard(w io.Writer, in *bufio.Reader, c flashcards.Card, title string) (bool, error) {
	heading(w, title)
	styled(w, theme.Body.Bold(true), "%s", c.Front)
	fmt.Fprint(w, theme.Hint.Render("Enter to reveal, q to stop: "))
	line, err := readLine(in)
	if err != nil {
		return false, err
	}
	if strings.EqualFold(strings.TrimSpace(line), "q") {
		return false, errStopStudy
	}
	fmt.Fprintln(w, c.Back)

	for {
		fmt.Fprint(w, theme.Hint.Render("Did you know it? [y/n/q]: "))
		line, err := readLine(in)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			fmt.Fprintln(w)
			return true, nil
		case "n", "no":
			fmt.Fprintln(w)
			return false, nil
		case "q":
			return false, errStopStudy
		}
	}
}

func filterCards(cards []flashcards.Card, category string) []flashcards.Card {
	var out []flashcards.Card
	for _, c := range cards {
		if category == "" || strings.EqualFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}

func printCards(cmd *cobra.Command, cards []flashcards.Card) {
	w := cmd.OutOrStdout()
	heading(w, fmt.Sprintf("Flashcards (%d)", len(cards)))
	for i, c := range cards {
		styled(w, theme.Body.Bold(true), "%d. %s", i+1, c.Front)
		fmt.Fprintf(w, "   %s\n", c.Back)
		styled(w, theme.Subtitle, "   %s  ·  %s  ·  %s", c.Category, c.Difficulty, cardRef(c.ID))
		fmt.Fprintln(w)
	}
}

// cardRef is the short form of a card ID accepted by delete.
func cardRef(id string) string {
	return shortID(strings.TrimPrefix(id, "card_"))
}

func init() {
	flashcardsGenerateCmd.Flags().StringP("content-file", "f", "-", "File with the study material (- for stdin)")
	flashcardsGenerateCmd.Flags().IntP("count", "n", flashcards.DefaultCount, "Number of cards")
	flashcardsGenerateCmd.Flags().StringP("difficulty", "d", "Medium", "Difficulty: Easy, Medium or Hard")
	flashcardsGenerateCmd.Flags().StringP("category", "c", "", "Override the category of every card")
	flashcardsGenerateCmd.Flags().Bool("save", false, "Save the cards to your library")
	flashcardsGenerateCmd.Flags().Bool("from-notes", false, "Use your saved notes as the material")
	flashcardsGenerateCmd.Flags().String("note", "", "With --from-notes, only the note with this title")
	flashcardsGenerateCmd.Flags().String("note-category", "", "With --from-notes, only notes in this category")

	flashcardsAddCmd.Flags().String("front", "", "Question side")
	flashcardsAddCmd.Flags().String("back", "", "Answer side")
	flashcardsAddCmd.Flags().StringP("category", "c", flashcards.DefaultCategory, "Category")
	flashcardsAddCmd.Flags().StringP("difficulty", "d", "Medium", "Difficulty: Easy, Medium or Hard")
	_ = flashcardsAddCmd.MarkFlagRequired("front")
	_ = flashcardsAddCmd.MarkFlagRequired("back")

	flashcardsClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	flashcardsListCmd.Flags().StringP("category", "c", "", "Only list this category")
	flashcardsListCmd.Flags().StringP("out", "o", "", "Write the cards to a deck file instead")

	flashcardsStudyCmd.Flags().StringP("category", "c", "", "Only study this category")
	flashcardsStudyCmd.Flags().IntP("limit", "n", 20, "Most cards to review (0 for all due)")

	flashcardsCmd.AddCommand(flashcardsGenerateCmd)
	flashcardsCmd.AddCommand(flashcardsAddCmd)
	flashcardsCmd.AddCommand(flashcardsDeleteCmd)
	flashcardsCmd.AddCommand(flashcardsClearCmd)
	flashcardsCmd.AddCommand(flashcardsListCmd)
	flashcardsCmd.AddCommand(flashcardsStudyCmd)
}
