package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/notes"
	"github.com/abhisek/studyaid/internal/ui/theme"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Write and manage study notes",
}

var notesGenerateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate study notes for a topic or a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("input-file")
		noteType, _ := cmd.Flags().GetString("type")
		detail, _ := cmd.Flags().GetString("detail")
		save, _ := cmd.Flags().GetBool("save")
		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")

		var input string
		switch {
		case len(args) == 1:
			input = args[0]
		case path != "":
			text, err := readInput(path)
			if err != nil {
				return err
			}
			input = text
		default:
			return fmt.Errorf("give a topic or --input-file")
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
		text, err := notes.NewGenerator(provider).Generate(ctx, input, noteType, detail)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, text)
		if !save {
			return nil
		}

		if title == "" {
			title = notes.Preview(strings.TrimSpace(input), 60)
		}
		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}
		if err := ws.AddNote(ctx, notes.Note{
			Title:    title,
			Content:  text,
			Category: category,
			NoteType: noteType,
			Created:  time.Now(),
		}); err != nil {
			return err
		}
		styled(cmd.ErrOrStderr(), theme.Correct, "Saved note %q in %s.", strings.TrimSpace(title), category)
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Save a note you wrote",
	Long: `Saves freeform notes from the argument or --input-file. With --summarize
the text is condensed by the model first; if that fails the original text
is saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path, _ := cmd.Flags().GetString("input-file")
		title, _ := cmd.Flags().GetString("title")
		category, _ := cmd.Flags().GetString("category")
		summarize, _ := cmd.Flags().GetBool("summarize")

		var text string
		switch {
		case len(args) == 1:
			text = args[0]
		case path != "":
			t, err := readInput(path)
			if err != nil {
				return err
			}
			text = t
		default:
			return fmt.Errorf("give the note text or --input-file")
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("the note is empty")
		}
		if strings.TrimSpace(title) == "" {
			title = notes.UntitledNote
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		noteType := ""
		if summarize {
			provider, err := newProvider(ctx, st)
			if err != nil {
				return err
			}
			summary, err := notes.NewGenerator(provider).Generate(ctx, text, notes.TypeSummary, notes.DetailIntermediate)
			if err != nil {
				log.Warn().Err(err).Msg("note summary failed, saving the original text")
				styled(cmd.ErrOrStderr(), theme.Incorrect, "Summarizing failed: %v", err)
			} else {
				text, noteType = summary, notes.TypeSummary
			}
		}

		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}
		if err := ws.AddNote(ctx, notes.Note{
			Title:    title,
			Content:  text,
			Category: category,
			NoteType: noteType,
			Created:  time.Now(),
		}); err != nil {
			return err
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Saved note %q in %s.", strings.TrimSpace(title), category)
		return nil
	},
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		category, _ := cmd.Flags().GetString("category")

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
		var shown int
		for i, n := range ws.Notes {
			if category != "" && !strings.EqualFold(n.Category, category) {
				continue
			}
			if shown == 0 {
				heading(w, "Notes")
			}
			shown++
			styled(w, theme.Body.Bold(true), "%d. %s", i+1, n.Title)
			styled(w, theme.Subtitle, "   %s  ·  %s  ·  %d words", n.Category, n.Created.Local().Format("2006-01-02"), notes.WordCount(n.Content))
			fmt.Fprintf(w, "   %s\n\n", strings.ReplaceAll(notes.Preview(n.Content, 120), "\n", " "))
		}
		if shown == 0 {
			fmt.Fprintln(w, "No notes found.")
		}
		return nil
	},
}

var notesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes as plain text",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
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
		text := notes.ExportText(ws.Notes, time.Now())
		if out == "" {
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}
		if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write notes: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d notes to %s\n", len(ws.Notes), out)
		return nil
	},
}

func init() {
	notesGenerateCmd.Flags().StringP("input-file", "f", "", "Generate from this file's text (- for stdin)")
	notesGenerateCmd.Flags().StringP("type", "t", notes.TypeSummary, "Note type: "+strings.Join(notes.NoteTypes, ", "))
	notesGenerateCmd.Flags().String("detail", notes.DetailIntermediate, "Detail level: Basic, Intermediate or Advanced")
	notesGenerateCmd.Flags().Bool("save", false, "Save the notes to your library")
	notesGenerateCmd.Flags().String("title", "", "Title for the saved note")
	notesGenerateCmd.Flags().StringP("category", "c", notes.DefaultCategory, "Category for the saved note")

	notesAddCmd.Flags().StringP("input-file", "f", "", "Read the note from this file (- for stdin)")
	notesAddCmd.Flags().String("title", notes.UntitledNote, "Note title")
	notesAddCmd.Flags().StringP("category", "c", notes.DefaultCategory, "Note category")
	notesAddCmd.Flags().Bool("summarize", false, "Summarize the text with the model before saving")

	notesListCmd.Flags().StringP("category", "c", "", "Only list this category")
	notesExportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")

	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesGenerateCmd)
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesExportCmd)
}
