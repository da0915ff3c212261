package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/ui/theme"
	"github.com/abhisek/studyaid/internal/workspace"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Back up and restore your study data",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all of your data to a JSON or YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, _ := cmd.Flags().GetString("out")
		formatFlag, _ := cmd.Flags().GetString("format")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}

		now := time.Now()
		format := workspace.Format(formatFlag)
		switch {
		case out == "":
			if format == "" {
				format = workspace.FormatJSON
			}
			out = workspace.BackupFilename(now, format)
		case format == "":
			format = workspace.FormatForPath(out)
		}

		doc, err := ws.Export(ctx, now)
		if err != nil {
			return err
		}
		data, err := workspace.Encode(doc, format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Exported %d notes, %d flashcards, %d sessions and %d events to %s.",
			len(doc.Notes), len(doc.Flashcards), len(doc.StudySessions), len(doc.Events), out)
		return nil
	},
}

var dataImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace your data with a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup: %w", err)
		}
		doc, err := workspace.Decode(data, workspace.FormatForPath(args[0]))
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
		if err := ws.Import(ctx, doc); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		sum := ws.Summary()
		styled(cmd.OutOrStdout(), theme.Correct, "Imported %d notes, %d flashcards, %d sessions and %d events.",
			sum.Notes, sum.Flashcards, sum.Sessions, sum.Events)
		return nil
	},
}

func init() {
	dataExportCmd.Flags().StringP("out", "o", "", "Output file (default study_platform_backup_<date>.<format>)")
	dataExportCmd.Flags().String("format", "", "json or yaml (default from the file extension)")

	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
}
