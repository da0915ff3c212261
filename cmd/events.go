package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/ui/theme"
	"github.com/abhisek/studyaid/internal/workspace"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Track exams and deadlines",
}

var eventsAddCmd = &cobra.Command{
	Use:   "add <name> <YYYY-MM-DD>",
	Short: "Add a calendar event",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		notes, _ := cmd.Flags().GetString("notes")
		color, _ := cmd.Flags().GetString("color")

		ev, err := workspace.NewEvent(args[0], args[1], notes, color, time.Now())
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
		ws.Events = append(ws.Events, ev)
		if err := ws.Save(ctx); err != nil {
			return fmt.Errorf("save event: %w", err)
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Added %q on %s.", ev.Name, ev.Date)
		return nil
	},
}

var eventsUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "List the next events",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
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
		upcoming := workspace.UpcomingEvents(ws.Events, time.Now(), limit)
		if len(upcoming) == 0 {
			fmt.Fprintln(w, "No upcoming events.")
			return nil
		}
		heading(w, "Upcoming")
		for _, u := range upcoming {
			when := fmt.Sprintf("in %d days", u.DaysUntil)
			switch u.DaysUntil {
			case 0:
				when = "today"
			case 1:
				when = "tomorrow"
			}
			fmt.Fprintf(w, "%s  %-30s  %s\n", u.Date, truncate(u.Name, 30), theme.Label.Render(when))
			if u.Notes != "" {
				styled(w, theme.Subtitle, "            %s", u.Notes)
			}
		}
		return nil
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a calendar event",
	Long:  "Deletes the event with the given name. Use --date when several events share it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		date, _ := cmd.Flags().GetString("date")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ws, err := openWorkspace(ctx, st)
		if err != nil {
			return err
		}
		ev, err := ws.DeleteEvent(ctx, args[0], date)
		if err != nil {
			return err
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Deleted %q on %s.", ev.Name, ev.Date)
		return nil
	},
}

func init() {
	eventsAddCmd.Flags().String("notes", "", "Notes for the event")
	eventsAddCmd.Flags().String("color", workspace.DefaultEventColor, "Display color")
	eventsUpcomingCmd.Flags().IntP("limit", "n", 5, "Number of events to show (0 for all)")

	eventsCmd.AddCommand(eventsAddCmd)
	eventsDeleteCmd.Flags().String("date", "", "Date of the event to delete (YYYY-MM-DD)")

	eventsCmd.AddCommand(eventsUpcomingCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
}
