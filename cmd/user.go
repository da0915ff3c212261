package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyaid/internal/account"
	"github.com/abhisek/studyaid/internal/ui/theme"
	"github.com/abhisek/studyaid/internal/workspace"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register [username]",
	Short: "Create an account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, err := usernameArg(args)
		if err != nil {
			return err
		}
		password, err := passwordFlag(cmd, "password", "Password: ")
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		u, err := newAccountService(st).Register(ctx, name, password)
		if err != nil {
			return describeAccountErr(err, name)
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Created account %s.", u.Username)
		return nil
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Check a password and show the account's data",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, err := usernameArg(args)
		if err != nil {
			return err
		}
		password, err := passwordFlag(cmd, "password", "Password: ")
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		u, err := newAccountService(st).Authenticate(ctx, name, password)
		if err != nil {
			return describeAccountErr(err, name)
		}
		ws, err := workspace.Load(ctx, st.LibraryRepo(), st.ActivityRepo(), u.Username)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		sum := ws.Summary()
		heading(w, "Welcome back, "+u.Username)
		fmt.Fprintf(w, "Notes:       %d\n", sum.Notes)
		fmt.Fprintf(w, "Flashcards:  %d\n", sum.Flashcards)
		fmt.Fprintf(w, "Sessions:    %d\n", sum.Sessions)
		fmt.Fprintf(w, "Events:      %d\n", sum.Events)
		if len(sum.Subjects) > 0 {
			fmt.Fprintf(w, "Subjects:    %s\n", strings.Join(sum.Subjects, ", "))
		}
		styled(w, theme.Hint, "Pass --user %s (or set STUDYAID_USER) to work as this account.", u.Username)
		return nil
	},
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd [username]",
	Short: "Change a password",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, err := usernameArg(args)
		if err != nil {
			return err
		}
		current, err := passwordFlag(cmd, "password", "Current password: ")
		if err != nil {
			return err
		}
		next, err := passwordFlag(cmd, "new-password", "New password: ")
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := newAccountService(st).ChangePassword(ctx, name, current, next); err != nil {
			return describeAccountErr(err, name)
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Password changed.")
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [username]",
	Short: "Delete an account and all of its data",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, err := usernameArg(args)
		if err != nil {
			return err
		}
		password, err := passwordFlag(cmd, "password", "Password: ")
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := newAccountService(st).Delete(ctx, name, password); err != nil {
			return describeAccountErr(err, name)
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Deleted account %s.", account.NormalizeUsername(name))
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		users, err := st.UserRepo().ListUsers(cmd.Context())
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(w, "No accounts yet.")
			return nil
		}
		for _, u := range users {
			fmt.Fprintf(w, "%-24s  created %s\n", u.Username, u.CreatedAt.Local().Format("2006-01-02"))
		}
		return nil
	},
}

var userAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative account operations (require the admin key)",
}

var userAdminResetCmd = &cobra.Command{
	Use:   "reset <username>",
	Short: "Set a new password for any account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		key, _ := cmd.Flags().GetString("key")
		password, err := passwordFlag(cmd, "new-password", "New password: ")
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := newAccountService(st).ResetPassword(ctx, key, args[0], password); err != nil {
			return describeAccountErr(err, args[0])
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Password reset for %s.", account.NormalizeUsername(args[0]))
		return nil
	},
}

var userAdminDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete any account and its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		key, _ := cmd.Flags().GetString("key")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := newAccountService(st).DeleteAccount(ctx, key, args[0]); err != nil {
			return describeAccountErr(err, args[0])
		}
		styled(cmd.OutOrStdout(), theme.Correct, "Deleted account %s.", account.NormalizeUsername(args[0]))
		return nil
	},
}

// usernameArg takes the username from args, falling back to --user.
func usernameArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return currentUser()
}

// stdin is shared so consecutive prompts do not lose buffered lines.
var stdin *bufio.Reader

func inputReader(cmd *cobra.Command) *bufio.Reader {
	if stdin == nil {
		stdin = bufio.NewReader(cmd.InOrStdin())
	}
	return stdin
}

// passwordFlag returns the named flag, or reads one line from stdin after
// printing prompt to stderr.
func passwordFlag(cmd *cobra.Command, flag, prompt string) (string, error) {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := readLine(inputReader(cmd))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

var errNoInput = errors.New("no input")

// readLine returns the next line without its terminator. A final line
// without a newline is returned as is.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func describeAccountErr(err error, name string) error {
	name = account.NormalizeUsername(name)
	switch {
	case errors.Is(err, account.ErrUserExists):
		return fmt.Errorf("account %s already exists", name)
	case errors.Is(err, account.ErrUserNotFound):
		return fmt.Errorf("account %s does not exist", name)
	case errors.Is(err, account.ErrBadPassword):
		return errors.New("wrong password")
	case errors.Is(err, account.ErrNotAdmin):
		return errors.New("admin key missing or wrong")
	case errors.Is(err, account.ErrInvalidInput):
		return errors.New("username and password are required")
	}
	return err
}

func init() {
	for _, c := range []*cobra.Command{userRegisterCmd, userLoginCmd, userPasswdCmd, userDeleteCmd} {
		c.Flags().StringP("password", "p", "", "Password (read from stdin when omitted)")
	}
	userPasswdCmd.Flags().String("new-password", "", "New password (read from stdin when omitted)")
	userAdminResetCmd.Flags().String("new-password", "", "New password (read from stdin when omitted)")
	for _, c := range []*cobra.Command{userAdminResetCmd, userAdminDeleteCmd} {
		c.Flags().String("key", "", "Admin key")
	}

	userAdminCmd.AddCommand(userAdminResetCmd)
	userAdminCmd.AddCommand(userAdminDeleteCmd)

	userCmd.AddCommand(userRegisterCmd)
	userCmd.AddCommand(userLoginCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userAdminCmd)
}
