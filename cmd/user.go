package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/SShoshia/book-giveaway/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	userName  string
	userEmail string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user account",
	Long:  "Create a user account. The password is prompted for on a terminal and read from the first line of stdin otherwise.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		password, err := readPassword(cmd.ErrOrStderr(), cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		identity := services.NewIdentityService(db, cfg.BcryptCost)
		user, err := identity.Register(cmd.Context(), userName, userEmail, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (ID: %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userName, "username", "", "username of the new account")
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email of the new account")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userAddCmd)
}

// readPassword reads a masked password from a terminal, or one line from in
func readPassword(prompt io.Writer, in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && f == os.Stdin && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(prompt, "Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytePassword)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
