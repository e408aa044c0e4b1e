package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type adminInput struct {
	Email string `validate:"required,email"`
}

var errNoTerminal = errors.New("stdin is not a terminal; use --password-stdin")

// readPasswordLine reads the first line of r, without the line terminator.
func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword reads a password from the controlling terminal without echo.
func promptPassword(w io.Writer, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}
	fmt.Fprint(w, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func newCreateAdminCmd() *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if details := httpx.ValidateStruct(adminInput{Email: email}); len(details) > 0 {
				return fmt.Errorf("invalid %s: %s", details[0].Field, details[0].Message)
			}

			var (
				password string
				err      error
			)
			if passwordStdin {
				password, err = readPasswordLine(cmd.InOrStdin())
			} else {
				password, err = promptPassword(cmd.ErrOrStderr(), "Password: ")
			}
			if err != nil {
				return err
			}
			if err := crypto.ValidatePassword(password); err != nil {
				return err
			}
			hash, err := crypto.HashPassword(password)
			if err != nil {
				return err
			}

			return withPool(cmd.Context(), func(pool *pgxpool.Pool, cfg config.DBConfig) error {
				users := user.NewService(user.NewPostgresRepo(pool, cfg.Timeout))
				u, err := users.CreateAdmin(cmd.Context(), email, hash)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", u.Email, u.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
