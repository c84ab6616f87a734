package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pavelanni/wordgen/internal/cli"
	"github.com/pavelanni/wordgen/internal/client"
	"github.com/pavelanni/wordgen/internal/history"
	"github.com/pavelanni/wordgen/internal/i18n"
	"github.com/pavelanni/wordgen/internal/model"
	"github.com/pavelanni/wordgen/internal/quiz"
	"github.com/pavelanni/wordgen/internal/session"
)

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wordgen-session.db"
	}
	return filepath.Join(home, ".config", "wordgen", "session.db")
}

func addClientFlags(f *pflag.FlagSet) {
	f.String("api-url", client.DefaultBaseURL, "Backend base URL")
	f.String("session-db", defaultSessionPath(), "Where the access token is kept")
	f.StringP("lang", "l", i18n.DefaultLanguage, "Output language (en, ru)")
	addLogFlags(f)
}

// app is what every client command works with.
type app struct {
	api     *client.Client
	session *session.SQLiteStore
	tr      *i18n.Translator
	in      *bufio.Reader
	out     io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	tr, err := i18n.New(v.GetString("lang"))
	if err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}

	sess, err := session.OpenSQLite(v.GetString("session-db"))
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	return &app{
		api:     client.New(v.GetString("api-url"), sess),
		session: sess,
		tr:      tr,
		in:      bufio.NewReader(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
	}, nil
}

func (a *app) Close() error {
	return a.session.Close()
}

// explain adds a hint for errors the user can act on.
func (a *app) explain(err error) error {
	if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrNotLoggedIn) {
		fmt.Fprintln(a.out, a.tr.T("SessionExpired"))
	}
	return err
}

// clientCommand builds a client subcommand whose body runs with an app.
func clientCommand(use, short string, run func(ctx context.Context, a *app, cmd *cobra.Command) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.explain(run(cmd.Context(), a, cmd))
		},
	}
	addClientFlags(cmd.Flags())
	return cmd
}

func signupCmd() *cobra.Command {
	cmd := clientCommand("signup", "Create an account", func(ctx context.Context, a *app, cmd *cobra.Command) error {
		email, _ := cmd.Flags().GetString("email")
		jobTitle, _ := cmd.Flags().GetString("job-title")

		var err error
		if email == "" {
			if email, err = cli.GetSimpleText(a.in, a.tr.T("EmailPrompt"), a.out); err != nil {
				return err
			}
		}
		if jobTitle == "" {
			if jobTitle, err = cli.GetSimpleText(a.in, a.tr.T("JobTitlePrompt"), a.out); err != nil {
				return err
			}
		}
		password, err := cli.GetPassword(a.in, a.tr.T("PasswordPrompt"), a.out)
		if err != nil {
			return err
		}

		msg, err := a.api.Signup(ctx, model.SignupRequest{Email: email, Password: password, JobTitle: jobTitle})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, msg)
		return nil
	})
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("job-title", "", "Your job title; vocabulary is tailored to it")
	return cmd
}

func loginCmd() *cobra.Command {
	cmd := clientCommand("login", "Log in and remember the access token", func(ctx context.Context, a *app, cmd *cobra.Command) error {
		email, _ := cmd.Flags().GetString("email")

		var err error
		if email == "" {
			if email, err = cli.GetSimpleText(a.in, a.tr.T("EmailPrompt"), a.out); err != nil {
				return err
			}
		}
		password, err := cli.GetPassword(a.in, a.tr.T("PasswordPrompt"), a.out)
		if err != nil {
			return err
		}

		if err := a.api.Login(ctx, model.LoginRequest{Email: email, Password: password}); err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.tr.Td("LoggedIn", map[string]any{"Email": email}))
		return nil
	})
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return clientCommand("logout", "Forget the stored access token", func(ctx context.Context, a *app, _ *cobra.Command) error {
		if err := a.api.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.tr.T("LoggedOut"))
		return nil
	})
}

func generateCmd() *cobra.Command {
	return clientCommand("generate", "Generate today's vocabulary (once per day)", func(ctx context.Context, a *app, _ *cobra.Command) error {
		items, err := a.api.Generate(ctx)
		if err != nil {
			return err
		}
		cli.RenderItems(a.out, a.tr, items)
		return nil
	})
}

func todayCmd() *cobra.Command {
	return clientCommand("today", "Show vocabulary generated today", func(ctx context.Context, a *app, _ *cobra.Command) error {
		items, err := a.api.Today(ctx)
		if err != nil {
			return err
		}
		cli.RenderItems(a.out, a.tr, items)
		return nil
	})
}

func historyCmd() *cobra.Command {
	return clientCommand("history", "List past generations grouped by age", func(ctx context.Context, a *app, _ *cobra.Command) error {
		entries, err := a.api.History(ctx)
		if err != nil {
			return err
		}
		now := time.Now()
		slog.Debug("loaded history", "entries", len(entries))
		cli.RenderHistory(a.out, a.tr, history.GroupEntries(entries, now), now)
		return nil
	})
}

func quizCmd() *cobra.Command {
	return clientCommand("quiz", "Take a quiz on today's vocabulary", func(ctx context.Context, a *app, _ *cobra.Command) error {
		questions, err := a.api.Quiz(ctx)
		if err != nil {
			return err
		}
		return cli.NewQuizRunner(quiz.New(questions), a.in, a.out, a.tr).Run()
	})
}
