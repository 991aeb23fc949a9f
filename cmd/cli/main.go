// Command evote is a CLI client for the evote election API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/evote/internal/api"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app carries global flags into subcommands.
type app struct {
	server  string
	timeout time.Duration
	hc      *http.Client
}

func (a *app) client(authed bool) (*client, error) {
	c := newClient(a.server, a.hc)
	if authed {
		tf, err := loadToken()
		if err != nil {
			return nil, err
		}
		c.token = tf.AccessToken
	}
	return c, nil
}

// call runs fn with a client and a context bounded by --timeout.
func (a *app) call(cmd *cobra.Command, authed bool, fn func(ctx context.Context, c *client) error) error {
	c, err := a.client(authed)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()
	return fn(ctx, c)
}

// signIn posts a login or registration and stores the returned token.
func (a *app) signIn(cmd *cobra.Command, path string, req any) error {
	return a.call(cmd, false, func(ctx context.Context, c *client) error {
		var resp api.AuthResponse
		if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
			return err
		}
		if err := saveToken(tokenFile{AccessToken: resp.Token, ExpiresAt: resp.ExpiresAt, Role: resp.Role}); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		success(out, "signed in as %s", resp.Role)
		printAccount(out, resp.Account)
		return nil
	})
}

func newRootCmd(hc *http.Client) *cobra.Command {
	a := &app{hc: hc}
	root := &cobra.Command{
		Use:           "evote",
		Short:         "Client for the evote election service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	server := os.Getenv("EVOTE_SERVER")
	if server == "" {
		server = "http://localhost:5000"
	}
	root.PersistentFlags().StringVar(&a.server, "server", server, "API base URL (env EVOTE_SERVER)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		versionCmd(),
		voterCmd(a),
		candidateCmd(a),
		adminCmd(a),
		voteCmd(a),
		candidatesCmd(a),
		resultsCmd(a),
		statusCmd(a),
		meCmd(a),
		logoutCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "evote %s (%s)\n", version, buildDate)
		},
	}
}

func voterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "voter", Short: "Voter account commands"}

	var reg api.RegisterVoterRequest
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a voter account (saves token)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.signIn(cmd, "/api/auth/voter/register", reg)
		},
	}
	register.Flags().StringVarP(&reg.Name, "name", "n", "", "full name")
	register.Flags().StringVarP(&reg.Email, "email", "e", "", "email")
	register.Flags().StringVarP(&reg.Password, "password", "p", "", "password")
	markRequired(register, "name", "email", "password")

	var login api.LoginVoterRequest
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a voter id (saves token)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.signIn(cmd, "/api/auth/voter/login", login)
		},
	}
	loginCmd.Flags().StringVarP(&login.VoterID, "id", "i", "", "voter id (VTR-...)")
	loginCmd.Flags().StringVarP(&login.Password, "password", "p", "", "password")
	markRequired(loginCmd, "id", "password")

	cmd.AddCommand(register, loginCmd)
	return cmd
}

func candidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "candidate", Short: "Candidate account commands"}

	var reg api.RegisterCandidateRequest
	register := &cobra.Command{
		Use:   "register",
		Short: "Register as a candidate; an admin must approve before you can sign in again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.signIn(cmd, "/api/auth/candidate/register", reg)
		},
	}
	register.Flags().StringVarP(&reg.Name, "name", "n", "", "full name")
	register.Flags().StringVarP(&reg.Email, "email", "e", "", "email")
	register.Flags().StringVarP(&reg.Password, "password", "p", "", "password")
	register.Flags().StringVar(&reg.Pitch, "pitch", "", "campaign pitch")
	register.Flags().StringVar(&reg.Tagline, "tagline", "", "tagline (up to 100 characters)")
	markRequired(register, "name", "email", "password", "pitch", "tagline")

	var login api.LoginCandidateRequest
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a candidate id (saves token)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.signIn(cmd, "/api/auth/candidate/login", login)
		},
	}
	loginCmd.Flags().StringVarP(&login.CandidateID, "id", "i", "", "candidate id (CND-...)")
	loginCmd.Flags().StringVarP(&login.Password, "password", "p", "", "password")
	markRequired(loginCmd, "id", "password")

	profile := &cobra.Command{
		Use:   "profile",
		Short: "Show your candidate profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out api.Candidate
				if err := c.do(ctx, http.MethodGet, "/api/candidates/me", nil, &out); err != nil {
					return err
				}
				printAccount(cmd.OutOrStdout(), api.Account{Candidate: &out})
				return nil
			})
		},
	}

	var upd api.UpdateProfileRequest
	update := &cobra.Command{
		Use:   "update",
		Short: "Replace your pitch and tagline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out api.Candidate
				if err := c.do(ctx, http.MethodPut, "/api/candidates/me", upd, &out); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "profile updated")
				printAccount(cmd.OutOrStdout(), api.Account{Candidate: &out})
				return nil
			})
		},
	}
	update.Flags().StringVar(&upd.Pitch, "pitch", "", "campaign pitch")
	update.Flags().StringVar(&upd.Tagline, "tagline", "", "tagline (up to 100 characters)")
	markRequired(update, "pitch", "tagline")

	cmd.AddCommand(register, loginCmd, profile, update)
	return cmd
}

func adminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "admin", Short: "Administrator commands"}

	var login api.LoginAdminRequest
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as the administrator (saves token)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.signIn(cmd, "/api/auth/admin/login", login)
		},
	}
	loginCmd.Flags().StringVarP(&login.Email, "email", "e", "", "admin email")
	loginCmd.Flags().StringVarP(&login.Password, "password", "p", "", "password")
	markRequired(loginCmd, "email", "password")

	var status string
	list := &cobra.Command{
		Use:   "candidates",
		Short: "List candidates, newest first unless filtered by --status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := "/api/admin/candidates"
			if status != "" {
				path += "?status=" + url.QueryEscape(status)
			}
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out []api.Candidate
				if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
					return err
				}
				printCandidates(cmd.OutOrStdout(), out, true)
				return nil
			})
		},
	}
	list.Flags().StringVar(&status, "status", "", "pending, approved or rejected")

	transition := func(verb string) *cobra.Command {
		return &cobra.Command{
			Use:   verb + " <candidate-uuid>",
			Short: "Mark a candidate " + verb + "d",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.call(cmd, true, func(ctx context.Context, c *client) error {
					var out api.Message
					path := "/api/admin/candidates/" + url.PathEscape(args[0]) + "/" + verb
					if err := c.do(ctx, http.MethodPut, path, nil, &out); err != nil {
						return err
					}
					success(cmd.OutOrStdout(), "%s", out.Message)
					return nil
				})
			},
		}
	}

	var start, end string
	setWindow := &cobra.Command{
		Use:   "set-window",
		Short: "Set the voting window (RFC 3339 times)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			e, err := time.Parse(time.RFC3339, end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out api.VotingTimings
				req := api.VotingTimings{VotingStartTime: &s, VotingEndTime: &e}
				if err := c.do(ctx, http.MethodPost, "/api/admin/set-voting-timings", req, &out); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "voting window saved")
				printTimings(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	setWindow.Flags().StringVar(&start, "start", "", "window start, e.g. 2026-11-03T08:00:00Z")
	setWindow.Flags().StringVar(&end, "end", "", "window end")
	markRequired(setWindow, "start", "end")

	window := &cobra.Command{
		Use:   "window",
		Short: "Show the configured voting window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out api.VotingTimings
				if err := c.do(ctx, http.MethodGet, "/api/admin/voting-timings", nil, &out); err != nil {
					return err
				}
				printTimings(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	results := &cobra.Command{
		Use:   "results",
		Short: "Show results at any time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.results(cmd, "/api/admin/results", true)
		},
	}

	cmd.AddCommand(loginCmd, list, transition("approve"), transition("reject"), setWindow, window, results)
	return cmd
}

func voteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <candidate-uuid>",
		Short: "Cast your single vote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out api.Message
				if err := c.do(ctx, http.MethodPost, "/api/voters/vote/"+url.PathEscape(args[0]), nil, &out); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "%s", out.Message)
				return nil
			})
		},
	}
}

func candidatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "candidates",
		Short: "List approved candidates (voter)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out []api.Candidate
				if err := c.do(ctx, http.MethodGet, "/api/voters/candidates", nil, &out); err != nil {
					return err
				}
				printCandidates(cmd.OutOrStdout(), out, false)
				return nil
			})
		},
	}
}

func (a *app) results(cmd *cobra.Command, path string, authed bool) error {
	return a.call(cmd, authed, func(ctx context.Context, c *client) error {
		var out api.Results
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return err
		}
		printResults(cmd.OutOrStdout(), out)
		return nil
	})
}

func resultsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "Show current results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.results(cmd, "/api/results/current", false)
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether voting is open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.call(cmd, false, func(ctx context.Context, c *client) error {
				var out api.VotingStatus
				if err := c.do(ctx, http.MethodGet, "/api/results/voting-status", nil, &out); err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func meCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.call(cmd, true, func(ctx context.Context, c *client) error {
				var out api.Account
				if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out); err != nil {
					return err
				}
				printAccount(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := clearToken(); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		_ = cmd.MarkFlagRequired(n)
	}
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
