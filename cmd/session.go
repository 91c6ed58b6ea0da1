package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/paradoks/clubhub/database"
	"github.com/paradoks/clubhub/sessions"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	sessionKind  string
	sessionEmail string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect login sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var sessionLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Show the newest active session of a club or user",
	Long: `Show the newest active session of the club or user registered under
--email. Tokens are never printed.

Examples:
  clubhub session lookup --kind club --email chess@example.com
  clubhub session lookup --kind user --email ada@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(env)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close(db)

		return lookupSession(cmd.Context(), cmd.OutOrStdout(), db, sessionKind, sessionEmail)
	},
}

func init() {
	sessionLookupCmd.Flags().StringVar(&sessionKind, "kind", "user", "Principal kind: club or user")
	sessionLookupCmd.Flags().StringVar(&sessionEmail, "email", "", "Email of the club or user")
	_ = sessionLookupCmd.MarkFlagRequired("email")

	sessionCmd.AddCommand(sessionLookupCmd)
	rootCmd.AddCommand(sessionCmd)
}

type sessionInfo struct {
	ID          uint      `json:"id"`
	Kind        string    `json:"kind"`
	PrincipalID uint      `json:"principal_id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Expired     bool      `json:"expired"`
}

func lookupSession(ctx context.Context, out io.Writer, db *gorm.DB, kind, email string) error {
	var svc *sessions.Service
	switch kind {
	case sessions.ClubKind.Name:
		svc = sessions.NewService(sessions.NewClubStore(db), sessions.ClubKind, sessions.WithLogger(logger))
	case sessions.UserKind.Name:
		svc = sessions.NewService(sessions.NewUserStore(db), sessions.UserKind, sessions.WithLogger(logger))
	default:
		return fmt.Errorf("unknown kind %q, want club or user", kind)
	}

	sess, err := svc.ActiveSessionByEmail(ctx, email)
	if err != nil {
		return err
	}
	if sess == nil {
		fmt.Fprintf(out, "no active %s session for %s\n", kind, email)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(sessionInfo{
		ID:          sess.ID,
		Kind:        kind,
		PrincipalID: sess.PrincipalID,
		CreatedAt:   sess.CreatedAt,
		ExpiresAt:   sess.ExpiresAt,
		Expired:     !time.Now().Before(sess.ExpiresAt),
	})
}
