package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/paradoks/clubhub/database"
	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/services"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	announceTitle    string
	announceContent  string
	announceSeverity string
	announceFor      time.Duration
)

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Publish an announcement to the feed",
	Long: `Publish an announcement. It is listed by GET /api/v1/announcements
until it expires.

Example:
  clubhub announce --title "Maintenance" --severity warning --for 48h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(env)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer database.Close(db)

		return announce(cmd.Context(), cmd.OutOrStdout(), db, services.AnnouncementInput{
			Title:    announceTitle,
			Content:  announceContent,
			Severity: models.Severity(announceSeverity),
			EndDate:  time.Now().Add(announceFor),
		})
	},
}

func init() {
	announceCmd.Flags().StringVar(&announceTitle, "title", "", "Announcement title")
	announceCmd.Flags().StringVar(&announceContent, "content", "", "Announcement body")
	announceCmd.Flags().StringVar(&announceSeverity, "severity", string(models.SeverityInfo), "INFO, WARNING or CRITICAL")
	announceCmd.Flags().DurationVar(&announceFor, "for", 7*24*time.Hour, "How long the announcement stays active")
	_ = announceCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(announceCmd)
}

func announce(ctx context.Context, out io.Writer, db *gorm.DB, in services.AnnouncementInput) error {
	a, err := services.NewAnnouncementService(db, services.Config{Logger: logger}).Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "announcement %d published until %s\n", a.ID, a.EndDate.Format(time.RFC3339))
	return nil
}
