package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"servicehub/internal/service/content"
	"servicehub/internal/storage"
)

func contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "CMS maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "publish-due",
		Short: "Publish scheduled content whose publish date has passed",
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			svc, err := content.NewService(e.repos.Content, e.cache, storage.Unavailable(), e.logger)
			if err != nil {
				return err
			}
			n, err := svc.PublishDue(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d item(s)\n", n)
			return nil
		}),
	})
	return cmd
}

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Refresh-token session maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired and revoked sessions",
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			n, err := e.repos.Session.DeleteExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d session(s)\n", n)
			return nil
		}),
	})
	return cmd
}

func interestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Inspect interests and the contact access gate",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "inspect [id]",
		Short: "Show an interest, its job fee and whether contact access is unlocked",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			ctx := cmd.Context()
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid interest id: %w", err)
			}

			i, err := e.repos.Interest.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if i == nil {
				return fmt.Errorf("interest %s not found", id)
			}
			job, err := e.repos.Job.GetByID(ctx, i.JobID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Interest      %s\n", i.ID)
			fmt.Fprintf(out, "  Status:       %s\n", i.Status)
			fmt.Fprintf(out, "  Tradesperson: %s\n", i.TradespersonID)
			fmt.Fprintf(out, "  Homeowner:    %s\n", i.HomeownerID)
			fmt.Fprintf(out, "  Created:      %s\n", i.CreatedAt.Format(time.RFC3339))
			if job != nil {
				fmt.Fprintf(out, "\nJob           %s\n", job.ID)
				fmt.Fprintf(out, "  Title:        %s\n", job.Title)
				fmt.Fprintf(out, "  Status:       %s\n", job.Status)
				fmt.Fprintf(out, "  Access fee:   %d coins (N%d)\n", job.AccessFeeCoins, job.AccessFeeNaira)
			}

			fmt.Fprintln(out, "\nAccess gate")
			fmt.Fprintf(out, "  Contact shared: %t\n", i.ContactSharedAt != nil)
			fmt.Fprintf(out, "  Fee locked in:  %d coins\n", i.AccessFeeCoins)
			fmt.Fprintf(out, "  Access paid:    %t\n", i.HasPaidAccess())
			return nil
		}),
	})
	return cmd
}
