package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autogroupchat/config"
	googleClient "autogroupchat/internal/client/google"
	"autogroupchat/internal/cron"
	"autogroupchat/internal/gateway"
	"autogroupchat/internal/groupchat"
	"autogroupchat/internal/groups"
	"autogroupchat/internal/sheet"
	"autogroupchat/internal/worker"
)

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Create today's groups from every configured sheet once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			w, err := newWorker(cmd.Context(), logger, cfg)
			if err != nil {
				return err
			}
			return w.ProcessAllSheets(cmd.Context())
		},
	}
}

func newScheduleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run now, then every day on the configured schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := newWorker(ctx, logger, cfg)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			s := cron.NewScheduler(logger, w, cfg.Schedule, loc)
			if err := s.Start(ctx); err != nil {
				return fmt.Errorf("failed to start cron scheduler: %w", err)
			}

			<-ctx.Done()
			logger.Info("Shutting down")
			s.Stop()
			return nil
		},
	}
}

func newMakeCommand(opts *options) *cobra.Command {
	var (
		admin          string
		messages       []string
		image          string
		description    string
		dontLeaveGroup bool
		deleteAgeDays  int
	)

	cmd := &cobra.Command{
		Use:   "make <group name> [name:phone ...]",
		Short: "Create one group from the command line",
		Example: `  autogroupchat make "Friday dinner" "Ann:555-0001" "Bob:555-0002" --admin "Carl:555-9999"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			req := groupchat.NewRequest(args[0])
			for _, arg := range args[1:] {
				c, err := sheet.ParseContact(arg)
				if err != nil {
					return err
				}
				req.Members[c.Name] = c.Phone
			}
			if admin != "" {
				c, err := sheet.ParseContact(admin)
				if err != nil {
					return fmt.Errorf("--admin: %w", err)
				}
				req.Admin = map[string]string{c.Name: c.Phone}
			}
			req.StartupMessages = messages
			req.Image = image
			req.Description = description
			req.DontLeaveGroup = dontLeaveGroup
			req.GroupDeleteAgeDays = deleteAgeDays

			gw, err := gateway.New(logger, cfg)
			if err != nil {
				return err
			}
			g, err := groupchat.Startup(cmd.Context(), logger, gw, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created group %q (%s)\n", g.Name, g.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&admin, "admin", "", "Owner of the group as name:phone")
	cmd.Flags().StringArrayVar(&messages, "startup-message", nil, "Message posted after setup, repeatable")
	cmd.Flags().StringVar(&image, "image", "", "Group avatar URL")
	cmd.Flags().StringVar(&description, "description", "", "Group description")
	cmd.Flags().BoolVar(&dontLeaveGroup, "dont-leave-group", false, "Stay in the group after setting it up")
	cmd.Flags().IntVar(&deleteAgeDays, "delete-age-days", groupchat.DefaultGroupDeleteAgeDays, "Purge groups created by this tool older than this")

	return cmd
}

func newPurgeCommand(opts *options) *cobra.Command {
	var olderThan int

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Destroy or leave groups created by this tool that are older than --older-than days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			gw, err := gateway.New(logger, cfg)
			if err != nil {
				return err
			}
			return gw.PurgeStaleGroups(cmd.Context(), olderThan)
		},
	}

	cmd.Flags().IntVar(&olderThan, "older-than", groupchat.DefaultGroupDeleteAgeDays, "Minimum group age in days")
	return cmd
}

func newAuthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Sheets access with a Google account and save the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.Google.CredentialsFile == "" {
				return errors.New("google.credentials_file must point at OAuth client secrets")
			}
			logger, err := newLogger(opts.verbose || cfg.Verbose)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return googleClient.Authorize(cmd.Context(), logger, cfg.Google, cmd.OutOrStdout())
		},
	}
}

func newWorker(ctx context.Context, logger *zap.Logger, cfg config.Config) (*worker.Worker, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Google client, only when a sheet is read through the API
	var reader groups.RangeReader
	if cfg.UsesGoogle() {
		gClient, err := googleClient.NewGoogleClient(ctx, logger, cfg.Google)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google client: %w", err)
		}
		reader = gClient
	}

	gw, err := gateway.New(logger, cfg)
	if err != nil {
		return nil, err
	}

	// Repository and service
	repo := groups.NewRepositoryGrid(logger, reader)
	parser := sheet.NewParser(logger, func() time.Time { return time.Now().In(loc) })
	service := groups.NewServiceGroups(logger, repo, parser, sheet.NewBuilder(logger), gw)

	return worker.NewWorker(logger, service, cfg), nil
}
