// Package cli defines the coachd command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/careloop/coach/internal/config"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/server"
	"github.com/careloop/coach/internal/svc"
)

// SetupRootCmd builds the command tree around a loaded config.
func SetupRootCmd(c *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "coachd",
		Short: "Health-coaching onboarding and context engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(c)
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(c)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "engagement",
		Short: "Run the engagement classifier once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			svcCtx := svc.NewServiceContext(*c)
			if svcCtx == nil {
				return fmt.Errorf("failed to initialize database")
			}
			defer svcCtx.Close()
			return svcCtx.Engagement.Sweep(cmd.Context())
		},
	})

	return root
}

func runServe(c *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Infof("received signal %v, shutting down", sig)
		cancel()
	}()

	svcCtx := svc.NewServiceContext(*c)
	if svcCtx == nil {
		return fmt.Errorf("failed to initialize database")
	}
	defer svcCtx.Close()

	if err := svcCtx.Engagement.Start(c.Engagement.Schedule); err != nil {
		return fmt.Errorf("start engagement classifier: %w", err)
	}
	defer svcCtx.Engagement.Stop()

	return server.Run(ctx, svcCtx)
}
