package main

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"markdown-todo-sync/internal/httpserver"
	"markdown-todo-sync/internal/todo"
	"markdown-todo-sync/internal/webhook"
)

func runSync(ctx context.Context, out io.Writer, flags *rootFlags) error {
	a, err := setup(ctx, flags, false)
	if err != nil {
		return err
	}
	defer a.close()

	runner := todo.NewRunner(a.uc, a.cfg.Scan.Root, 0, a.logger)
	result, err := runner.Run(ctx, "")
	if err != nil {
		return err
	}
	if err := printSummary(out, result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d tasks could not be synced", result.Failed)
	}
	return nil
}

func runPlan(ctx context.Context, out io.Writer, flags *rootFlags) error {
	a, err := setup(ctx, flags, false)
	if err != nil {
		return err
	}
	defer a.close()

	plan, err := a.uc.Plan(ctx, todo.SyncInput{Root: a.cfg.Scan.Root})
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}

func runServe(ctx context.Context, flags *rootFlags) error {
	a, err := setup(ctx, flags, true)
	if err != nil {
		return err
	}
	defer a.close()

	a.logger.Info(ctx, "Starting todosync server...")

	runner := todo.NewRunner(a.uc, a.cfg.Scan.Root, 0, a.logger)
	handler := webhook.NewHandler(
		runner,
		webhook.SecurityConfig{
			Secret:          a.cfg.Webhook.Secret,
			AllowedIPs:      a.cfg.Webhook.AllowedIPs,
			RateLimitPerMin: a.cfg.Webhook.RateLimitPerMin,
		},
		webhook.FilterConfig{
			Repository: a.cfg.Tracker.Repository,
			Branch:     a.cfg.Webhook.Branch,
		},
		a.logger,
	)

	httpServer, err := httpserver.New(a.logger, httpserver.Config{
		Port:           a.cfg.HTTPServer.Port,
		Mode:           a.cfg.HTTPServer.Mode,
		Environment:    a.cfg.Environment.Name,
		SyncHandler:    handler,
		WebhookEnabled: a.cfg.Webhook.Enabled,
		TrustedProxies: a.cfg.HTTPServer.TrustedProxies,
		OnShutdown:     runner.Wait,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	if err := httpServer.Run(ctx); err != nil {
		return err
	}

	a.logger.Info(ctx, "Server stopped gracefully")
	return nil
}

func printSummary(out io.Writer, result todo.SyncOutput) error {
	for _, o := range result.Outcomes {
		switch {
		case o.Error != "":
			fmt.Fprintf(out, "%-9s %s #%d %s (%s)\n", o.Action, o.ID, o.Issue, o.Title, o.Error)
		case o.Issue != 0:
			fmt.Fprintf(out, "%-9s %s #%d %s\n", o.Action, o.ID, o.Issue, o.Title)
		default:
			fmt.Fprintf(out, "%-9s %s %s\n", o.Action, o.ID, o.Title)
		}
	}
	_, err := fmt.Fprintf(out,
		"\n%d tasks (%d done, %.0f%%): created=%d updated=%d recreated=%d skipped=%d failed=%d closed=%d labels=%d\n",
		result.Stats.Total, result.Stats.Completed, result.Stats.Progress,
		result.Created, result.Updated, result.Recreated, result.Skipped, result.Failed, result.Closed,
		len(result.LabelsCreated))
	return err
}
