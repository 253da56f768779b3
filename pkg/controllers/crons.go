package controllers

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/killallgit/conduit/pkg/api"
	"github.com/killallgit/conduit/pkg/logger"
	"github.com/killallgit/conduit/pkg/schedule"
)

// CronClient is the slice of the API client the crons controller needs.
type CronClient interface {
	ListCrons(ctx context.Context, assistantID string) ([]api.Cron, error)
	GetCron(ctx context.Context, cronID string) (*api.Cron, error)
	CreateCron(ctx context.Context, req api.CreateCronRequest) (*api.Cron, error)
	UpdateCron(ctx context.Context, cronID string, req api.UpdateCronRequest) (*api.Cron, error)
	DeleteCron(ctx context.Context, cronID string) error
	RunCronNow(ctx context.Context, cronID string) (*api.CronRun, error)
	ListCronRuns(ctx context.Context, cronID string) ([]api.CronRun, error)
}

type CronsController struct {
	client CronClient
}

func NewCronsController(client CronClient) *CronsController {
	return &CronsController{
		client: client,
	}
}

// ListCrons writes a table of cron jobs. The schedule column shows the
// decoded human description when the expression matches a form shape,
// otherwise the raw cron string.
func (cc *CronsController) ListCrons(ctx context.Context, writer io.Writer, assistantID string) error {
	log := logger.WithComponent("crons_controller")

	crons, err := cc.client.ListCrons(ctx, assistantID)
	if err != nil {
		log.Error("ListCrons failed", "error", err)
		return fmt.Errorf("failed to list cron jobs: %w", err)
	}

	if len(crons) == 0 {
		fmt.Fprintln(writer, "No cron jobs found")
		return nil
	}

	w := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAGENT\tSCHEDULE\tNEXT RUN\tENABLED")
	for _, cron := range crons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n",
			cron.CronID,
			cron.AssistantID,
			describeSchedule(cron.Schedule),
			nextRun(cron.Schedule),
			cron.Enabled)
	}
	return w.Flush()
}

// CreateCron validates and registers a new cron job from a structured
// schedule.
func (cc *CronsController) CreateCron(ctx context.Context, writer io.Writer, assistantID string, sched schedule.Schedule, instructions string) error {
	log := logger.WithComponent("crons_controller")

	expr := schedule.Encode(sched)
	if err := schedule.Validate(expr); err != nil {
		return err
	}

	cron, err := cc.client.CreateCron(ctx, api.CreateCronRequest{
		AssistantID:         assistantID,
		Schedule:            expr,
		SpecialInstructions: instructions,
	})
	if err != nil {
		log.Error("CreateCron failed", "error", err)
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	fmt.Fprintf(writer, "Created cron %s: %s\n", cron.CronID, schedule.Describe(sched))
	return nil
}

// UpdateSchedule rewrites an existing cron job's schedule.
func (cc *CronsController) UpdateSchedule(ctx context.Context, writer io.Writer, cronID string, sched schedule.Schedule) error {
	expr := schedule.Encode(sched)
	if err := schedule.Validate(expr); err != nil {
		return err
	}

	cron, err := cc.client.UpdateCron(ctx, cronID, api.UpdateCronRequest{Schedule: &expr})
	if err != nil {
		return fmt.Errorf("failed to update cron job: %w", err)
	}

	fmt.Fprintf(writer, "Updated cron %s: %s\n", cron.CronID, describeSchedule(cron.Schedule))
	return nil
}

// SetEnabled toggles a cron job on or off.
func (cc *CronsController) SetEnabled(ctx context.Context, writer io.Writer, cronID string, enabled bool) error {
	cron, err := cc.client.UpdateCron(ctx, cronID, api.UpdateCronRequest{Enabled: &enabled})
	if err != nil {
		return fmt.Errorf("failed to update cron job: %w", err)
	}

	state := "disabled"
	if cron.Enabled {
		state = "enabled"
	}
	fmt.Fprintf(writer, "Cron %s %s\n", cron.CronID, state)
	return nil
}

// DeleteCron removes a cron job.
func (cc *CronsController) DeleteCron(ctx context.Context, writer io.Writer, cronID string) error {
	if err := cc.client.DeleteCron(ctx, cronID); err != nil {
		return fmt.Errorf("failed to delete cron job: %w", err)
	}
	fmt.Fprintf(writer, "Deleted cron %s\n", cronID)
	return nil
}

// RunNow triggers an immediate activation.
func (cc *CronsController) RunNow(ctx context.Context, writer io.Writer, cronID string) error {
	run, err := cc.client.RunCronNow(ctx, cronID)
	if err != nil {
		return fmt.Errorf("failed to trigger cron job: %w", err)
	}
	fmt.Fprintf(writer, "Scheduled cron run %s\n", run.CronRunID)
	return nil
}

// ListRuns writes a table of a cron job's recorded activations.
func (cc *CronsController) ListRuns(ctx context.Context, writer io.Writer, cronID string) error {
	cronRuns, err := cc.client.ListCronRuns(ctx, cronID)
	if err != nil {
		return fmt.Errorf("failed to list cron runs: %w", err)
	}

	if len(cronRuns) == 0 {
		fmt.Fprintln(writer, "No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSCHEDULED AT")
	for _, run := range cronRuns {
		scheduledAt := ""
		if run.ScheduledAt != nil {
			scheduledAt = run.ScheduledAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", run.CronRunID, run.Status, scheduledAt)
	}
	return w.Flush()
}

// describeSchedule prefers the human description; unrecognized shapes
// fall back to the raw expression.
func describeSchedule(expr string) string {
	if sched, ok := schedule.Decode(expr); ok {
		return schedule.Describe(sched)
	}
	return expr
}

func nextRun(expr string) string {
	next, err := schedule.NextRun(expr, time.Now())
	if err != nil {
		return "-"
	}
	return next.Format("2006-01-02 15:04")
}
