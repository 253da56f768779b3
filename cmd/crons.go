package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/killallgit/conduit/pkg/controllers"
	"github.com/killallgit/conduit/pkg/schedule"
	"github.com/spf13/cobra"
)

var (
	cronAgentID      string
	cronEvery        string
	cronAt           string
	cronMinute       int
	cronDayOfWeek    int
	cronDayOfMonth   int
	cronInstructions string
)

var cronsCmd = &cobra.Command{
	Use:   "crons",
	Short: "Manage recurring agent schedules",
}

var cronsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cron jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewCronsController(newAPIClient())
		return controller.ListCrons(cmd.Context(), os.Stdout, cronAgentID)
	},
}

var cronsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a cron job",
	Long: `Creates a recurring schedule for an agent. The schedule is given in
human terms, for example:

  conduit crons create --agent a1 --every daily --at 3:00PM
  conduit crons create --agent a1 --every weekly --at 9:00AM --day-of-week 1
  conduit crons create --agent a1 --every 15min`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sched, err := scheduleFromFlags()
		if err != nil {
			return err
		}
		controller := controllers.NewCronsController(newAPIClient())
		return controller.CreateCron(cmd.Context(), os.Stdout, cronAgentID, sched, cronInstructions)
	},
}

var cronsUpdateCmd = &cobra.Command{
	Use:   "update <cron-id>",
	Short: "Rewrite a cron job's schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sched, err := scheduleFromFlags()
		if err != nil {
			return err
		}
		controller := controllers.NewCronsController(newAPIClient())
		return controller.UpdateSchedule(cmd.Context(), os.Stdout, args[0], sched)
	},
}

var cronsEnableCmd = &cobra.Command{
	Use:   "enable <cron-id>",
	Short: "Enable a cron job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewCronsController(newAPIClient())
		return controller.SetEnabled(cmd.Context(), os.Stdout, args[0], true)
	},
}

var cronsDisableCmd = &cobra.Command{
	Use:   "disable <cron-id>",
	Short: "Disable a cron job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewCronsController(newAPIClient())
		return controller.SetEnabled(cmd.Context(), os.Stdout, args[0], false)
	},
}

var cronsDeleteCmd = &cobra.Command{
	Use:   "delete <cron-id>",
	Short: "Delete a cron job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewCronsController(newAPIClient())
		return controller.DeleteCron(cmd.Context(), os.Stdout, args[0])
	},
}

var cronsRunCmd = &cobra.Command{
	Use:   "run <cron-id>",
	Short: "Trigger a cron job immediately",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewCronsController(newAPIClient())
		return controller.RunNow(cmd.Context(), os.Stdout, args[0])
	},
}

var cronsRunsCmd = &cobra.Command{
	Use:   "runs <cron-id>",
	Short: "List a cron job's recorded runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controller := controllers.NewCronsController(newAPIClient())
		return controller.ListRuns(cmd.Context(), os.Stdout, args[0])
	},
}

func init() {
	cronsListCmd.Flags().StringVar(&cronAgentID, "agent", "", "filter by assistant id")

	for _, cmd := range []*cobra.Command{cronsCreateCmd, cronsUpdateCmd} {
		cmd.Flags().StringVar(&cronEvery, "every", "daily", "frequency: 15min, 30min, hourly, daily, weekly or monthly")
		cmd.Flags().StringVar(&cronAt, "at", "12:00AM", "time of day, e.g. 3:00PM")
		cmd.Flags().IntVar(&cronMinute, "minute", 0, "minute of the hour for hourly schedules (0, 15, 30 or 45)")
		cmd.Flags().IntVar(&cronDayOfWeek, "day-of-week", 0, "day of week for weekly schedules (0 = Sunday)")
		cmd.Flags().IntVar(&cronDayOfMonth, "day-of-month", 1, "day of month for monthly schedules")
	}
	cronsCreateCmd.Flags().StringVar(&cronAgentID, "agent", "", "assistant to run on schedule")
	cronsCreateCmd.Flags().StringVar(&cronInstructions, "instructions", "", "special instructions passed to the agent")
	_ = cronsCreateCmd.MarkFlagRequired("agent")

	cronsCmd.AddCommand(cronsListCmd, cronsCreateCmd, cronsUpdateCmd,
		cronsEnableCmd, cronsDisableCmd, cronsDeleteCmd, cronsRunCmd, cronsRunsCmd)
	rootCmd.AddCommand(cronsCmd)
}

// scheduleFromFlags assembles a schedule.Schedule from the human flags.
func scheduleFromFlags() (schedule.Schedule, error) {
	switch cronEvery {
	case "15min":
		return schedule.Schedule{Frequency: schedule.Every15Min}, nil
	case "30min":
		return schedule.Schedule{Frequency: schedule.Every30Min}, nil
	case "hourly":
		return schedule.Schedule{Frequency: schedule.Hourly, Minute: cronMinute}, nil
	}

	hour12, minute, meridiem, err := parseClock(cronAt)
	if err != nil {
		return schedule.Schedule{}, err
	}

	sched := schedule.Schedule{
		Minute:   minute,
		Hour12:   hour12,
		Meridiem: meridiem,
	}
	switch cronEvery {
	case "daily":
		sched.Frequency = schedule.Daily
	case "weekly":
		sched.Frequency = schedule.Weekly
		sched.DayOfWeek = cronDayOfWeek
	case "monthly":
		sched.Frequency = schedule.Monthly
		sched.DayOfMonth = cronDayOfMonth
	default:
		return schedule.Schedule{}, fmt.Errorf("unknown frequency %q", cronEvery)
	}
	return sched, nil
}

// parseClock reads a "3:00PM" style time of day.
func parseClock(value string) (hour12, minute int, meridiem schedule.Meridiem, err error) {
	upper := strings.ToUpper(strings.TrimSpace(value))

	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = schedule.AM
	case strings.HasSuffix(upper, "PM"):
		meridiem = schedule.PM
	default:
		return 0, 0, "", fmt.Errorf("time %q must end in AM or PM", value)
	}

	clock := strings.TrimSpace(upper[:len(upper)-2])
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, 0, "", fmt.Errorf("time %q must look like 3:00PM", value)
	}

	hour12, err = strconv.Atoi(parts[0])
	if err != nil || hour12 < 1 || hour12 > 12 {
		return 0, 0, "", fmt.Errorf("invalid hour in %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, "", fmt.Errorf("invalid minute in %q", value)
	}
	return hour12, minute, meridiem, nil
}
