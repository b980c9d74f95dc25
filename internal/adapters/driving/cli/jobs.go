package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect background jobs",
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the status of one job",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsStatus,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenant's jobs, newest first",
	RunE:  runJobsList,
}

func init() {
	jobsCmd.AddCommand(jobsStatusCmd, jobsListCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsStatus(cmd *cobra.Command, args []string) error {
	if jobTracker == nil {
		return errors.New("job tracker not configured")
	}

	job, err := jobTracker.Status(cmd.Context(), activeTenant, args[0])
	if err != nil {
		return fmt.Errorf("job status: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, job)
	}

	cmd.Printf("Job %s (%s)\n", job.ID, job.Kind)
	cmd.Printf("Status: %s, %d%%\n", job.Status, job.Progress)
	if job.Phase != "" {
		cmd.Printf("Phase: %s\n", job.Phase)
	}
	if job.Error != "" {
		cmd.Printf("Error: %s\n", job.Error)
	}
	return nil
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	if jobTracker == nil {
		return errors.New("job tracker not configured")
	}

	jobs, err := jobTracker.List(cmd.Context(), activeTenant)
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, jobs)
	}

	if len(jobs) == 0 {
		cmd.Println("No jobs recorded.")
		return nil
	}
	for _, job := range jobs {
		cmd.Printf("%-38s %-10s %3d%%  %s\n", job.ID, job.Status, job.Progress, job.Kind)
	}
	return nil
}
