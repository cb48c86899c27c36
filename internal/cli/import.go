package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	app "github.com/mohammadpnp/moodjournal-import/internal/application/journal"
	"github.com/mohammadpnp/moodjournal-import/internal/bootstrap"
	domain "github.com/mohammadpnp/moodjournal-import/internal/domain/journal"
	infrafile "github.com/mohammadpnp/moodjournal-import/internal/infrastructure/file"
	"github.com/spf13/cobra"
)

var (
	importUserID int64
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a Daylio backup file",
	Long: `Import a Daylio backup file and wait for the job to finish.

The final job status is printed as JSON.

Examples:
  moodjournal import backup.daylio --user-id 42
  moodjournal import export.zip --user-id 42 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Int64Var(&importUserID, "user-id", 0, "owner of the imported entries")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "report what would be imported without writing")
	_ = importCmd.MarkFlagRequired("user-id")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	source := infrafile.NewLocalSource(".")
	if cfg.Import.MaxUploadSize > 0 {
		source.MaxSize = cfg.Import.MaxUploadSize
	}
	payload, filename, err := source.ReadBackup(ctx, args[0])
	if err != nil {
		return err
	}

	application, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	workerCtx, stopWorkers := context.WithCancel(ctx)
	application.Worker.Start(workerCtx)
	defer func() {
		stopWorkers()
		application.Worker.Wait()
	}()

	started, err := application.StartImport.Execute(ctx, app.StartBackupImportInput{
		OwnerID:  importUserID,
		Filename: filename,
		Payload:  payload,
		DryRun:   importDryRun,
	})
	if err != nil {
		return fmt.Errorf("start import: %w", err)
	}

	job, err := waitForImportJob(ctx, application.GetJob, started.JobID, importUserID, cfg.Import.PollInterval)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(job); err != nil {
		return fmt.Errorf("print job: %w", err)
	}
	if domain.ImportStatus(job.Status) != domain.ImportStatusCompleted {
		return fmt.Errorf("import %s", job.Status)
	}
	return nil
}

func waitForImportJob(ctx context.Context, getJob app.GetImportJob, jobID string, ownerID int64, interval time.Duration) (app.GetImportJobOutput, error) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := getJob.Execute(ctx, app.GetImportJobInput{JobID: jobID, OwnerID: ownerID})
		if err != nil {
			return app.GetImportJobOutput{}, fmt.Errorf("get import job: %w", err)
		}
		if job.Finished() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}
