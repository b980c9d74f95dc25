package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/analista-digital/licita-cli/internal/core/ports/driving"
	"github.com/analista-digital/licita-cli/internal/logger"
)

// watchDebounce batches bursts of file events into one sync.
const watchDebounce = 2 * time.Second

var (
	syncForce bool
	syncAsync bool
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Manage the certificate collection",
	Long: `Manage the company's CAT collection. Certificates live in a fixed tree:
<root>/<tenant>/<manager>/<file>. Sync walks the tree, extracts text and
updates the configured store.`,
}

var certsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ingest new and changed certificate files",
	RunE:  runCertsSync,
}

var certsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored certificates",
	RunE:  runCertsList,
}

var certsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count stored certificates",
	RunE:  runCertsCount,
}

var certsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the certificate tree and re-ingest on changes",
	RunE:  runCertsWatch,
}

func init() {
	certsSyncCmd.Flags().BoolVar(&syncForce, "force", false, "reprocess files already in the store")
	certsSyncCmd.Flags().BoolVar(&syncAsync, "async", false, "run in the background and print the job id")
	certsCmd.AddCommand(certsSyncCmd, certsListCmd, certsCountCmd, certsWatchCmd)
	rootCmd.AddCommand(certsCmd)
}

func runCertsSync(cmd *cobra.Command, _ []string) error {
	if certificateSyncer == nil {
		return errors.New("ingestion service not configured")
	}

	opts := driving.SyncOptions{Force: syncForce}

	if syncAsync {
		jobID, err := certificateSyncer.SyncAsync(cmd.Context(), activeTenant, opts)
		if err != nil {
			return fmt.Errorf("sync failed to start: %w", err)
		}
		cmd.Printf("Sync started, job %s\n", jobID)
		cmd.Printf("Follow with: licita jobs status %s\n", jobID)
		return nil
	}

	cmd.Printf("Syncing certificates for %s...\n", activeTenant)
	job, err := certificateSyncer.Sync(cmd.Context(), activeTenant, opts)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Sync %s: %s\n", job.Status, job.Phase)
	return nil
}

func runCertsList(cmd *cobra.Command, _ []string) error {
	if certificateBrowser == nil {
		return errors.New("certificate store not configured")
	}

	certs, err := certificateBrowser.ListCertificates(cmd.Context(), activeTenant)
	if err != nil {
		return fmt.Errorf("listing certificates: %w", err)
	}

	if jsonFlag {
		return printJSON(cmd, certs)
	}

	if len(certs) == 0 {
		cmd.Println("No certificates stored. Run 'licita certs sync' first.")
		return nil
	}
	for _, cert := range certs {
		cmd.Printf("%-28s CAT %-14s %d  %s\n",
			cert.SourceID, orDash(cert.CertificateNumber), cert.Year, orDash(cert.ScopeSummary))
	}
	return nil
}

func runCertsCount(cmd *cobra.Command, _ []string) error {
	if certificateBrowser == nil {
		return errors.New("certificate store not configured")
	}

	count, err := certificateBrowser.CountCertificates(cmd.Context(), activeTenant)
	if err != nil {
		return fmt.Errorf("counting certificates: %w", err)
	}
	cmd.Printf("%d certificates stored for %s\n", count, activeTenant)
	return nil
}

func runCertsWatch(cmd *cobra.Command, _ []string) error {
	if certificateSyncer == nil {
		return errors.New("ingestion service not configured")
	}
	if certsRoot == "" {
		return errors.New("certificate root not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	root := filepath.Join(certsRoot, activeTenant)
	if err := watchTree(watcher, root); err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", root)
	return watchLoop(cmd.Context(), cmd, watcher)
}

// watchTree registers the directory and all its subdirectories.
// fsnotify watches are not recursive.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
			return watcher.Add(path)
		}
		return nil
	})
}

func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher) error {
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// New manager directories must be watched too.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := watcher.Add(event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
			}
			logger.Debug("fs event: %s %s", event.Op, event.Name)
			schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)

		case <-pending:
			jobID, err := certificateSyncer.SyncAsync(ctx, activeTenant, driving.SyncOptions{})
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				cmd.Printf("re-sync failed to start: %v\n", err)
				continue
			}
			cmd.Printf("Change detected, re-sync started (job %s)\n", jobID)
		}
	}
}
