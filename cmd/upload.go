package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/able2/able2-cli/internal/api"
	cfgpkg "github.com/able2/able2-cli/internal/config"
	"github.com/able2/able2-cli/internal/notify"
	"github.com/able2/able2-cli/internal/queue"
	"github.com/able2/able2-cli/internal/registry"
	"github.com/able2/able2-cli/internal/utils"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file...>",
	Short: "Upload PDF documents to the research assistant",
	Long:  `Validates each file locally (PDF content type, size ceiling), queues the accepted ones, and uploads them one at a time in the order given. One file failing never blocks the rest of the batch.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxSize, err := cfg.MaxUploadBytes()
		if err != nil {
			return err
		}

		files := make([]queue.File, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			name := filepath.Base(path)
			files = append(files, queue.File{
				Name:        name,
				Size:        int64(len(data)),
				ContentType: utils.DetectContentType(path, data),
				Data:        data,
			})
		}

		client := newAPIClient()
		notifier := newNotifier()
		reg := registry.New(client)

		bar := uploadProgressBar(len(files))
		var uploaded []api.Document
		var failed []string

		mgr := newUploadManager(cfg, client, maxSize,
			queue.OnSuccess(func(doc api.Document) {
				reg.RecordUploaded(doc)
				uploaded = append(uploaded, doc)
				_ = bar.Add(1)
			}),
			queue.OnError(func(fileName, message string) {
				failed = append(failed, fmt.Sprintf("%s: %s", fileName, message))
				_ = bar.Add(1)
			}),
		)

		rejected := mgr.Submit(files)
		reportRejections(notifier, rejected)

		accepted := len(files) - len(rejected)
		if accepted == 0 {
			return nil
		}
		bar.ChangeMax(accepted)

		mgr.Wait()
		_ = bar.Finish()
		fmt.Println()

		for _, doc := range uploaded {
			color.Green("✓ %s (%s)", doc.Name, utils.FormatBytes(doc.FileSize))
			if doc.Summary != "" {
				fmt.Printf("  %s\n", doc.Summary)
			}
		}
		for _, f := range failed {
			color.Red("✗ %s", f)
		}
		fmt.Printf("%d uploaded, %d failed, %d skipped\n", len(uploaded), len(failed), len(rejected))
		return nil
	},
}

// newUploadManager builds the queue manager from the effective config, so
// prune timing and validation strictness follow what `config show` reports.
func newUploadManager(c *cfgpkg.Global, client queue.Uploader, maxSize int64, opts ...queue.Option) *queue.Manager {
	base := []queue.Option{
		queue.WithValidator(queue.NewValidator(maxSize, c.StrictPDFCheck)),
		queue.WithPruneDelay(time.Duration(c.PruneDelaySec) * time.Second),
	}
	return queue.New(client, append(base, opts...)...)
}

// reportRejections surfaces validation failures without touching the queue
// or the network. Oversized files are reported in aggregate.
func reportRejections(notifier *notify.Channel, rejected []queue.Rejection) {
	oversized := 0
	for _, rej := range rejected {
		if rej.Reason == queue.ReasonTooLarge {
			oversized++
			continue
		}
		notifier.Publish(notify.LevelError, rej.Message)
	}
	if oversized > 0 {
		notifier.Publish(notify.LevelError, fmt.Sprintf("%d file(s) exceed the limit and were skipped", oversized))
	}
}

func uploadProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString("uploading")),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
