package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/LeafScan/internal/emoji"
	"github.com/yildizm/LeafScan/internal/formatter"
	"github.com/yildizm/LeafScan/internal/monitor"
	"github.com/yildizm/LeafScan/internal/session"
)

type predictOptions struct {
	saveReport bool
	copy       bool
	jsonOut    bool
	check      bool
	format     string
}

func newPredictCommand() *cobra.Command {
	var opts predictOptions

	cmd := &cobra.Command{
		Use:   "predict <image> [image...]",
		Short: "Diagnose leaf images",
		Long: `Upload leaf images to the prediction endpoint one at a time and print
the diagnosis. With several images a summary of the batch follows.

Images larger than the configured limit (5MB by default) are rejected
before any request is made. --report and --copy act on the last image.`,
		Example: `  # Diagnose an image
  leafscan predict leaf.jpg

  # Save crop_disease_report.txt and copy the summary to the clipboard
  leafscan predict leaf.jpg --report --copy

  # Machine readable output
  leafscan predict leaf.jpg --json

  # Tabulate a batch
  leafscan predict field/*.jpg --format csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.saveReport, "report", "r", false, "save crop_disease_report.txt")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "copy the summary to the clipboard")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the raw prediction as JSON (same as --format json)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatter.FormatText, "output format (text, json, markdown, csv)")
	cmd.Flags().BoolVar(&opts.check, "check", false, "check the endpoint is reachable first")

	return cmd
}

func runPredict(cmd *cobra.Command, paths []string, opts predictOptions) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	if opts.jsonOut {
		opts.format = formatter.FormatJSON
	}
	format, err := formatter.New(opts.format, formatter.Options{
		Color: isColorEnabled(),
		Emoji: !isEmojiDisabled(),
	})
	if err != nil {
		return err
	}

	log := newLogger("cli")
	client, err := newPredictClient(cfg, log)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.check {
		checkCtx, cancel := context.WithTimeout(ctx, cfg.Endpoint.Timeout)
		err := client.HealthCheck(checkCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("prediction endpoint %s is not reachable: %w", client.Endpoint(), err)
		}
		log.Info("Endpoint %s is reachable", client.Endpoint())
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var celebrator session.Celebrator
	if opts.format == formatter.FormatText || opts.format == "" {
		celebrator = session.CelebratorFunc(func(time.Duration) {
			fmt.Fprintln(errOut, emoji.GetEmoji("celebrate")+" Diagnosis ready!")
		})
	}

	tracker := monitor.New()
	defer logMetrics(log, tracker)

	ctrl, err := newController(cfg, log, controllerDeps{
		predictor:  trackedPredictor(client, tracker),
		clipboard:  errOut,
		celebrator: celebrator,
		tracker:    tracker,
	})
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := predictOne(ctx, ctrl, path, cfg.Endpoint.Timeout); err != nil {
			return err
		}
	}

	data, err := format.Format(ctrl.Snapshot().History)
	if err != nil {
		return fmt.Errorf("failed to format predictions: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return err
	}

	if opts.saveReport {
		location, err := ctrl.DownloadReport(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(errOut, "%s Report saved to %s\n", emoji.GetEmoji("download"), location)
	}

	if opts.copy {
		if _, err := ctrl.Share(); err != nil {
			return err
		}
		fmt.Fprintf(errOut, "%s Summary copied to clipboard\n", emoji.GetEmoji("share"))
	}

	return nil
}

// predictOne selects and submits a single image
func predictOne(ctx context.Context, ctrl *session.Controller, path string, timeout time.Duration) error {
	if err := ctrl.OpenFile(path); err != nil {
		return err
	}

	submitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := ctrl.Submit(submitCtx); err != nil {
		if session.IsValidationError(err) {
			return err
		}
		// Details were logged by the controller
		return errors.New(session.MsgPredictionFailed)
	}
	return nil
}
