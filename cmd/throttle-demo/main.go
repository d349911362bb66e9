// Command throttle-demo replays a job scenario against a throttle.Semaphore
// and prints when each job started and finished.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/azargarov/throttle/internal/scenario"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("throttle-demo", flag.ContinueOnError)
	fs.SetOutput(out)
	var (
		cfgPath string
		maxConc int
	)
	fs.StringVar(&cfgPath, "config", "", "path to scenario yaml (built-in demo if empty)")
	fs.IntVar(&maxConc, "max", 0, "override max_concurrency")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sc := scenario.Default()
	if cfgPath != "" {
		loaded, err := scenario.Load(cfgPath)
		if err != nil {
			return err
		}
		sc = loaded
	}
	if maxConc > 0 {
		sc.MaxConcurrency = maxConc
	}

	reports, err := scenario.Run(ctx, sc)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "JOB\tSTARTED\tFINISHED\tOUTCOME\n")
	for _, r := range reports {
		outcome := r.Result
		if r.Err != nil {
			outcome = "error: " + r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Started.Round(time.Millisecond), r.Finished.Round(time.Millisecond), outcome)
	}
	return tw.Flush()
}
