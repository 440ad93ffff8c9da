package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"
)

type checkOptions struct {
	Timeout time.Duration
}

type probeResult struct {
	name string
	err  error
}

// runCheck probes Redis, the remote viagens API, and the IdP discovery
// endpoint concurrently and prints a status line per dependency. The exit
// code reflects the worst result.
func runCheck(cmdCtx *commandContext, args []string) error {
	opts, err := parseCheckFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	results := make([]probeResult, 3)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		results[0] = probeResult{name: "redis", err: probeRedis(gctx, cmdCtx)}
		return nil
	})
	g.Go(func() error {
		results[1] = probeResult{name: "viagens-api", err: probeTripsAPI(gctx, cmdCtx)}
		return nil
	})
	g.Go(func() error {
		results[2] = probeResult{name: "idp-discovery", err: probeIdPDiscovery(gctx, cmdCtx)}
		return nil
	})

	// Probes record their own errors; the group only coordinates.
	_ = g.Wait()

	return printCheckResults(results)
}

func probeRedis(ctx context.Context, cmdCtx *commandContext) error {
	client, err := connectRedis(cmdCtx)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx, client)
	return client.Ping(ctx).Err()
}

// probeTripsAPI verifies the remote API answers at all; an auth rejection
// still proves reachability, so only transport errors fail the probe.
func probeTripsAPI(ctx context.Context, cmdCtx *commandContext) error {
	url := cmdCtx.Config.TripsAPI.BaseURL + "/viagens"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{Timeout: cmdCtx.Config.TripsAPI.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("reach %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s returned HTTP %d", url, resp.StatusCode)
	}
	return nil
}

// probeIdPDiscovery fetches the OIDC discovery document. Skipped (ok) when no
// discovery URL is configured, e.g. under AUTH_MODE=mock.
func probeIdPDiscovery(ctx context.Context, cmdCtx *commandContext) error {
	url := cmdCtx.Config.Auth.OAuth.DiscoveryURL
	if url == "" {
		return nil
	}
	if !strings.Contains(url, "/.well-known/") {
		url = strings.TrimSuffix(url, "/") + "/.well-known/openid-configuration"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("reach %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned HTTP %d", url, resp.StatusCode)
	}
	return nil
}

func printCheckResults(results []probeResult) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Dependency\tStatus"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var failed bool
	for _, r := range results {
		status := "ok"
		if r.err != nil {
			status = "FAIL: " + r.err.Error()
			failed = true
		}
		if err := writef(w, "%s\t%s\n", r.name, status); err != nil {
			return fmt.Errorf("write result %q: %w", r.name, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush results: %w", err)
	}

	if failed {
		return fmt.Errorf("one or more dependencies failed")
	}
	return nil
}

func parseCheckFlags(args []string) (checkOptions, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := checkOptions{Timeout: 30 * time.Second}
	fs.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Overall probe timeout")

	if err := fs.Parse(args); err != nil {
		return checkOptions{}, err
	}
	if opts.Timeout <= 0 {
		return checkOptions{}, fmt.Errorf("--timeout must be greater than zero")
	}

	return opts, nil
}
