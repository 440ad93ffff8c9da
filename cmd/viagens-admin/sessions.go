package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/rotalabs/viagens-ui/internal/data"
)

type flushSessionsOptions struct {
	Sessions bool
	Boards   bool
	Yes      bool
}

// runFlushSessions deletes session and board keys from Redis. Sessions force
// re-login; boards only force a fresh list fetch on the next page view.
func runFlushSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseFlushSessionsFlags(args)
	if err != nil {
		return err
	}
	if !opts.Yes {
		return errors.New("refusing to flush without --yes")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	client, err := connectRedis(cmdCtx)
	if err != nil {
		return err
	}
	defer closeRedis(cmdCtx, client)

	repo := data.NewRedisCacheRepo(client)

	var total int64
	if opts.Sessions {
		n, delErr := repo.DeleteByPrefix(ctx, "session:")
		if delErr != nil {
			return delErr
		}
		cmdCtx.Logger.Info("sessions flushed", "deleted", n)
		total += n
	}
	if opts.Boards {
		n, delErr := repo.DeleteByPrefix(ctx, "board:")
		if delErr != nil {
			return delErr
		}
		cmdCtx.Logger.Info("boards flushed", "deleted", n)
		total += n
	}

	return writef(os.Stdout, "Deleted %d keys\n", total)
}

func parseFlushSessionsFlags(args []string) (flushSessionsOptions, error) {
	fs := flag.NewFlagSet("flush-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts flushSessionsOptions
	fs.BoolVar(&opts.Sessions, "sessions", true, "Delete session keys")
	fs.BoolVar(&opts.Boards, "boards", true, "Delete cached trip boards")
	fs.BoolVar(&opts.Yes, "yes", false, "Confirm the flush")

	if err := fs.Parse(args); err != nil {
		return flushSessionsOptions{}, err
	}

	if !opts.Sessions && !opts.Boards {
		return flushSessionsOptions{}, errors.New("nothing to flush: enable --sessions or --boards")
	}

	return opts, nil
}
