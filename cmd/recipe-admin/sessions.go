package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
)

// sessionKeyPattern matches keys written by the Redis session store.
const sessionKeyPattern = "session:*"

type clearSessionsOptions struct {
	Email  string
	All    bool
	DryRun bool
	Yes    bool
}

func (c clearSessionsOptions) IsDryRun() bool { return c.DryRun }
func (c clearSessionsOptions) IsYes() bool    { return c.Yes }
func (c clearSessionsOptions) GetTarget() string {
	if c.All {
		return "all login sessions"
	}
	return fmt.Sprintf("login sessions for %q", c.Email)
}
func (c clearSessionsOptions) GetWarning() string {
	return "WARNING: this will delete login sessions and force affected users to sign in again."
}

func runListSessions(cmdCtx *commandContext, _ []string) error {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := connectRedis(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("scanning redis", "pattern", sessionKeyPattern)

	if headerErr := writef(os.Stdout, "\nActive Sessions\n"); headerErr != nil {
		return fmt.Errorf("print sessions header: %w", headerErr)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if _, tabErr := fmt.Fprintln(w, "SESSION\tEMAIL\tEXPIRES\tTTL"); tabErr != nil {
		return fmt.Errorf("print sessions table header: %w", tabErr)
	}

	total := 0
	iter := redisClient.Scan(ctx, 0, sessionKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		total++

		sess, ttl := describeSession(ctx, redisClient, key, cmdCtx.Logger)
		if _, rowErr := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncateKey(key),
			sess.Email,
			sess.ExpiresAt.Format(time.RFC3339),
			ttl,
		); rowErr != nil {
			return fmt.Errorf("print session row: %w", rowErr)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}

	if total == 0 {
		if noneErr := writeln(os.Stdout, "(no sessions found)"); noneErr != nil {
			return fmt.Errorf("print sessions none: %w", noneErr)
		}
		return nil
	}

	if flushErr := w.Flush(); flushErr != nil {
		return fmt.Errorf("flush sessions table: %w", flushErr)
	}
	if totalErr := writef(os.Stdout, "\nTotal sessions: %d\n", total); totalErr != nil {
		return fmt.Errorf("print sessions total: %w", totalErr)
	}
	return nil
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(opts, "clear sessions"); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := connectRedis(cmdCtx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	deleted := 0
	iter := redisClient.Scan(ctx, 0, sessionKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		if !opts.All {
			sess, _ := describeSession(ctx, redisClient, key, cmdCtx.Logger)
			if sess.Email != opts.Email {
				continue
			}
		}

		if opts.DryRun {
			cmdCtx.Logger.Info("would delete session", "key", key)
			deleted++
			continue
		}

		if delErr := redisClient.Del(ctx, key).Err(); delErr != nil {
			return fmt.Errorf("delete session %s: %w", key, delErr)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}

	cmdCtx.Logger.Info("clear sessions complete", "sessions", deleted, "dry_run", opts.DryRun)
	return nil
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.StringVar(&opts.Email, "email", "", "Only clear sessions belonging to this email")
	fs.BoolVar(&opts.All, "all", false, "Clear every session")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report what would be deleted without deleting")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}

	if !opts.All && opts.Email == "" {
		return clearSessionsOptions{}, errors.New("either --email or --all is required")
	}
	if opts.All && opts.Email != "" {
		return clearSessionsOptions{}, errors.New("--email and --all are mutually exclusive")
	}

	return opts, nil
}

// describeSession loads a session payload for display; failures are logged and
// an empty session returned so listing continues.
func describeSession(
	ctx context.Context,
	client redis.UniversalClient,
	key string,
	logger *slog.Logger,
) (domainauth.Session, string) {
	ttl := "?"
	if d, ttlErr := client.TTL(ctx, key).Result(); ttlErr == nil {
		ttl = d.Round(time.Second).String()
	} else if logger != nil {
		logger.ErrorContext(ctx, "failed to fetch TTL", "key", key, "error", ttlErr)
	}

	data, err := client.Get(ctx, key).Result()
	if err != nil {
		if logger != nil && !errors.Is(err, redis.Nil) {
			logger.ErrorContext(ctx, "failed to fetch session", "key", key, "error", err)
		}
		return domainauth.Session{}, ttl
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		if logger != nil {
			logger.ErrorContext(ctx, "failed to decode session", "key", key, "error", unmarshalErr)
		}
		return domainauth.Session{}, ttl
	}
	return sess, ttl
}

// truncateKey shortens long session keys so the table stays readable.
func truncateKey(key string) string {
	const max = 28
	if len(key) <= max {
		return key
	}
	return key[:max] + "..."
}
