// Command roomctl manages the homestay room inventory from a terminal: it lists,
// adds, updates and deletes rooms through the admin API, prints status counts,
// pushes seed files and watches the public room list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"khietan/pkg/client"

	"github.com/google/uuid"
)

const (
	EnvAdminURL    = "ROOMCTL_ADMIN_URL"
	EnvHomepageURL = "ROOMCTL_HOMEPAGE_URL"
	EnvLegacyURL   = "ROOMCTL_LEGACY_URL"

	DefaultAdminURL    = "http://localhost:8080"
	DefaultHomepageURL = "http://localhost:8081"
	DefaultLegacyURL   = "http://localhost:8082"
)

type command struct {
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

var commands = map[string]command{
	"list":   {summary: "list every room", run: runList},
	"add":    {summary: "create a room", run: runAdd},
	"update": {summary: "update selected fields of a room", run: runUpdate},
	"delete": {summary: "delete a room", run: runDelete},
	"stats":  {summary: "count rooms by status", run: runStats},
	"sync":   {summary: "upsert rooms from a YAML or JSON file", run: runSync},
	"watch":  {summary: "keep a local copy of the public room list and print changes", run: runWatch},
}

// environment carries what every command needs; tests swap the streams and URLs.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	admin       *client.AdminClient
	homepageURL string
	legacyURL   string
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func cli(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("roomctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	adminURL := fs.String("admin", envOr(EnvAdminURL, DefaultAdminURL), "admin API base URL")
	homepageURL := fs.String("homepage", envOr(EnvHomepageURL, DefaultHomepageURL), "homepage API base URL")
	legacyURL := fs.String("legacy", envOr(EnvLegacyURL, DefaultLegacyURL), "legacy API base URL")
	timeout := fs.Duration("timeout", 10*time.Second, "per-request timeout")
	verbose := fs.Bool("v", false, "log debug output to stderr")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(fs)
		return 2
	}

	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "roomctl: unknown command %q\n", name)
		usage(fs)
		return 2
	}

	admin := client.NewAdminClient(*adminURL)
	admin.HTTP().HTTPClient.Timeout = *timeout
	admin.IdempotencyKeys = uuid.NewString

	env := &environment{
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		admin:       admin,
		homepageURL: *homepageURL,
		legacyURL:   *legacyURL,
		verbose:     *verbose,
	}

	if err := cmd.run(ctx, env, fs.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "roomctl %s: %v\n", name, err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "usage: roomctl [flags] <command> [command flags]")
	fmt.Fprintln(out, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(out, "\nflags:")
	fs.PrintDefaults()
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
