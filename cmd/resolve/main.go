package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"booksphere/internal/app"
	"booksphere/internal/config"
	"booksphere/internal/platform/logger"
	"booksphere/internal/resolution"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

type CLI struct {
	Backend  string `help:"Cache backend override (postgres or bleve)"`
	LogLevel string `help:"Log level" default:"warn"`

	Title TitleCmd `cmd:"" default:"withargs" help:"Resolve one title and print its PDF URL"`
	Warm  WarmCmd  `cmd:"" help:"Resolve every title in a file, one per line, filling the cache"`
}

type TitleCmd struct {
	Title []string `arg:"" help:"Book title"`
}

type WarmCmd struct {
	File string `short:"f" help:"File of titles, one per line (- for stdin)" default:"-"`
}

type runContext struct {
	ctx     context.Context
	service *resolution.Service
	out     io.Writer
	logger  *zap.Logger
}

func (c *TitleCmd) Run(rc *runContext) error {
	title := strings.Join(c.Title, " ")
	url, err := rc.service.Resolve(rc.ctx, title)
	if err != nil {
		return fmt.Errorf("%s: %s", resolution.Outcome(err), title)
	}
	fmt.Fprintln(rc.out, url)
	return nil
}

func (c *WarmCmd) Run(rc *runContext) error {
	in := os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	return warm(rc, in)
}

func warm(rc *runContext, in io.Reader) error {
	var resolved, failed int
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		title := strings.TrimSpace(scanner.Text())
		if title == "" || strings.HasPrefix(title, "#") {
			continue
		}
		if rc.ctx.Err() != nil {
			break
		}
		url, err := rc.service.Resolve(rc.ctx, title)
		if err != nil {
			failed++
			fmt.Fprintf(rc.out, "%s\t%s\n", title, resolution.Outcome(err))
			continue
		}
		resolved++
		fmt.Fprintf(rc.out, "%s\t%s\n", title, url)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	rc.logger.Info("warm finished", zap.Int("resolved", resolved), zap.Int("failed", failed))
	return rc.ctx.Err()
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("resolve"),
		kong.Description("Resolve book titles to public-domain PDF URLs."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	kctx.FatalIfErrorf(err)
	if cli.Backend != "" {
		cfg.CacheBackend = cli.Backend
		kctx.FatalIfErrorf(cfg.Validate())
	}

	lg, closeLog, err := logger.New(logger.Options{Level: cli.LogLevel, Dev: true})
	kctx.FatalIfErrorf(err)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	kctx.FatalIfErrorf(err)
	defer a.Close()

	err = kctx.Run(&runContext{ctx: ctx, service: a.Service, out: os.Stdout, logger: lg})
	if err != nil {
		lg.Error("command failed", zap.Error(err))
		a.Close()
		closeLog()
		os.Exit(1)
	}
}
