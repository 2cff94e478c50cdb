package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"amtconsole/internal/answers"
	"amtconsole/internal/backend"
	"amtconsole/internal/config"
	"amtconsole/internal/ui"
	"amtconsole/internal/util/logx"
	"amtconsole/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println(version.Name, version.String())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Mode == config.ModeSubmit {
		submit(ctx, cfg)
		return
	}

	logx.Infof("starting %s %s: %s", version.Name, version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("%s exited with error: %v", version.Name, err)
		fmt.Fprintln(os.Stderr, logx.Dump())
		os.Exit(1)
	}
}

// submit posts the answers and waits for the round trip. A failed post is
// logged and does not change the exit status.
func submit(ctx context.Context, cfg *config.Config) {
	client, err := backend.New(backend.Options{BaseURL: cfg.ServerURL, Timeout: cfg.Timeout(), Insecure: cfg.Insecure})
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	s := answers.NewSubmitter(client, cfg.AnswersURL)
	if err := s.Submit(ctx, cfg.Answers); err != nil {
		logx.Warnf("submit: %v", err)
		fmt.Fprintln(os.Stderr, "warning: answers not delivered:", err)
		return
	}
	fmt.Println(answers.Payload(cfg.Answers))
}
