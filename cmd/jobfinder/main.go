package main

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"jobfinder/internal/app"
	"jobfinder/internal/config"
	"jobfinder/internal/preferences"
	"jobfinder/internal/session"
	"jobfinder/internal/view"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Diagnostics go to a file so they do not interleave with the rendered view.
	logOut := io.Discard
	if p := strings.TrimSpace(os.Getenv("JOBFINDER_LOG")); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := log.New(logOut, "", log.LstdFlags|log.Lmicroseconds)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Printf("cleanup error: %v", err)
		}
	}()

	clientID := cfg.Client.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}
	prefs := preferences.NewAdapter(container.KV, clientID, logger)

	s := session.New(container.Loader, prefs, view.NewTerminalRenderer(), os.Stdout, session.WithLogger(logger))
	defer s.Close()

	spinner, _ := pterm.DefaultSpinner.Start("loading jobs from " + cfg.Data.DatasetURL)
	err = s.Start(ctx, cfg.Client.StartFragment)
	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		log.Fatalf("failed to start session: %v", err)
	}

	run(ctx, s, os.Stdin)
}

func run(ctx context.Context, s *session.Session, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		pterm.Print(pterm.Gray(s.Route().Fragment() + " > "))
		var line string
		select {
		case <-ctx.Done():
			pterm.Println()
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return
		case "help", "?":
			printHelp()
			continue
		}

		a, err := session.ParseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if err := s.Dispatch(ctx, a); err != nil {
			pterm.Error.Println(err)
			continue
		}
		// Typed lines are already complete, so the query need not wait out the idle delay.
		if a.Kind == session.ActSetQuery {
			s.FlushQuery()
		}
	}
}

func printHelp() {
	data := pterm.TableData{{"Command", "Description"}}
	for _, c := range session.Commands {
		data = append(data, []string{c.Usage, c.Help})
	}
	data = append(data, []string{"help", "show this table"}, []string{"quit", "leave"})
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
}
