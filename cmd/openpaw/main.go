package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/openpaw/openpaw/internal/device"
	"github.com/openpaw/openpaw/internal/engine"
	"github.com/openpaw/openpaw/internal/fsops"
	"github.com/openpaw/openpaw/internal/llm"
	"github.com/openpaw/openpaw/internal/llm/anthropic"
	"github.com/openpaw/openpaw/internal/llm/azureopenai"
	"github.com/openpaw/openpaw/internal/llm/local"
	"github.com/openpaw/openpaw/internal/llm/router"
	"github.com/openpaw/openpaw/internal/settings"
	"github.com/openpaw/openpaw/store"
	"github.com/openpaw/openpaw/tools"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to settings YAML (optional)")
		sessionID  = flag.String("session", "", "session id to continue (default: new session)")
		ask        = flag.String("ask", "", "one-shot question; answer and exit")
	)
	flag.Parse()

	st, err := settings.Open(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "settings: %v\n", err)
		os.Exit(1)
	}
	snap := st.Snapshot()

	if snap.FilesRoot != "" {
		fsops.Configure(snap.FilesRoot)
	}

	db, err := store.OpenSQLite(filepath.Join(snap.DataDir, "openpaw.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	bridge := device.NewBridge(snap.BridgeAddr, nil)
	registry := tools.NewRegistry(
		tools.ControlScreen(bridge),
		tools.OpenApp(bridge),
		tools.SendWhatsApp(bridge),
		tools.SMS(bridge),
		tools.SetAlarm(bridge),
		tools.CreateCalendarEvent(bridge),
		tools.ManageMemory(db.Memories()),
		tools.FileManager(),
		tools.Clipboard(device.LocalClipboard{}),
	)

	providers := map[string]llm.Provider{
		settings.ProviderAnthropic: anthropic.New(snap.Anthropic),
		settings.ProviderAzure:     azureopenai.New(snap.Azure, &http.Client{}),
		settings.ProviderLocal:     local.New(),
	}
	eng := engine.New(router.New(st, providers), registry, db.Conversations(), db.Memories(), st)

	session := *sessionID
	if session == "" {
		session = uuid.NewString()
	}

	// Graceful shutdown on Ctrl-C / SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	if *ask != "" {
		if !answer(ctx, eng, session, *ask) {
			os.Exit(1)
		}
		return
	}

	name := snap.Persona.AgentName
	if name == "" {
		name = "OpenPaw"
	}
	fmt.Printf("Chat with %s (Ctrl-C to quit, /sessions lists sessions, /clear wipes this one)\n", name)

	scanner := bufio.NewScanner(os.Stdin)
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("[94mYou[0m: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case line, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			runCommand(ctx, eng, st, session, line)
			continue
		}
		answer(ctx, eng, session, line)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}

// answer runs one turn and prints the outcome. Returns false when the turn
// failed outright.
func answer(ctx context.Context, eng *engine.Engine, session, text string) bool {
	reply, err := eng.HandleUserMessage(ctx, session, text)
	if err != nil && !errors.Is(err, engine.ErrReasoningLimit) {
		fmt.Fprintf(os.Stderr, "error: %s\n", friendlyError(err))
		return false
	}
	fmt.Printf("[93mOpenPaw[0m: %s\n", reply.Text)
	for _, name := range reply.Confirmations {
		fmt.Printf("  (action from %s is staged; confirm it on your device)\n", name)
	}
	return true
}

func runCommand(ctx context.Context, eng *engine.Engine, st *settings.Store, session, line string) {
	switch line {
	case "/sessions":
		previews, err := eng.Previews(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		if len(previews) == 0 {
			fmt.Println("No sessions yet.")
			return
		}
		for _, p := range previews {
			first := p.Content
			if len(first) > 60 {
				first = first[:60] + "..."
			}
			fmt.Printf("  %s  %s\n", p.SessionID, first)
		}
	case "/clear":
		if err := eng.ClearSession(ctx, session); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		fmt.Println("Session cleared.")
	case "/reload":
		if err := st.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		fmt.Println("Settings reloaded; changes apply from the next message.")
	default:
		fmt.Println("Commands: /sessions, /clear, /reload")
	}
}

// friendlyError translates the common backend failures into text a user
// can act on.
func friendlyError(err error) string {
	var unavailable *llm.UnavailableError
	if errors.As(err, &unavailable) {
		switch {
		case unavailable.Status == 401 || unavailable.Status == 403:
			return "the API key was rejected; check your provider credentials"
		case unavailable.Status == 429:
			return "too many requests right now; wait a moment and try again"
		case unavailable.Status == 0:
			return "could not reach the provider; check your network connection"
		default:
			return fmt.Sprintf("the provider is having trouble (HTTP %d); try again shortly", unavailable.Status)
		}
	}
	if llm.IsMalformed(err) {
		return "the model returned something unusable; try rephrasing"
	}
	var persist *engine.PersistenceError
	if errors.As(err, &persist) {
		return fmt.Sprintf("could not save the conversation: %v", persist.Err)
	}
	return err.Error()
}
