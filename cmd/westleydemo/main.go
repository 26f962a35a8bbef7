// westleydemo exercises the core create -> save -> load flow against an
// in-memory text datasource; it does not run a merge. It is not a vault CLI: scope,
// tokens, and exports are out of scope (spec.md Non-goals); this only
// demonstrates the engine end to end.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lovincyrus/westley/internal/archive"
	"github.com/lovincyrus/westley/internal/credentials"
	"github.com/lovincyrus/westley/internal/datasource"
	"github.com/lovincyrus/westley/internal/envelope"
	"github.com/lovincyrus/westley/internal/logging"
	"github.com/lovincyrus/westley/internal/westley"
	"github.com/lovincyrus/westley/internal/workspace"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		cmdDemo()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: westleydemo <command>

Commands:
  demo    run the create -> save -> load walkthrough
  help    show this message`)
}

func cmdDemo() {
	ctx := context.Background()
	logger := logging.NewSlogLogger(slog.Default())

	wcfg := westley.Config{Logger: logger}
	envCfg := envelope.DefaultConfig()

	ar := archive.New(wcfg)
	banking, err := ar.CreateGroup("Banking")
	must(err)
	entry, err := banking.CreateEntry()
	must(err)
	must(entry.SetProperty("username", "alice"))
	must(entry.SetProperty("password", "correct horse battery staple"))

	ds := datasource.NewTextDatasource(envCfg)
	creds := credentials.New([]byte("hunter2"))
	defer creds.Zero()

	ws := workspace.New(workspace.Config{WestleyConfig: wcfg, Logger: logger})
	ws.SetArchive(ar, ds, creds)

	must(ws.Save(ctx))
	fmt.Println("saved archive", ar.ID())

	raw, _ := ds.GetContent()
	fmt.Println("envelope signature line:", firstLine(raw))

	history, err := ds.Load(ctx, credentials.New([]byte("hunter2")))
	must(err)
	reloaded, err := archive.CreateFromHistory(wcfg, history)
	must(err)

	fmt.Printf("reloaded %d group(s)\n", len(reloaded.Groups()))
	for _, g := range reloaded.Groups() {
		fmt.Printf("  %s (%d entries)\n", g.Title(), len(g.Entries()))
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
