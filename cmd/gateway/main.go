// Command gateway runs one record store operation and prints its JSON
// envelope:
//
//	gateway <module>.<method> [json-payload]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/gateway"
	"github.com/Varun984/Sparkathon-by-Walmart/internal/store"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/config"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code. Logs go to stderr so stdout carries
// only the envelope.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logg := logger.New(logger.Options{ServiceName: "gateway-cli", Output: stderr})

	if len(args) < 1 || len(args) > 2 {
		return emit(stdout, gateway.InvalidOperation())
	}
	var payload json.RawMessage
	if len(args) == 2 {
		if !json.Valid([]byte(args[1])) {
			return emit(stdout, gateway.InvalidOperation())
		}
		payload = json.RawMessage(args[1])
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		return fail(stdout, err)
	}
	logg = logger.New(logger.Options{
		ServiceName: "gateway-cli",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Fields:      map[string]any{"env": cfg.App.Env},
		Output:      stderr,
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		return fail(stdout, err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	s, err := store.New(dbClient.DB(), cfg.Gateway)
	if err != nil {
		return fail(stdout, err)
	}
	gw, err := gateway.New(gateway.Options{Store: s, Config: cfg.Gateway, Logger: logg})
	if err != nil {
		return fail(stdout, err)
	}

	return emit(stdout, gw.Dispatch(ctx, args[0], payload))
}

func emit(w io.Writer, res gateway.Result) int {
	out, err := json.Marshal(res)
	if err != nil {
		out = []byte(`{"success":false,"error":"failed to encode result"}`)
		res = gateway.InvalidOperation()
	}
	fmt.Fprintln(w, string(out))
	if !res.Success {
		return 1
	}
	return 0
}

func fail(w io.Writer, err error) int {
	out, _ := json.Marshal(map[string]any{"success": false, "error": err.Error()})
	fmt.Fprintln(w, string(out))
	return 1
}
