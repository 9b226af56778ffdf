// main is the entry point of the course registration server.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment)
//  2. Initialise the logger
//  3. Open the course catalog and the registration store
//  4. Register the protocol commands
//  5. Bind the TCP port and serve connections one at a time
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Shut down: stop accepting, interrupt the current session, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/registration-server --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/registration-server
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/course-registration/internal/config"
	"github.com/aanand-mishra/course-registration/internal/protocol"
	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/storage/flatfile"
	"github.com/aanand-mishra/course-registration/internal/storage/sqlite"
	"github.com/aanand-mishra/course-registration/internal/tcp"
	"github.com/aanand-mishra/course-registration/internal/tcp/handlers/course"
	"github.com/aanand-mishra/course-registration/internal/tcp/handlers/registration"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting registration-server",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The catalog is read-only from the server's side; the registration
	// store only ever appends.
	catalog := flatfile.NewCatalog(cfg.CoursesPath)

	store, closeStore, err := openRegistrationStore(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	log.Info("storage initialised",
		slog.String("courses_path", cfg.CoursesPath),
		slog.String("registrations_backend", cfg.RegistrationsBackend))

	// ── 4. Register Commands ──────────────────────────────────────────────
	// Command table:
	//   LOAD <semester>  → send the semester's courses
	//   REGISTER         → read a form frame, validate, append, acknowledge
	//   QUIT             → close the connection (built into the router)
	router := tcp.NewRouter()
	router.Handle(protocol.CmdLoad, course.Load(catalog, cfg.SemesterChoices()))
	router.Handle(protocol.CmdRegister, registration.Register(store))

	// ── 5. Bind and Serve ─────────────────────────────────────────────────
	server, err := tcp.Listen(cfg.TCPServer, router, log)
	if err != nil {
		log.Error("failed to bind",
			slog.String("address", cfg.Addr),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() {
		served <- server.Serve(ctx)
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Shutdown ───────────────────────────────────────────────────────
	// Cancelling the context closes the listener and the live connection,
	// so Serve returns promptly.
	cancel()
	if err := <-served; err != nil {
		log.Error("server stopped with error", slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// openRegistrationStore returns the configured RegistrationStore and a
// function releasing its resources.
func openRegistrationStore(cfg *config.Config) (storage.RegistrationStore, func(), error) {
	switch cfg.RegistrationsBackend {
	case config.BackendSQLite:
		db, err := sqlite.New(cfg)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case config.BackendFile:
		return flatfile.NewRegistrations(cfg.RegistrationsPath), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown registrations backend %q", cfg.RegistrationsBackend)
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
