package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/cidadao/internal/db"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		log.Fatal().Msg("defina DB_DSN")
	}

	migrator, err := db.NewMigrator(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível preparar migrações")
	}

	ctx := context.Background()
	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "up":
		if err := migrator.Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("falha ao aplicar migrações")
		}
		log.Info().Msg("migrações aplicadas")
	case "status":
		if err := migrator.Status(ctx); err != nil {
			log.Fatal().Err(err).Msg("falha ao consultar status")
		}
	case "down":
		if err := runDown(ctx, migrator, args); err != nil {
			log.Fatal().Err(err).Msg("falha ao reverter migrações")
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "migrate CLI")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  migrate up")
	fmt.Fprintln(os.Stderr, "  migrate status")
	fmt.Fprintln(os.Stderr, "  migrate down [--to 1]")
}

func runDown(ctx context.Context, migrator *db.Migrator, args []string) error {
	fs := flag.NewFlagSet("down", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	to := fs.Int64("to", 0, "versão alvo (omita para reverter só a última)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *to < 0 {
		return fmt.Errorf("versão alvo inválida: %d", *to)
	}

	return migrator.Down(ctx, *to)
}
