package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrator aplica as migrações embutidas usando goose.
type Migrator struct {
	dsn string
}

// NewMigrator cria migrador para o DSN informado.
func NewMigrator(dsn string) (*Migrator, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn vazio")
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("configurar goose: %w", err)
	}
	return &Migrator{dsn: dsn}, nil
}

// Up aplica migrações pendentes.
func (m *Migrator) Up(ctx context.Context) error {
	return m.withDB(func(db *sql.DB) error {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		log.Info().Msg("aplicando migrações")
		if err := goose.UpContext(runCtx, db, "migrations"); err != nil {
			return fmt.Errorf("aplicar migrações: %w", err)
		}
		return nil
	})
}

// Status imprime migrações aplicadas e pendentes.
func (m *Migrator) Status(ctx context.Context) error {
	return m.withDB(func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, "migrations")
	})
}

// Down desfaz a última migração, ou até target quando positivo.
func (m *Migrator) Down(ctx context.Context, target int64) error {
	return m.withDB(func(db *sql.DB) error {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		if target > 0 {
			log.Info().Int64("target", target).Msg("revertendo migrações")
			return goose.DownToContext(runCtx, db, "migrations", target)
		}
		log.Info().Msg("revertendo última migração")
		return goose.DownContext(runCtx, db, "migrations")
	})
}

func (m *Migrator) withDB(fn func(*sql.DB) error) error {
	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("abrir conexão sql: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping sql: %w", err)
	}
	return fn(db)
}
