package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

//go:embed migrations/postgres/*.sql
var postgresMigrations embed.FS

// Migrator aplica as migrações versionadas do PostgreSQL
type Migrator struct {
	m      *migrate.Migrate
	logger logger.Logger
}

// NewMigrator cria um Migrator a partir das migrações embutidas no binário
func NewMigrator(dbURL string, log logger.Logger) (*Migrator, error) {
	source, err := iofs.New(postgresMigrations, "migrations/postgres")
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir migrações embutidas: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar migrate: %w", err)
	}

	return &Migrator{m: m, logger: log}, nil
}

// Up aplica todas as migrações pendentes
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	mg.logVersion("migrações aplicadas")
	return nil
}

// Down reverte a quantidade informada de migrações
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		steps = 1
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao reverter migrações: %w", err)
	}
	mg.logVersion("migrações revertidas")
	return nil
}

// Version retorna a versão atual do schema e se ela está marcada como suja
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close libera as conexões usadas pelo migrate
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, err := mg.Version()
	if err != nil {
		mg.logger.Warn("não foi possível obter a versão do schema", "error", err)
		return
	}
	mg.logger.Info(msg, "version", version, "dirty", dirty)
}
