package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hugohenrick/pitchdeck/internal/infrastructure/config"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/database"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "migration",
		Short:         "Gerencia as migrações do banco PostgreSQL",
		SilenceUsage:  true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica todas as migrações pendentes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m *database.Migrator) error {
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Reverte migrações (padrão: 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("quantidade de passos inválida: %q", args[0])
					}
					steps = n
				}
				return withMigrator(func(m *database.Migrator) error {
					return m.Down(steps)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Mostra a versão atual do schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(func(m *database.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					cmd.Printf("versão: %d (suja: %t)\n", version, dirty)
					return nil
				})
			},
		},
	)

	return root
}

// withMigrator carrega a configuração, abre o migrator e garante o Close
func withMigrator(run func(m *database.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("erro ao carregar configuração: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrações versionadas exigem DB_DRIVER=postgres (atual: %s)", cfg.Database.Driver)
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)

	migrator, err := database.NewMigrator(cfg.Database.ConnectionString(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Warn("Erro ao fechar migrator", "error", err)
		}
	}()

	return run(migrator)
}
