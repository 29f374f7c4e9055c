package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hugohenrick/pitchdeck/internal/infrastructure/config"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
)

func main() {
	// Carregar configuração (.env é opcional)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)

	// Criar aplicação
	app, err := NewApp(context.Background(), cfg, log)
	if err != nil {
		log.Error("Erro ao iniciar aplicação", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Iniciar o servidor
	if err := app.Start(); err != nil {
		log.Error("Servidor finalizado com erro", "error", err)
		app.Close()
		os.Exit(1)
	}
}
