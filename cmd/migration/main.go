package main

import (
	"fmt"
	"log"
	"os"

	"github.com/abdesslemchebili/rebornBackend/internal/config"
	"github.com/abdesslemchebili/rebornBackend/internal/infrastructure/database"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:           "migration",
		Short:         "Aplica as migrações do banco de dados",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "URL do PostgreSQL (padrão: DATABASE_URL ou DB_*)")

	open := func() (*database.Migrator, error) {
		url := databaseURL
		if url == "" {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			url = cfg.Database.ConnectionString()
		}
		return database.NewMigrator(url)
	}

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica todas as migrações pendentes",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Up(); err != nil {
				return err
			}
			log.Println("Migrações executadas com sucesso!")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Desfaz migrações",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Down(steps); err != nil {
				return err
			}
			log.Printf("%d migração(ões) desfeita(s)", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "quantidade de migrações a desfazer")
	root.AddCommand(down)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Mostra a versão atual do schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
			return nil
		},
	})

	return root
}
