// cmd/seedoperator creates or refreshes an operator account.
// Settings come from the environment (or .env):
//
//	SEED_USERNAME (admin)  SEED_PASSWORD (required)  SEED_NAME  SEED_ROLE (administrador)
package main

import (
	"context"
	"os"

	"fertilabel/internal/config"
	"fertilabel/internal/infra"
	"fertilabel/internal/repository"
	"fertilabel/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	viper.SetDefault("SEED_USERNAME", "admin")
	viper.SetDefault("SEED_NAME", "Administrador")
	viper.SetDefault("SEED_ROLE", service.RoleAdmin)

	password := viper.GetString("SEED_PASSWORD")
	if password == "" {
		log.Fatal().Msg("SEED_PASSWORD is required")
	}
	role := viper.GetString("SEED_ROLE")
	if role != service.RoleAdmin && role != service.RoleOperator {
		log.Fatal().Str("role", role).Msg("SEED_ROLE must be operador or administrador")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	auth := service.NewAuthService(repository.NewOperatorRepository(db), cfg)
	op, err := auth.EnsureOperator(context.Background(),
		viper.GetString("SEED_USERNAME"), viper.GetString("SEED_NAME"), password, role)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to upsert operator")
	}
	log.Info().Str("username", op.Username).Str("role", op.Role).Msg("operator ready")
}
