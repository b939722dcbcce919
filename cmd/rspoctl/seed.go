package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rspo-readiness/internal/config"
	"rspo-readiness/internal/model"
	"rspo-readiness/internal/repository"
	"rspo-readiness/internal/service"
)

const demoPassword = "password123"

var demoUsers = []model.RegisterRequest{
	{Email: "petani@example.com", Name: "Petani Demo", Role: model.RolePetani},
	{Email: "manajer@example.com", Name: "Manajer Demo", Role: model.RoleManajer},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo petani and manajer accounts in the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := repository.Open(ctx, repository.StoreConfig{
			Driver:      cfg.StoreDriver,
			MongoURI:    cfg.MongoURI,
			MongoDB:     cfg.MongoDB,
			DatabaseURL: cfg.DatabaseURL,
		})
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		authSvc := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL)
		out := cmd.OutOrStdout()
		for _, req := range demoUsers {
			req.Password = demoPassword
			_, err := authSvc.Register(ctx, req)
			switch {
			case errors.Is(err, service.ErrEmailTaken):
				fmt.Fprintf(out, "exists   %s\n", req.Email)
			case err != nil:
				return fmt.Errorf("seed %s: %w", req.Email, err)
			default:
				fmt.Fprintf(out, "created  %s (%s)\n", req.Email, req.Role)
			}
		}
		fmt.Fprintf(out, "password for demo accounts: %s\n", demoPassword)
		return nil
	},
}
