package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"teamhub.backend/internal/config"
	"teamhub.backend/internal/domain/entities"
	"teamhub.backend/internal/infrastructure/datasources"
	"teamhub.backend/internal/infrastructure/repositories"
	"teamhub.backend/pkg/jwt"
)

// userLookup is satisfied by the user repository.
type userLookup interface {
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

type devTokenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (userLookup, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultDevTokenDeps() devTokenDeps {
	return devTokenDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (userLookup, io.Closer, error) {
			db, err := datasources.Open(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return repositories.NewUserRepository(db), sqlDB, nil
		},
		out: os.Stdout,
	}
}

func runDevToken(args []string, deps devTokenDeps) error {
	def := defaultDevTokenDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("dev-token", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "email of an existing user (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	email := strings.TrimSpace(*emailFlag)
	if email == "" {
		return fmt.Errorf("--email is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	if cfg.Server.Env == "production" {
		return fmt.Errorf("dev-token refuses to run with SERVER_ENV=production")
	}

	users, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	user, err := users.GetByEmail(context.Background(), email)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", email, err)
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	pair, err := svc.GenerateTokenPair(user.ID, user.Email, user.Name)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID.String())
	_, _ = fmt.Fprintf(deps.out, "ACCESS_TOKEN=%s\n", pair.AccessToken)
	_, _ = fmt.Fprintf(deps.out, "REFRESH_TOKEN=%s\n", pair.RefreshToken)
	return nil
}

func main() {
	if err := runDevToken(os.Args[1:], defaultDevTokenDeps()); err != nil {
		log.Fatal(err)
	}
}
