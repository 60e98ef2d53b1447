// Command seed creates the default users in the configured storage and prints
// an access token for each of them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Temutjin2k/pivot-location/config"
	pgrepo "github.com/Temutjin2k/pivot-location/internal/adapter/postgres"
	sqliterepo "github.com/Temutjin2k/pivot-location/internal/adapter/sqlite"
	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/internal/service/auth"
	"github.com/Temutjin2k/pivot-location/pkg/postgres"
	"github.com/Temutjin2k/pivot-location/pkg/sqlite"
	"github.com/google/uuid"
)

var (
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
	envFile    = flag.String("env-file", ".env", "Path to the .env file")
	userID     = flag.String("user-id", "", "Only issue a token for this existing user")
)

type userRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

var defaultUsers = []models.User{
	{
		ID:       uuid.MustParse("9f1c2d3e-4b5a-4c6d-8e7f-0a1b2c3d4e5f"),
		Username: "beka",
		Email:    "beka@pivot.kz",
	},
	{
		ID:       uuid.MustParse("1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5d"),
		Username: "mans",
		Email:    "mans@pivot.kz",
	},
}

type issued struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func main() {
	flag.Parse()

	// short timeout for seed operations
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.NewConfig(*configPath, *envFile)
	if err != nil {
		log.Fatal(err)
	}

	repo, closeFn, err := openUsers(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeFn()

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	var users []*models.User
	if *userID != "" {
		id, err := uuid.Parse(*userID)
		if err != nil {
			log.Fatalf("invalid user id: %v", err)
		}
		u, err := repo.GetUserByID(ctx, id)
		if err != nil {
			log.Fatalf("get user %s: %v", id, err)
		}
		users = append(users, u)
	} else {
		for _, du := range defaultUsers {
			u, err := ensureUser(ctx, repo, du)
			if err != nil {
				log.Fatalf("seed user %s: %v", du.Username, err)
			}
			users = append(users, u)
		}
	}

	out := make([]issued, 0, len(users))
	for _, u := range users {
		token, exp, err := tokens.Issue(ctx, u)
		if err != nil {
			log.Fatalf("issue token for %s: %v", u.Username, err)
		}
		out = append(out, issued{UserID: u.ID, Username: u.Username, Token: token, ExpiresAt: exp})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}

// ensureUser creates u unless a user with the same id already exists.
func ensureUser(ctx context.Context, repo userRepo, u models.User) (*models.User, error) {
	if existing, err := repo.GetUserByID(ctx, u.ID); err == nil {
		return existing, nil
	}

	if err := repo.CreateUser(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func openUsers(ctx context.Context, cfg *config.Config) (userRepo, func(), error) {
	switch cfg.Storage.Driver {
	case types.StoragePostgres:
		db, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return pgrepo.NewUserRepo(db.Pool), db.Pool.Close, nil
	case types.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := sqliterepo.InitSchema(ctx, db.DB); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqliterepo.NewUserRepo(db.DB), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
