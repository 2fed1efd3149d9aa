package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/config"
	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository"
	pginfra "github.com/oksasatya/go-blood-donation/internal/infrastructure/postgres"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
)

type seedUser struct {
	email, first, last, phone string
	role                      entity.Role
	group                     entity.BloodGroup
	available                 bool
}

// demo donors cover every group so any request has someone to notify.
var demoUsers = []seedUser{
	{email: "requester@example.com", first: "Rina", last: "Hospital", phone: "+6281100000001", role: entity.RoleRequester},
	{email: "donor.onegative@example.com", first: "Budi", last: "Santoso", phone: "+6281100000002", role: entity.RoleDonor, group: entity.ONegative, available: true},
	{email: "donor.opositive@example.com", first: "Sari", last: "Wulandari", role: entity.RoleDonor, group: entity.OPositive, available: true},
	{email: "donor.anegative@example.com", first: "Agus", last: "Pratama", phone: "+6281100000004", role: entity.RoleDonor, group: entity.ANegative, available: false},
	{email: "donor.abpositive@example.com", first: "Dewi", last: "Lestari", phone: "+6281100000005", role: entity.RoleDonor, group: entity.ABPositive, available: true},
}

func main() {
	demo := flag.Bool("demo", false, "also seed a requester and a few verified donors")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), AppName: cfg.AppName + "-seed", MaxConns: 2})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	store := pginfra.NewStore(pool)

	password := getenv("SEED_PASSWORD", "password123")
	hash, err := helpers.HashPassword(password)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	admin := seedUser{email: getenv("SEED_ADMIN_EMAIL", "admin@example.com"), first: "System", last: "Admin", role: entity.RoleAdmin}
	users := []seedUser{admin}
	if *demo {
		users = append(users, demoUsers...)
	}

	for _, su := range users {
		if err := seed(ctx, store, su, hash); err != nil {
			logger.WithError(err).WithField("email", su.email).Fatal("seed failed")
		}
		logger.WithFields(logrus.Fields{"email": su.email, "role": su.role.String()}).Info("seeded user")
	}
	logger.WithField("password", password).Info("seed complete")
}

// seed is idempotent: existing accounts are only re-verified.
func seed(ctx context.Context, store *pginfra.Store, su seedUser, hash string) error {
	return store.WithTx(ctx, func(tx repository.Repositories) error {
		u, err := tx.Users().GetByEmail(ctx, su.email)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			u = &entity.User{
				Email:       su.email,
				Password:    hash,
				FirstName:   su.first,
				LastName:    su.last,
				PhoneNumber: su.phone,
				Role:        su.role,
				IsVerified:  true,
			}
			if err := tx.Users().Create(ctx, u); err != nil {
				return err
			}
		case err != nil:
			return err
		case !u.IsVerified:
			if err := tx.Users().SetVerified(ctx, u.ID); err != nil {
				return err
			}
		}
		if su.role != entity.RoleDonor {
			return nil
		}
		return tx.Donors().Upsert(ctx, &entity.DonorProfile{
			UserID:      u.ID,
			BloodGroup:  su.group,
			Address:     "Jakarta",
			IsAvailable: su.available,
		})
	})
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
