package integration

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"zunda_backend/internal/cache"
	"zunda_backend/internal/domain"
	"zunda_backend/internal/repository"
	"zunda_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	entries, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(migDir, name))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", name, err)
		}
	}
}

// createUser inserts a user with a random phone and the given balance.
func createUser(t *testing.T, repo *repository.UserRepository, db *pgxpool.Pool, coins int64) *domain.User {
	t.Helper()
	u := &domain.User{
		Phone:        fmt.Sprintf("+7%010d", rand.Int63n(10_000_000_000)),
		PasswordHash: "x",
		Name:         "test user",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := db.Exec(context.Background(),
		`UPDATE users SET coins = $1 WHERE id = $2`, coins, u.ID); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	u.Coins = coins
	return u
}

func balance(t *testing.T, db *pgxpool.Pool, userID int64) int64 {
	t.Helper()
	var coins int64
	if err := db.QueryRow(context.Background(),
		`SELECT coins FROM users WHERE id = $1`, userID).Scan(&coins); err != nil {
		t.Fatalf("read balance: %v", err)
	}
	return coins
}

func newUserService(db *pgxpool.Pool) (*service.UserService, *repository.UserRepository) {
	userRepo := repository.NewUserRepository(db)
	users := service.NewUserService(userRepo, cache.NewUserCache("", "", 0))
	return users, userRepo
}
