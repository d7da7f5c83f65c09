package db

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"luct/reporting/internal/crypto"
	"luct/reporting/internal/model"
)

type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Role     string `yaml:"role"`
}

type seedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedUsers reads and validates a users file. A missing role defaults to
// student; a role that is present must be one of the known roles.
func LoadSeedUsers(path string) ([]SeedUser, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, user := range file.Users {
		if strings.TrimSpace(user.Username) == "" || user.Password == "" {
			return nil, fmt.Errorf("seed user %d: username and password are required", i)
		}
		if strings.TrimSpace(user.Role) == "" {
			file.Users[i].Role = string(model.RoleStudent)
			continue
		}
		role, ok := model.ParseRole(user.Role)
		if !ok {
			return nil, fmt.Errorf("seed user %q: unknown role %q", user.Username, user.Role)
		}
		file.Users[i].Role = string(role)
	}
	return file.Users, nil
}

// SeedUsersFromFile inserts the users listed in path in one transaction,
// skipping usernames that already exist. It returns the number of rows created.
func SeedUsersFromFile(ctx context.Context, pool *pgxpool.Pool, path string) (int, error) {
	users, err := LoadSeedUsers(path)
	if err != nil {
		return 0, err
	}
	created := 0
	err = WithTx(ctx, pool, func(tx pgx.Tx) error {
		for _, user := range users {
			hash, err := crypto.HashPassword(user.Password)
			if err != nil {
				return fmt.Errorf("seed user %q: %w", user.Username, err)
			}
			tag, err := tx.Exec(ctx, `
				INSERT INTO users (username, password_hash, full_name, role)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (username) DO NOTHING
			`, strings.ToLower(strings.TrimSpace(user.Username)), hash, user.FullName, user.Role)
			if err != nil {
				return err
			}
			created += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
