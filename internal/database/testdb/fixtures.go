package testdb

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"giftfinder/internal/domain"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// UserFixture is a seed user with its plain text password, so tests can log in.
type UserFixture struct {
	ID       int64           `yaml:"id"`
	Email    string          `yaml:"email"`
	Name     string          `yaml:"name"`
	Role     domain.UserRole `yaml:"role"`
	Password string          `yaml:"password"`
}

type profileFixture struct {
	ID          int64    `yaml:"id"`
	UserID      int64    `yaml:"user_id"`
	DisplayName string   `yaml:"display_name"`
	Bio         string   `yaml:"bio"`
	Interests   []string `yaml:"interests"`
}

type fixtureFile struct {
	Users    []UserFixture    `yaml:"users"`
	Profiles []profileFixture `yaml:"profiles"`
}

var (
	fixturesOnce sync.Once
	fixtures     fixtureFile
	fixturesErr  error
)

func loadFixtures() (fixtureFile, error) {
	fixturesOnce.Do(func() {
		fixturesErr = yaml.Unmarshal(fixturesYAML, &fixtures)
	})
	return fixtures, fixturesErr
}

// Users returns the static user fixtures.
func Users() []UserFixture {
	f, err := loadFixtures()
	if err != nil {
		panic(fmt.Sprintf("testdb: invalid fixtures.yaml: %v", err))
	}
	return append([]UserFixture(nil), f.Users...)
}

// Profiles returns the static profile fixtures.
func Profiles() []domain.Profile {
	f, err := loadFixtures()
	if err != nil {
		panic(fmt.Sprintf("testdb: invalid fixtures.yaml: %v", err))
	}
	out := make([]domain.Profile, 0, len(f.Profiles))
	for _, p := range f.Profiles {
		out = append(out, domain.Profile{
			ID:          p.ID,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Bio:         p.Bio,
			Interests:   p.Interests,
		})
	}
	return out
}

// UserByRole returns the first fixture with the given role.
func UserByRole(role domain.UserRole) UserFixture {
	for _, u := range Users() {
		if u.Role == role {
			return u
		}
	}
	panic("testdb: no fixture user with role " + string(role))
}

// SeedFixtures inserts the static users (bcrypt hashed) and profiles.
func SeedFixtures(ctx context.Context, db *gorm.DB) error {
	users := make([]domain.User, 0, len(Users()))
	for _, u := range Users() {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		users = append(users, domain.User{
			ID:           u.ID,
			Email:        u.Email,
			Name:         u.Name,
			Role:         u.Role,
			PasswordHash: string(hash),
		})
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := CreateMany(ctx, tx, users); err != nil {
			return err
		}
		_, err := CreateMany(ctx, tx, Profiles())
		return err
	})
}
