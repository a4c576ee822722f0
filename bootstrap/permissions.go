package bootstrap

import (
	"context"
	"errors"
	"strings"

	"hradmin/common"
	"hradmin/domain"
	"hradmin/pkg/log"
)

// PermissionRepository interface for catalog seeding
type PermissionRepository interface {
	FindOne(ctx context.Context, filter *domain.PermissionFilter, option *domain.FindOneOption) (*domain.Permission, error)
	Create(ctx context.Context, permission *domain.Permission) error
}

// UserRepository interface for default superuser creation
type UserRepository interface {
	FindOne(ctx context.Context, filter *domain.UserFilter, option *domain.FindOneOption) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// SeedConfig holds the default superuser credentials. Both fields empty
// means no superuser is created.
type SeedConfig struct {
	SuperuserEmail    string
	SuperuserPassword string
}

// CatalogSeeder makes sure every permission of the catalog exists and a
// default superuser is available on a fresh database. Seeding is
// idempotent; rows that already exist are left untouched, deleted ones
// included.
type CatalogSeeder struct {
	permissionRepo PermissionRepository
	userRepo       UserRepository
	hasher         common.Hasher
	config         SeedConfig
	logger         log.Logger
}

func NewCatalogSeeder(
	permissionRepo PermissionRepository,
	userRepo UserRepository,
	hasher common.Hasher,
	config SeedConfig,
	logger log.Logger,
) *CatalogSeeder {
	return &CatalogSeeder{
		permissionRepo: permissionRepo,
		userRepo:       userRepo,
		hasher:         hasher,
		config:         config,
		logger:         logger,
	}
}

func (s *CatalogSeeder) Seed(ctx context.Context) error {
	if err := s.seedPermissions(ctx); err != nil {
		return err
	}
	return s.seedSuperuser(ctx)
}

func (s *CatalogSeeder) seedPermissions(ctx context.Context) error {
	created := 0
	includeDeleted := true

	for _, seed := range domain.CatalogScopes() {
		code := seed.Code
		_, err := s.permissionRepo.FindOne(ctx, &domain.PermissionFilter{
			Code:           &code,
			IncludeDeleted: &includeDeleted,
		}, nil)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}

		permission := &domain.Permission{
			Name:        seed.Name,
			Code:        seed.Code,
			Description: seed.Description,
			ModuleName:  seed.ModuleName,
		}
		if err := s.permissionRepo.Create(ctx, permission); err != nil {
			return err
		}
		created++
	}

	s.logger.Info("Permission catalog seeded",
		log.Int("total", len(domain.CatalogScopes())),
		log.Int("created", created),
	)
	return nil
}

func (s *CatalogSeeder) seedSuperuser(ctx context.Context) error {
	if s.config.SuperuserEmail == "" || s.config.SuperuserPassword == "" {
		s.logger.Info("Default superuser credentials not configured, skipping")
		return nil
	}

	includeDeleted := true
	_, err := s.userRepo.FindOne(ctx, &domain.UserFilter{
		Email:          &s.config.SuperuserEmail,
		IncludeDeleted: &includeDeleted,
	}, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}

	hashed, err := s.hasher.Hash(s.config.SuperuserPassword)
	if err != nil {
		return err
	}

	user := &domain.User{
		Email:       s.config.SuperuserEmail,
		Username:    superuserUsername(s.config.SuperuserEmail),
		Password:    hashed,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Default superuser created", log.String("email", user.Email))
	return nil
}

func superuserUsername(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "admin"
}
