package app

import (
	"context"

	"github.com/Astemirdum/library-management/library/config"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GrantAdmin gives memberID the admin role. Registration never does, so the
// first admin of a fresh database comes from here.
func GrantAdmin(ctx context.Context, cfg *config.Config, memberID int64) error {
	log := logger.NewLogger(cfg.Log, "library")
	defer log.Sync() //nolint:errcheck

	db, err := postgres.Connect(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return errors.Wrap(err, "repo")
	}
	return grantAdmin(ctx, repo, memberID, log)
}

func grantAdmin(ctx context.Context, repo repository.Repository, memberID int64, log *zap.Logger) error {
	role := auth.RoleAdmin
	member, err := repo.UpdateMember(ctx, memberID, model.MemberUpdateRequest{Role: &role})
	if err != nil {
		return errors.Wrapf(err, "grant admin to member %d", memberID)
	}
	log.Info("admin granted", zap.Int64("memberID", member.ID), zap.String("email", member.Email))
	return nil
}
