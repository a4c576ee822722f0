package repository

import (
	"context"

	"hradmin/database"
	"hradmin/domain"

	"gorm.io/gorm"
)

type UserSessionRepository struct {
	sqlHandler *database.SQLHandler[domain.UserSession, domain.UserSessionFilter]
}

func NewPgUserSessionRepo(db *gorm.DB) *UserSessionRepository {
	sqlHandler := database.NewSQLHandler[domain.UserSession](db, applyFilter)
	return &UserSessionRepository{
		sqlHandler: sqlHandler,
	}
}

func applyFilter(qb *gorm.DB, filter *domain.UserSessionFilter) *gorm.DB {
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		qb = qb.Where("user_id = ?", *filter.UserID)
	}
	if filter.RefreshToken != nil {
		qb = qb.Where("refresh_token = ?", *filter.RefreshToken)
	}
	if filter.Active != nil {
		qb = qb.Where("active = ?", *filter.Active)
	}

	return qb
}

func (r *UserSessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	return r.sqlHandler.Create(ctx, session)
}

func (r *UserSessionRepository) FindByID(ctx context.Context, sessionID string, option *domain.FindOneOption) (*domain.UserSession, error) {
	return r.sqlHandler.FindByID(ctx, sessionID, option)
}

func (r *UserSessionRepository) FindOne(ctx context.Context, filter *domain.UserSessionFilter, option *domain.FindOneOption) (*domain.UserSession, error) {
	return r.sqlHandler.FindOne(ctx, filter, option)
}

func (r *UserSessionRepository) Update(ctx context.Context, session *domain.UserSession) error {
	return r.sqlHandler.Update(ctx, session)
}

func (r *UserSessionRepository) Count(ctx context.Context, filter *domain.UserSessionFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}

func (r *UserSessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string, option *domain.FindOneOption) (*domain.UserSession, error) {
	return r.sqlHandler.FindOne(ctx, &domain.UserSessionFilter{
		RefreshToken: &refreshToken,
	}, option)
}

// InvalidateRefreshToken consumes the session's refresh token so it can
// never be redeemed twice.
func (r *UserSessionRepository) InvalidateRefreshToken(ctx context.Context, sessionID string) error {
	return r.sqlHandler.UpdateFields(ctx, sessionID, map[string]any{
		"refresh_token": "",
	})
}

// Deactivate ends the session without touching its refresh token.
func (r *UserSessionRepository) Deactivate(ctx context.Context, sessionID string) error {
	return r.sqlHandler.UpdateFields(ctx, sessionID, map[string]any{
		"active": false,
	})
}
