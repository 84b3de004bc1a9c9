package service

import (
	"time"

	libraryRepo "github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"go.uber.org/zap"
)

type TokenManager interface {
	GenerateAccessToken(userID int64, role auth.Role) (string, error)
	GenerateRefreshToken(userID int64, role auth.Role) (string, error)
	VerifyRefreshToken(token string) (*auth.Claims, error)
}

type Service struct {
	log      *zap.Logger
	repo     libraryRepo.Repository
	tokens   TokenManager
	stats    kafka.StatsLog
	hashCost int
	now      func() time.Time
}

func NewService(repo libraryRepo.Repository, tokens TokenManager, stats kafka.StatsLog, hashCost int, log *zap.Logger) *Service {
	if stats == nil {
		stats = kafka.NopStatsLog()
	}
	return &Service{
		log:      log.Named("service"),
		repo:     repo,
		tokens:   tokens,
		stats:    stats,
		hashCost: hashCost,
		now:      time.Now,
	}
}

// publish never fails the caller; stats are best-effort.
func (s *Service) publish(action kafka.Action, memberID, bookID int64) {
	event := kafka.EventStats{
		Action:     action,
		MemberID:   memberID,
		BookID:     bookID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.stats.Log(event); err != nil {
		s.log.Warn("stats.Log", zap.String("action", string(action)), zap.Error(err))
	}
}
