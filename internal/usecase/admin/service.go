package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/audit"
	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/admin"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/httperr"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/ratelimit"
)

const tokenTTL = 24 * time.Hour

// Claims carried by admin access tokens.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service manages the admin roster and issues access tokens. Additions
// are throttled through a shared Redis window so the budget holds across
// processes.
type Service struct {
	repo    domain.Repository
	limiter *ratelimit.Limiter
	audit   *audit.Dispatcher
	logger  *zap.Logger

	jwtSecret []byte
	now       func() time.Time
}

func NewService(
	repo domain.Repository,
	limiter *ratelimit.Limiter,
	auditor *audit.Dispatcher,
	logger *zap.Logger,
	jwtSecret string,
) *Service {
	return &Service{
		repo:      repo,
		limiter:   limiter,
		audit:     auditor,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// ======================================================
// AUTH
// ======================================================

func (s *Service) Login(ctx context.Context, userID int64, password string) (string, error) {
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", httperr.ErrBusiness(httperr.CodeForbidden)
		}
		return "", httperr.ErrBusiness(httperr.CodeDatabase)
	}

	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", httperr.ErrBusiness(httperr.CodeForbidden)
	}

	now := s.now()
	claims := Claims{
		UserID: a.UserID,
		Role:   a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", a.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return "", httperr.ErrBusiness(httperr.CodeDatabase)
	}

	s.audit.Dispatch(audit.Event{UserID: userID, Event: "admin_login"})
	return token, nil
}

// ParseToken validates a token string and returns its claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return claims, nil
}

// ======================================================
// ROSTER
// ======================================================

type AddInput struct {
	ActorID  int64
	UserID   int64
	Username string
	Role     string
	Password string
}

// Add registers a new admin. Only super admins may add, and each actor
// spends against a shared hourly budget.
func (s *Service) Add(ctx context.Context, in AddInput) (*models.Admin, error) {
	if in.Role != models.RoleSuperAdmin && in.Role != models.RoleModerator {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	actor, err := s.requirePermission(ctx, in.ActorID, PermManageAdmins)
	if err != nil {
		return nil, err
	}

	allowed, used, err := s.limiter.Allow(ctx, fmt.Sprintf("admin_add:%d", in.ActorID))
	if err != nil {
		s.logger.Error("rate limiter unavailable", zap.Error(err))
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}
	if !allowed {
		s.logger.Warn("admin addition throttled",
			zap.Int64("actor_id", in.ActorID),
			zap.Int("used", used),
			zap.Int("limit", s.limiter.Limit()),
		)
		return nil, httperr.ErrBusiness(httperr.CodeRateLimited)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	a := &models.Admin{
		UserID:       in.UserID,
		Username:     in.Username,
		Role:         in.Role,
		PasswordHash: string(hash),
		AddedBy:      actor.UserID,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, httperr.ErrBusiness(httperr.CodeValidation)
		}
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}

	s.audit.Dispatch(audit.Event{
		UserID: in.ActorID,
		Event:  "admin_added",
		Data:   fmt.Sprintf("%d:%s", in.UserID, in.Role),
	})
	s.logger.Info("admin added",
		zap.Int64("user_id", in.UserID),
		zap.String("role", in.Role),
		zap.Int64("added_by", in.ActorID),
	)
	return a, nil
}

// Remove drops an admin. The last super admin cannot be removed.
func (s *Service) Remove(ctx context.Context, actorID, targetID int64) error {
	if _, err := s.requirePermission(ctx, actorID, PermManageAdmins); err != nil {
		return err
	}

	target, err := s.repo.GetByUserID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return httperr.ErrBusiness(httperr.CodeDatabase)
	}

	if target.Role == models.RoleSuperAdmin {
		count, err := s.repo.CountByRole(ctx, models.RoleSuperAdmin)
		if err != nil {
			return httperr.ErrBusiness(httperr.CodeDatabase)
		}
		if count <= 1 {
			return httperr.ErrBusiness(httperr.CodeForbidden)
		}
	}

	removed, err := s.repo.Delete(ctx, targetID)
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeDatabase)
	}
	if !removed {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}

	s.audit.Dispatch(audit.Event{
		UserID: actorID,
		Event:  "admin_removed",
		Data:   fmt.Sprintf("%d", targetID),
	})
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}
	return admins, nil
}

// EnsureSeedAdmins creates super admin rows for configured ids that are
// not in the roster yet. Seeded rows have no password; a password is set
// out of band before HTTP login works.
func EnsureSeedAdmins(ctx context.Context, repo domain.Repository, ids []int64, logger *zap.Logger) error {
	for _, id := range ids {
		_, err := repo.GetByUserID(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		a := &models.Admin{
			UserID:    id,
			Role:      models.RoleSuperAdmin,
			CreatedAt: time.Now(),
		}
		if err := repo.Create(ctx, a); err != nil {
			return err
		}
		logger.Info("seed admin created", zap.Int64("user_id", id))
	}
	return nil
}

func (s *Service) requirePermission(ctx context.Context, userID int64, perm string) (*models.Admin, error) {
	a, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeForbidden)
		}
		return nil, httperr.ErrBusiness(httperr.CodeDatabase)
	}
	if !HasPermission(a.Role, perm) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return a, nil
}
