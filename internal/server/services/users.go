// Package services contains server-side business logic: the credential
// store, the essay evaluator and the submission ledger.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/logging"
	"github.com/dmitrijs2005/essaydesk/internal/server/auth"
	"github.com/dmitrijs2005/essaydesk/internal/server/config"
	"github.com/dmitrijs2005/essaydesk/internal/server/metrics"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/dmitrijs2005/essaydesk/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Demo account registered at start-up when SeedDemoTeacher is on.
const (
	DemoTeacherID       = "t001"
	DemoTeacherLogin    = "teacher"
	DemoTeacherPassword = "12345"
	DemoTeacherName     = "Demo Teacher"
	DemoTeacherEmail    = "teacher@school.example"
)

// maxIDAttempts bounds the search for a free id when several accounts of the
// same role register within one second.
const maxIDAttempts = 60

var bcryptCost = bcrypt.DefaultCost

// RegisterInput is what a new account is created from.
type RegisterInput struct {
	Login    string `validate:"required"`
	Password string `validate:"required"`
	Role     string `validate:"required"`
	FullName string
	Email    string `validate:"omitempty,email"`
}

// Session is the outcome of a successful login.
type Session struct {
	UserID      string
	Role        models.Role
	FullName    string
	AccessToken string
}

// UserService is the credential store: registration and authentication.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	validate                    *validator.Validate
	metrics                     *metrics.Metrics
	logger                      logging.Logger
	now                         func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, mt *metrics.Metrics, l logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		validate:                    validator.New(),
		metrics:                     mt,
		logger:                      l.With("module", "user_service"),
		now:                         time.Now,
	}
}

// Register creates an account. The id is the role's first letter followed by
// the current unix time; if another account of that role already holds it
// the next second is tried.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		s.metrics.Registration("invalid")
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		s.metrics.Registration("invalid")
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		s.metrics.Registration("error")
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	ts := s.now().Unix()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		user := &models.User{
			ID:           role.IDPrefix() + strconv.FormatInt(ts+int64(attempt), 10),
			Login:        in.Login,
			PasswordHash: hash,
			Role:         role,
			FullName:     in.FullName,
			Email:        in.Email,
		}

		created, err := repo.Create(ctx, user)
		switch {
		case err == nil:
			s.metrics.Registration("ok")
			s.logger.Info(ctx, "user registered", "user_id", created.ID, "role", created.Role)
			return created, nil
		case errors.Is(err, common.ErrorIDTaken):
			continue
		case errors.Is(err, common.ErrorAlreadyExists):
			s.metrics.Registration("already_exists")
			return nil, common.ErrorAlreadyExists
		default:
			s.metrics.Registration("error")
			return nil, fmt.Errorf("error creating user: %w", err)
		}
	}

	s.metrics.Registration("error")
	return nil, fmt.Errorf("error creating user: %w", common.ErrorIDTaken)
}

// Authenticate checks login and password and mints an access token. An
// unknown login and a wrong password fail the same way, and both run a
// bcrypt comparison.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password))
			s.metrics.Authentication("invalid")
			return nil, common.ErrorInvalidCredentials
		}
		s.metrics.Authentication("error")
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		s.metrics.Authentication("invalid")
		return nil, common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		s.metrics.Authentication("error")
		return nil, common.ErrorInternal
	}

	s.metrics.Authentication("ok")
	return &Session{
		UserID:      user.ID,
		Role:        user.Role,
		FullName:    user.FullName,
		AccessToken: token,
	}, nil
}

// SeedDemoTeacher registers the demo teacher under its fixed id. Running it
// against a store that already has the account is a no-op.
func (s *UserService) SeedDemoTeacher(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoTeacherPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	_, err = s.repomanager.Users(s.db).Create(ctx, &models.User{
		ID:           DemoTeacherID,
		Login:        DemoTeacherLogin,
		PasswordHash: hash,
		Role:         models.RoleTeacher,
		FullName:     DemoTeacherName,
		Email:        DemoTeacherEmail,
	})
	switch {
	case err == nil, errors.Is(err, common.ErrorAlreadyExists):
		s.logger.Info(ctx, "demo teacher available", "login", DemoTeacherLogin)
	case errors.Is(err, common.ErrorIDTaken):
		s.logger.Warn(ctx, "demo teacher not seeded, id belongs to another account", "id", DemoTeacherID, "login", DemoTeacherLogin)
	default:
		return fmt.Errorf("error seeding demo teacher: %w", err)
	}

	return nil
}

func (s *UserService) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("essaydesk-no-such-user"), bcryptCost)
	})
	return s.dummyHash
}
