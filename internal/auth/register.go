package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/arshoplabs/arshop-backend/internal/users"
	"github.com/arshoplabs/arshop-backend/pkg/config"
	"github.com/arshoplabs/arshop-backend/pkg/db"
	pkgerrors "github.com/arshoplabs/arshop-backend/pkg/errors"
	"github.com/arshoplabs/arshop-backend/pkg/security"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 20
	passwordMinLen = 8
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// RegisterService handles account signup.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register validates the signup form, collecting every violated rule so
// the caller sees them all at once, then persists the account.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var violations error
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		violations = multierr.Append(violations,
			errors.New("Username must be between 3 and 20 characters."))
	}
	if username != "" && !usernameRe.MatchString(username) {
		violations = multierr.Append(violations,
			errors.New("Username must contain only letters and numbers."))
	}
	if email == "" {
		violations = multierr.Append(violations,
			errors.New("Email is required."))
	}
	if len(req.Password) < passwordMinLen {
		violations = multierr.Append(violations,
			errors.New("Password must be at least 8 characters long."))
	}
	if req.Password != req.ConfirmPassword {
		violations = multierr.Append(violations,
			errors.New("Passwords do not match."))
	}

	taken, err := s.checkUniqueness(ctx, username, email)
	if err != nil {
		return nil, err
	}
	violations = multierr.Append(violations, taken)
	if violations != nil {
		return nil, validationError(violations)
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
		})
		if err != nil {
			// a concurrent signup can still win the race past the pre-check
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{User: created}, nil
}

func (s *registerService) checkUniqueness(ctx context.Context, username, email string) (error, error) {
	var violations error
	userRepo := users.NewRepository(s.db.DB())

	if username != "" {
		taken, err := userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}
		if taken {
			violations = multierr.Append(violations, errors.New("Username already exists."))
		}
	}
	if email != "" {
		taken, err := userRepo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if taken {
			violations = multierr.Append(violations, errors.New("Email already registered."))
		}
	}
	return violations, nil
}

func validationError(violations error) error {
	messages := make([]string, 0)
	for _, violation := range multierr.Errors(violations) {
		messages = append(messages, violation.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "registration failed").
		WithDetails(messages)
}
