package users

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gig-profile/core/database"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for an unknown address.
	ErrNotFound = errors.New("user not found")
	// ErrConflict is returned when registering an address twice.
	ErrConflict = errors.New("user already exists")
)

// InvalidInputError describes a rejected request body.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Service implements the users API operations.
type Service struct {
	repo   *Repository
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a users service on db.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		repo:   NewRepository(db),
		db:     db,
		logger: logger,
	}
}

// Prepare migrates the users table and reports columns still missing afterwards.
func (s *Service) Prepare() ([]string, error) {
	if err := s.repo.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate users: %w", err)
	}
	return database.MissingColumns(s.db, User{}.TableName(), requiredColumns)
}

// Get returns the user with the address.
func (s *Service) Get(ctx context.Context, address string) (*User, error) {
	u, err := s.repo.Find(ctx, address)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// Register creates a new account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.Address = strings.TrimSpace(req.Address)
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	address := req.Address
	role := req.Role
	if role == "" {
		role = RoleClient
	}

	existing, err := s.repo.Find(ctx, address)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	u := &User{
		Address:        address,
		Name:           req.Name,
		Email:          req.Email,
		WhatsappNumber: req.WhatsappNumber,
		Role:           role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("address", address), zap.String("role", role))
	return u, nil
}

// UpdateContact applies the fields present in req to the user's contact data.
func (s *Service) UpdateContact(ctx context.Context, address string, req UpdateRequest) (*User, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	u, err := s.Get(ctx, address)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.WhatsappNumber != nil {
		u.WhatsappNumber = *req.WhatsappNumber
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User contact updated", zap.String("address", address))
	return u, nil
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRequest validates req and returns the first failing field as an
// *InvalidInputError.
func checkRequest(req any) error {
	err := validate.Struct(req)
	var failed validator.ValidationErrors
	if !errors.As(err, &failed) || len(failed) == 0 {
		return err
	}
	fe := failed[0]
	return &InvalidInputError{Field: fe.Field(), Reason: failureReason(fe)}
}

func failureReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid address"
	case "oneof":
		return "must be " + strings.Join(strings.Fields(fe.Param()), " or ")
	default:
		return "failed " + fe.Tag() + " check"
	}
}
