package service

import (
	"context"
	"errors"
	"time"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/session"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`

	// Either link an existing employee or provision a new one alongside
	// the account.
	EmployeeID   string `json:"employee_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DepartmentID string `json:"department_id"`
	Position     string `json:"position"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
	Employee   string `json:"employee,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type UserService interface {
	Login(ctx context.Context, req LoginRequest, ip string) (*LoginResponse, error)
	Logout(ctx context.Context, actorID, sessionID, ip string)
	GetUser(ctx context.Context, id string) (*UserResponse, error)
	GetUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error)
	UpdateUser(ctx context.Context, actorID string, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID string, id string) error
}

type userService struct {
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	txRepo       repository.TransactionRepository
	reportRepo   repository.ReportRepository
	activityRepo repository.ActivityRepository
	txManager    repository.TransactionManager
	sessions     *session.Store
	activity     ActivityLogger
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	employeeRepo repository.EmployeeRepository,
	txRepo repository.TransactionRepository,
	reportRepo repository.ReportRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	sessions *session.Store,
	activity ActivityLogger,
	jwtSecret []byte,
	tokenTTL time.Duration,
) UserService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &userService{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		txRepo:       txRepo,
		reportRepo:   reportRepo,
		activityRepo: activityRepo,
		txManager:    txManager,
		sessions:     sessions,
		activity:     activity,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

func mapUser(u *model.User) UserResponse {
	res := UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Role:       u.Role,
		EmployeeID: u.EmployeeID.String(),
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
	if u.Employee != nil {
		res.Employee = u.Employee.FullName()
	}
	return res
}

func (s *userService) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, apperror.Store(err, "failed to look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Create(ctx, sessionID, user.ID.String(), user.Role); err != nil {
		return nil, apperror.Store(err, "failed to create session")
	}

	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"sid":  sessionID,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		s.sessions.Delete(ctx, sessionID)
		return nil, apperror.Store(err, "failed to sign token")
	}

	s.activity.Record(ActivityEntry{
		UserID:     user.ID,
		ActionType: model.ActionLogin,
		EntityType: model.EntityUser,
		EntityID:   user.ID.String(),
		Details:    map[string]interface{}{"email": user.Email},
		IPAddress:  ip,
	})

	return &LoginResponse{Token: token, User: mapUser(user)}, nil
}

func (s *userService) Logout(ctx context.Context, actorID, sessionID, ip string) {
	if sessionID != "" {
		s.sessions.Delete(ctx, sessionID)
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		s.activity.Record(ActivityEntry{
			UserID:     actor,
			ActionType: model.ActionLogout,
			EntityType: model.EntityUser,
			EntityID:   actorID,
			IPAddress:  ip,
		})
	}
}

func (s *userService) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid user id: %s", id)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load user")
	}
	res := mapUser(user)
	return &res, nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Store(err, "failed to list users")
	}
	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, mapUser(&users[i]))
	}
	return res, total, nil
}

func (s *userService) CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*UserResponse, error) {
	if !model.ValidRole(req.Role) {
		return nil, apperror.Validation("invalid role: %s", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Store(err, "failed to hash password")
	}

	var user model.User

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var employeeID uuid.UUID

		if req.EmployeeID != "" {
			parsed, parseErr := uuid.Parse(req.EmployeeID)
			if parseErr != nil {
				return apperror.Validation("invalid employee id: %s", req.EmployeeID)
			}
			if _, findErr := s.employeeRepo.FindByID(txCtx, parsed); findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return apperror.NotFound("employee not found: %s", req.EmployeeID)
				}
				return apperror.Store(findErr, "failed to load employee")
			}
			if _, linkErr := s.userRepo.FindByEmployeeID(txCtx, parsed); linkErr == nil {
				return apperror.Conflict("employee already has a login account")
			} else if !errors.Is(linkErr, gorm.ErrRecordNotFound) {
				return apperror.Store(linkErr, "failed to check employee account")
			}
			employeeID = parsed
		} else {
			deptID, parseErr := uuid.Parse(req.DepartmentID)
			if parseErr != nil {
				return apperror.Validation("invalid department id: %s", req.DepartmentID)
			}
			if req.FirstName == "" || req.LastName == "" {
				return apperror.Validation("employee first and last name are required")
			}
			emp := model.Employee{
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				DepartmentID: deptID,
				Position:     req.Position,
				Email:        req.Email,
			}
			if createErr := s.employeeRepo.Create(txCtx, &emp); createErr != nil {
				return apperror.Store(createErr, "failed to create employee")
			}
			employeeID = emp.ID
		}

		user = model.User{
			Email:      req.Email,
			Password:   string(hash),
			EmployeeID: employeeID,
			Role:       req.Role,
		}
		if createErr := s.userRepo.Create(txCtx, &user); createErr != nil {
			return apperror.Store(createErr, "failed to create user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if actor, parseErr := uuid.Parse(actorID); parseErr == nil {
		s.activity.Record(ActivityEntry{
			UserID:     actor,
			ActionType: model.ActionCreateUser,
			EntityType: model.EntityUser,
			EntityID:   user.ID.String(),
			Details:    map[string]interface{}{"email": user.Email, "role": user.Role},
		})
	}

	res := mapUser(&user)
	return &res, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID string, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid user id: %s", id)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load user")
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		if !model.ValidRole(req.Role) {
			return nil, apperror.Validation("invalid role: %s", req.Role)
		}
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, apperror.Store(hashErr, "failed to hash password")
		}
		user.Password = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.Store(err, "failed to update user")
	}

	if actor, parseErr := uuid.Parse(actorID); parseErr == nil {
		s.activity.Record(ActivityEntry{
			UserID:     actor,
			ActionType: model.ActionUpdateUser,
			EntityType: model.EntityUser,
			EntityID:   user.ID.String(),
			Details:    map[string]interface{}{"email": user.Email, "role": user.Role},
		})
	}

	res := mapUser(user)
	return &res, nil
}

// DeleteUser removes an account and, per the provisioning model, the linked
// employee. Activity rows for the user are purged and ledger/report admin
// references nulled first so history survives without dangling ids.
func (s *userService) DeleteUser(ctx context.Context, actorID string, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid user id: %s", id)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found: %s", id)
		}
		return apperror.Store(err, "failed to load user")
	}
	if user.ID.String() == actorID {
		return apperror.Conflict("cannot delete your own account")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.activityRepo.DeleteByUser(txCtx, userID); delErr != nil {
			return apperror.Store(delErr, "failed to purge user activities")
		}
		if detachErr := s.txRepo.DetachUser(txCtx, userID); detachErr != nil {
			return apperror.Store(detachErr, "failed to detach ledger references")
		}
		if detachErr := s.reportRepo.DetachUser(txCtx, userID); detachErr != nil {
			return apperror.Store(detachErr, "failed to detach report references")
		}
		if delErr := s.userRepo.Delete(txCtx, userID); delErr != nil {
			return apperror.Store(delErr, "failed to delete user")
		}
		if delErr := s.employeeRepo.Delete(txCtx, user.EmployeeID); delErr != nil {
			return apperror.Store(delErr, "failed to delete linked employee")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if actor, parseErr := uuid.Parse(actorID); parseErr == nil {
		s.activity.Record(ActivityEntry{
			UserID:     actor,
			ActionType: model.ActionDeleteUser,
			EntityType: model.EntityUser,
			EntityID:   id,
			Details:    map[string]interface{}{"email": user.Email},
		})
	}
	return nil
}
