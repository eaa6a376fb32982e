package services

import (
	"fmt"
	"strings"
	"time"

	"article-review-api/apperrors"
	"article-review-api/models"
	"article-review-api/repository"
	"article-review-api/utils"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

type RegisterInput struct {
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Role           models.Role
	Bio            *string
	Institution    *string
	Specialization *string
	Location       *string
	SocialLinks    *string
}

// Register creates an Active user with the role from the payload. Admin is
// not self-assignable; an empty role defaults to Author.
func (s *UserService) Register(in RegisterInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleAuthor
	}
	if in.Role == models.RoleAdmin || !in.Role.Valid() {
		return nil, fmt.Errorf("%w: role must be Author or Reviewer", apperrors.ErrBadRequest)
	}
	return s.create(in)
}

// AdminCreate creates a user with any role, including Admin.
func (s *UserService) AdminCreate(callerRole models.Role, in RegisterInput) (*models.User, error) {
	if callerRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can create users", apperrors.ErrForbidden)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrBadRequest, in.Role)
	}
	return s.create(in)
}

func (s *UserService) create(in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !utils.ValidateEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", apperrors.ErrBadRequest)
	}
	if in.PasswordHash == "" {
		return nil, fmt.Errorf("%w: password is required", apperrors.ErrBadRequest)
	}
	if _, err := s.store.Users().FindByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrConflict)
	}

	now := time.Now()
	user := &models.User{
		Email:          email,
		Password:       in.PasswordHash,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Role:           in.Role,
		Status:         models.UserActive,
		Bio:            in.Bio,
		Institution:    in.Institution,
		Specialization: in.Specialization,
		Location:       in.Location,
		SocialLinks:    in.SocialLinks,
		CreateAt:       &now,
		UpdateAt:       &now,
	}
	if err := s.store.Users().Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all active users. Admin only.
func (s *UserService) List(callerRole models.Role) ([]models.User, error) {
	if callerRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can list users", apperrors.ErrForbidden)
	}
	return s.store.Users().List()
}

// Delete soft-deletes a user. Admin only.
func (s *UserService) Delete(userID int, callerRole models.Role) error {
	if callerRole != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can delete users", apperrors.ErrForbidden)
	}
	if err := s.store.Users().SoftDelete(userID, time.Now()); err != nil {
		return fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}
	return nil
}

// Block sets a user's status to Blocked; a blocked account fails
// authentication and token validation. Admin only.
func (s *UserService) Block(userID int, callerRole models.Role) (*models.User, error) {
	if callerRole != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can block users", apperrors.ErrForbidden)
	}
	user, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}

	now := time.Now()
	user.Status = models.UserBlocked
	user.UpdateAt = &now
	if err := s.store.Users().Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns the caller's own record; credential material is excluded
// by the model's JSON tags.
func (s *UserService) Profile(userID int) (*models.User, error) {
	user, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}
	return user, nil
}

// UpdateProfile lets a user edit their own profile fields.
func (s *UserService) UpdateProfile(userID int, bio, institution, specialization, location, socialLinks *string) (*models.User, error) {
	user, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	}

	if bio != nil {
		user.Bio = bio
	}
	if institution != nil {
		user.Institution = institution
	}
	if specialization != nil {
		user.Specialization = specialization
	}
	if location != nil {
		user.Location = location
	}
	if socialLinks != nil {
		user.SocialLinks = socialLinks
	}
	now := time.Now()
	user.UpdateAt = &now

	if err := s.store.Users().Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
