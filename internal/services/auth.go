package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"goa.design/goa/v3/security"
	"gorm.io/gorm"

	"talentdesk/internal/domain"
	"talentdesk/internal/metrics"
	"talentdesk/internal/paging"
	"talentdesk/internal/util"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

type ctxKey int

const userKey ctxKey = iota

// ContextWithUser stores the authenticated user in ctx
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user stored by JWTAuth
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

// ActorFromContext returns the acting identity, or the zero Actor when the
// request is anonymous
func ActorFromContext(ctx context.Context) domain.Actor {
	if user, ok := UserFromContext(ctx); ok {
		return user.Actor()
	}
	return domain.Actor{}
}

// AuthService implements login, session verification and user provisioning
type AuthService struct {
	db     *gorm.DB
	tokens *util.TokenManager
	users  *ttlcache.Cache[string, *domain.User]
}

// NewAuthService creates a new auth service. Verified users are cached by
// username for userTTL; a zero TTL disables the cache.
func NewAuthService(db *gorm.DB, tokens *util.TokenManager, userTTL time.Duration) *AuthService {
	s := &AuthService{db: db, tokens: tokens}
	if userTTL > 0 {
		s.users = ttlcache.New(
			ttlcache.WithTTL[string, *domain.User](userTTL),
			ttlcache.WithDisableTouchOnHit[string, *domain.User](),
		)
		go s.users.Start()
	}
	return s
}

// Close stops the cache janitor
func (s *AuthService) Close() {
	if s.users != nil {
		s.users.Stop()
	}
}

// JWTAuth implements the authorization logic for the JWT security scheme
func (s *AuthService) JWTAuth(ctx context.Context, token string, schema *security.JWTScheme) (context.Context, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return ctx, unauthorized("invalid or expired token")
	}

	user, err := s.sessionUser(ctx, claims.Username)
	if err != nil {
		return ctx, err
	}
	if !user.IsActive {
		return ctx, unauthorized("user account is inactive")
	}

	if schema != nil && len(schema.RequiredScopes) > 0 {
		hasScope := false
		for _, requiredScope := range schema.RequiredScopes {
			if requiredScope == "admin" && user.IsAdmin {
				hasScope = true
				break
			}
			if requiredScope == "staff" && (user.IsStaff || user.IsAdmin) {
				hasScope = true
				break
			}
		}
		if !hasScope {
			return ctx, forbidden("insufficient permissions")
		}
	}

	return ContextWithUser(ctx, user), nil
}

func (s *AuthService) sessionUser(ctx context.Context, username string) (*domain.User, error) {
	if s.users != nil {
		if item := s.users.Get(username); item != nil {
			u := *item.Value()
			return &u, nil
		}
	}

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized("user not found")
		}
		return nil, internal("AUTH", "failed to get user", err)
	}
	if s.users != nil {
		cached := user
		s.users.Set(username, &cached, ttlcache.DefaultTTL)
	}
	return &user, nil
}

func (s *AuthService) forget(username string) {
	if s.users != nil {
		s.users.Delete(username)
	}
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, p *api.LoginRequest) (*api.LoginResult, error) {
	username := strings.TrimSpace(p.Username)
	password := strings.TrimSpace(p.Password)

	log.Printf("[AUTH] Login attempt for user: %s", username)
	if err := api.Validate(p); err != nil {
		metrics.RecordAuthAttempt(false)
		return nil, err
	}

	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		metrics.RecordAuthAttempt(false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[AUTH] Login failed: user '%s' not found", username)
			return nil, unauthorized("incorrect username or password")
		}
		return nil, internal("AUTH", "failed to load user", err)
	}

	if !util.CheckPasswordHash(password, user.HashedPassword) {
		log.Printf("[AUTH] Login failed: invalid password for user '%s'", username)
		metrics.RecordAuthAttempt(false)
		return nil, unauthorized("incorrect username or password")
	}
	if !user.IsActive {
		log.Printf("[AUTH] Login failed: user '%s' is inactive", username)
		metrics.RecordAuthAttempt(false)
		return nil, unauthorized("user account is inactive")
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		log.Printf("[AUTH] Warning: failed to record last login for '%s': %v", username, err)
	}

	token, err := s.tokens.GenerateToken(&user)
	if err != nil {
		return nil, internal("AUTH", "failed to generate token", err)
	}

	log.Printf("[AUTH] Login successful for user '%s' (id=%d, admin=%v, staff=%v)", username, user.ID, user.IsAdmin, user.IsStaff)
	metrics.RecordAuthAttempt(true)
	return &api.LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

// CreateUser provisions a new account (admin only)
func (s *AuthService) CreateUser(ctx context.Context, p *api.CreateUserRequest, actor domain.Actor) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if err := api.Validate(p); err != nil {
		return nil, err
	}
	log.Printf("[AUTH] CreateUser request: username=%s, email=%s by=%s", p.Username, p.Email, actor.Username)

	if err := s.ensureUnique(ctx, "username", p.Username, 0); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, "email", p.Email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := util.HashPassword(p.Password)
	if err != nil {
		return nil, internal("AUTH", "failed to hash password", err)
	}

	user := domain.User{
		Username:       p.Username,
		Email:          p.Email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsAdmin:        p.IsAdmin,
		IsStaff:        p.IsStaff,
	}
	if p.IsActive != nil {
		user.IsActive = *p.IsActive
	}
	if p.FullName != nil {
		fullName := strings.TrimSpace(*p.FullName)
		user.FullName = &fullName
	}

	// Select writes is_active even when false, which a zero-value default would skip.
	if err := s.db.WithContext(ctx).Select("*").Omit("id").Create(&user).Error; err != nil {
		return nil, internal("AUTH", "failed to create user", err)
	}

	log.Printf("[AUTH] CreateUser successful: username=%s, id=%d", user.Username, user.ID)
	return &user, nil
}

// ensureUnique rejects a username or email already held by another account
func (s *AuthService) ensureUnique(ctx context.Context, column, value string, exceptID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(&domain.User{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return internal("AUTH", "failed to check "+column, err)
	}
	if count > 0 {
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeConflict,
			Message: fmt.Sprintf("%s already registered", column),
			Field:   column,
		}
	}
	return nil
}

// ListUsers returns one page of accounts, newest first (admin only)
func (s *AuthService) ListUsers(ctx context.Context, search string, params paging.Params, actor domain.Actor) (paging.Page[domain.User], error) {
	if err := requireAdmin(actor); err != nil {
		return paging.Page[domain.User]{}, err
	}
	params = params.Normalize()
	log.Printf("[AUTH] ListUsers request: search=%q, page=%d, size=%d", search, params.PageNumber, params.PageSize)

	q := s.db.WithContext(ctx).Model(&domain.User{})
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(full_name, '')) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return paging.Page[domain.User]{}, internal("AUTH", "failed to count users", err)
	}
	var users []domain.User
	if err := q.Order("created_at DESC, id DESC").Offset(params.Offset()).Limit(params.PageSize).Find(&users).Error; err != nil {
		return paging.Page[domain.User]{}, internal("AUTH", "failed to list users", err)
	}

	log.Printf("[AUTH] ListUsers successful: returned %d of %d users", len(users), total)
	return paging.NewPage(users, int(total), params), nil
}

// GetUser loads one account (admin only)
func (s *AuthService) GetUser(ctx context.Context, id uint, actor domain.Actor) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr("AUTH", "user", id, err)
	}
	return &user, nil
}

// UpdateUser applies the supplied fields to an account (admin only)
func (s *AuthService) UpdateUser(ctx context.Context, id uint, p *api.UpdateUserRequest, actor domain.Actor) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := api.Validate(p); err != nil {
		return nil, err
	}
	log.Printf("[AUTH] UpdateUser request: id=%d by=%s", id, actor.Username)

	user, err := s.GetUser(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	previousUsername := user.Username

	if p.Username != nil {
		username := strings.TrimSpace(*p.Username)
		if err := s.ensureUnique(ctx, "username", username, id); err != nil {
			return nil, err
		}
		user.Username = username
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if err := s.ensureUnique(ctx, "email", email, id); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if p.FullName != nil {
		fullName := strings.TrimSpace(*p.FullName)
		user.FullName = &fullName
	}
	if p.IsActive != nil {
		user.IsActive = *p.IsActive
	}
	if p.IsAdmin != nil {
		if !*p.IsAdmin && user.ID == actor.UserID {
			return nil, badRequest("cannot remove your own admin role")
		}
		user.IsAdmin = *p.IsAdmin
	}
	if p.IsStaff != nil {
		user.IsStaff = *p.IsStaff
	}
	if p.Password != nil {
		hashedPassword, err := util.HashPassword(*p.Password)
		if err != nil {
			return nil, internal("AUTH", "failed to hash password", err)
		}
		user.HashedPassword = hashedPassword
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, internal("AUTH", "failed to update user", err)
	}
	s.forget(previousUsername)
	s.forget(user.Username)

	log.Printf("[AUTH] UpdateUser successful: id=%d, username=%s", user.ID, user.Username)
	return user, nil
}

// DeleteUser removes an account (admin only); self-deletion is rejected
func (s *AuthService) DeleteUser(ctx context.Context, id uint, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	log.Printf("[AUTH] DeleteUser request: id=%d by user=%s", id, actor.Username)

	user, err := s.GetUser(ctx, id, actor)
	if err != nil {
		return err
	}
	if user.ID == actor.UserID {
		log.Printf("[AUTH] DeleteUser failed: user '%s' attempted self-deletion", actor.Username)
		return badRequest("cannot delete your own account")
	}

	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return internal("AUTH", "failed to delete user", err)
	}
	s.forget(user.Username)

	log.Printf("[AUTH] DeleteUser successful: deleted user id=%d, username=%s", user.ID, user.Username)
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no user with that
// username exists. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check admin user: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		return false, err
	}
	fullName := "System Administrator"
	admin := domain.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       &fullName,
		IsActive:       true,
		IsAdmin:        true,
		IsStaff:        true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}
	return true, nil
}
