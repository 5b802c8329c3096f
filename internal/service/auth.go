package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jamspace/jamspace/internal/model"
	"github.com/jamspace/jamspace/internal/repository"
	"github.com/jamspace/jamspace/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("a user with this email address has already been registered")
)

type AuthService struct {
	userRepository repository.UserRepository
	profileService *ProfileService
	emailService   *EmailService
	jwtSecret      string
	jwtExpiry      time.Duration
	anonKey        string
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileService *ProfileService,
	emailService *EmailService,
	jwtSecret string,
	jwtExpiry time.Duration,
	anonKey string,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		profileService: profileService,
		emailService:   emailService,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
		anonKey:        anonKey,
	}
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Role     string
	Skills   []string
}

// Signup creates the auth identity and its profile. When the profile cannot
// be written the identity is removed again so the email can be reused.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	name := strings.TrimSpace(in.Name)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	err = validation.ValidatePassword(in.Password)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	err = validation.ValidateName(name)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Metadata: model.UserMetadata{
			Name:   name,
			Role:   in.Role,
			Skills: skills,
		},
		CreatedAt: time.Now().UTC(),
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, &ValidationError{Message: ErrEmailAlreadyExists.Error()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = s.profileService.Create(ctx, NewProfile{
		ID:     user.ID,
		Name:   name,
		Role:   in.Role,
		Email:  email,
		Skills: skills,
	})
	if err != nil {
		delErr := s.userRepository.Delete(context.WithoutCancel(ctx), user.ID)
		if delErr != nil {
			slog.Error("failed to roll back user after profile failure", "error", delErr, "user_id", user.ID)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	err = s.emailService.SendWelcomeEmail(ctx, email, name, in.Role)
	if err != nil {
		slog.Error("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	slog.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrInvalidCredentials)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to its user. Any failure, including
// the anonymous key, yields nil.
func (s *AuthService) Authenticate(ctx context.Context, token string) *model.User {
	if token == "" || (s.anonKey != "" && token == s.anonKey) {
		return nil
	}

	claims, err := s.VerifyJWT(token)
	if err != nil {
		slog.Debug("rejected access token", "error", err)
		return nil
	}

	user, err := s.userRepository.ByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Error("failed to load token user", "error", err, "user_id", claims.Subject)
		}
		return nil
	}
	return user
}

func (s *AuthService) TokenExpiry() time.Duration {
	return s.jwtExpiry
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// AccessClaims are the claims carried by an access token. Subject is the user id.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
