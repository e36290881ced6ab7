package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tandem/config"
	"tandem/internal/domain"
	"tandem/internal/repository"
	"tandem/pkg/auth"
	"tandem/pkg/validator"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

type AuthServ struct {
	userRepo repository.UserRepository
	authRepo repository.AuthRepository
	cfg      config.JWTConfig
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, authRepo repository.AuthRepository, cfg config.JWTConfig, log *zap.Logger) *AuthServ {
	return &AuthServ{
		userRepo: userRepo,
		authRepo: authRepo,
		cfg:      cfg,
		log:      log,
	}
}

func (s *AuthServ) Register(ctx context.Context, req domain.RegisterRequest) (int64, error) {
	if !validator.IsValidEmail(req.Email) {
		return 0, errors.New("некорректный email")
	}

	if !validator.IsValidPhone(req.Phone) {
		return 0, errors.New("некорректный номер телефона")
	}

	if !validator.IsValidBirthDate(req.BirthDate) {
		return 0, errors.New("некорректная дата рождения")
	}

	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return 0, errors.New("пользователь с таким email уже существует")
	}

	if existing, _ := s.userRepo.GetByPhone(ctx, req.Phone); existing != nil {
		return 0, errors.New("пользователь с таким телефоном уже существует")
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("ошибка хеширования пароля", zap.Error(err))
		return 0, errors.New("не удалось зарегистрировать пользователя")
	}

	id, err := s.userRepo.Create(ctx, domain.CreateUserDTO{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(req.Email),
		Phone:     req.Phone,
		Password:  passwordHash,
		BirthDate: req.BirthDate,
		City:      req.City,
	})
	if err != nil {
		s.log.Error("ошибка создания пользователя", zap.Error(err))
		return 0, errors.New("не удалось зарегистрировать пользователя")
	}

	return id, nil
}

func (s *AuthServ) Login(ctx context.Context, req domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	var user *domain.User
	var err error

	if strings.Contains(req.Login, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(req.Login))
	} else {
		user, err = s.userRepo.GetByPhone(ctx, req.Login)
	}

	if err != nil || user == nil {
		return nil, errors.New("неверный логин или пароль")
	}

	if !user.IsActive {
		return nil, errors.New("учетная запись отключена")
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		return nil, errors.New("неверный логин или пароль")
	}

	tokens, session, err := s.newSession(user, userAgent, ip)
	if err != nil {
		return nil, err
	}

	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		s.log.Error("ошибка создания сессии", zap.Error(err))
		return nil, errors.New("не удалось выполнить вход")
	}

	return tokens, nil
}

func (s *AuthServ) Refresh(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("недействительный refresh-токен")
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.authRepo.DeleteSession(ctx, session.ID)
		return nil, errors.New("срок действия сессии истек")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil || user == nil || !user.IsActive {
		return nil, errors.New("пользователь не найден")
	}

	tokens, next, err := s.newSession(user, userAgent, ip)
	if err != nil {
		return nil, err
	}

	if err := s.authRepo.RotateSession(ctx, session.ID, next); err != nil {
		s.log.Error("ошибка ротации сессии", zap.Error(err))
		return nil, errors.New("не удалось обновить токены")
	}

	return tokens, nil
}

func (s *AuthServ) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return errors.New("недействительный refresh-токен")
	}

	return s.authRepo.DeleteSession(ctx, session.ID)
}

func (s *AuthServ) ParseToken(accessToken string) (int64, domain.UserRole, error) {
	token, err := jwt.ParseWithClaims(accessToken, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("неожиданный метод подписи токена")
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return 0, "", errors.New("недействительный токен")
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("недействительный токен")
	}

	return claims.UserID, claims.Role, nil
}

// newSession собирает пару токенов и сессию, не сохраняя ее: вход
// создает сессию, обновление ротирует существующую.
func (s *AuthServ) newSession(user *domain.User, userAgent, ip string) (*domain.Tokens, domain.Session, error) {
	now := time.Now()

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SigningKey))
	if err != nil {
		s.log.Error("ошибка подписи токена", zap.Error(err))
		return nil, domain.Session{}, errors.New("не удалось выполнить вход")
	}

	refreshToken, err := auth.GenerateRandomToken(32)
	if err != nil {
		s.log.Error("ошибка генерации refresh-токена", zap.Error(err))
		return nil, domain.Session{}, errors.New("не удалось выполнить вход")
	}

	session := domain.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt:    now,
	}

	tokens := &domain.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	return tokens, session, nil
}
