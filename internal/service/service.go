package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tandem/config"
	"tandem/internal/domain"
	"tandem/internal/repository"
	"tandem/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
}

type Services struct {
	User         UserService
	Auth         AuthService
	Availability AvailabilityService
	Match        MatchService
}

func NewServices(deps Deps) *Services {
	return &Services{
		User:         NewUserService(deps.Repos.User, deps.FileStorage, deps.Logger),
		Auth:         NewAuthService(deps.Repos.User, deps.Repos.Auth, deps.Config.JWT, deps.Logger),
		Availability: NewAvailabilityService(deps.Repos.Preference, deps.Logger),
		Match:        NewMatchService(deps.Config.Matching, deps.Logger),
	}
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	UploadPhoto(ctx context.Context, id int64, input storage.UploadInput) (string, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, req domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	Refresh(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(accessToken string) (int64, domain.UserRole, error)
}

// AvailabilityService ведет сессии редактирования окон доступности.
// Каждый жест применяется к локальной копии списка и, в режиме
// редактирования существующей записи, немедленно синхронизируется
// с хранилищем целиком. Неудачная синхронизация откатывает жест.
type AvailabilityService interface {
	OpenEditor(ctx context.Context, userID int64) (*domain.EditorState, error)
	CloseEditor(sessionID string) error
	CreateWindow(ctx context.Context, sessionID string, window domain.AvailabilityWindow) (*domain.EditorState, error)
	UpdateWindow(ctx context.Context, sessionID string, event domain.AvailabilityEvent, replacement domain.AvailabilityWindow) (*domain.EditorState, error)
	DeleteWindow(ctx context.Context, sessionID string, target domain.AvailabilityWindow) (*domain.EditorState, error)
	ConvertWindow(ctx context.Context, sessionID string, event domain.AvailabilityEvent) (*domain.EditorState, error)
	Week(sessionID string, reference time.Time) ([]domain.AvailabilityEvent, error)
	Save(ctx context.Context, sessionID string, dto domain.CreatePreferenceDTO) (*domain.MeetingPreference, error)
}

type MatchService interface {
	Candidates(ctx context.Context, userID int64) ([]domain.MatchCandidate, error)
}
