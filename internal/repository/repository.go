package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tandem/internal/domain"
)

type Repositories struct {
	User       UserRepository
	Auth       AuthRepository
	Preference PreferenceRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Auth:       NewAuthRepository(db),
		Preference: NewPreferenceRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdatePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	RotateSession(ctx context.Context, oldID string, session domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

// PreferenceRepository — удаленное хранилище записей о встречах.
// Список окон всегда передается целиком, дельт нет; Create и Update
// возвращают запись в том виде, в котором ее сохранил сервер.
type PreferenceRepository interface {
	Create(ctx context.Context, userID int64, dto domain.CreatePreferenceDTO) (*domain.MeetingPreference, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.MeetingPreference, error)
	Update(ctx context.Context, userID, id int64, dto domain.UpdatePreferenceDTO) (*domain.MeetingPreference, error)
	Delete(ctx context.Context, id int64) error
}
