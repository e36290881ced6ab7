package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tandem/internal/domain"
	"tandem/internal/repository"
	"tandem/internal/storage"
	"tandem/pkg/auth"
)

type UserServ struct {
	repo  repository.UserRepository
	files storage.FileStorage
	log   *zap.Logger
}

func NewUserService(repo repository.UserRepository, files storage.FileStorage, log *zap.Logger) *UserServ {
	return &UserServ{
		repo:  repo,
		files: files,
		log:   log,
	}
}

func (s *UserServ) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserServ) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) (*domain.User, error) {
	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.log.Error("ошибка обновления пользователя", zap.Int64("user_id", id), zap.Error(err))
		return nil, errors.New("не удалось обновить профиль")
	}

	return s.repo.GetByID(ctx, id)
}

func (s *UserServ) UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := auth.VerifyPassword(dto.OldPassword, user.PasswordHash); err != nil {
		return errors.New("неверный текущий пароль")
	}

	passwordHash, err := auth.HashPassword(dto.NewPassword)
	if err != nil {
		s.log.Error("ошибка хеширования пароля", zap.Error(err))
		return errors.New("не удалось обновить пароль")
	}

	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *UserServ) UploadPhoto(ctx context.Context, id int64, input storage.UploadInput) (string, error) {
	if s.files == nil {
		return "", errors.New("хранилище файлов не настроено")
	}

	input.Name = fmt.Sprintf("%d_%s", id, uuid.NewString())

	url, err := s.files.Upload(ctx, input)
	if err != nil {
		s.log.Error("ошибка загрузки фотографии", zap.Int64("user_id", id), zap.Error(err))
		return "", errors.New("не удалось загрузить фотографию")
	}

	if err := s.repo.UpdatePhoto(ctx, id, url); err != nil {
		return "", err
	}

	return url, nil
}

func (s *UserServ) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserServ) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, limit, offset)
}
