package storage

import (
	"context"
	"io"
)

// FileStorage — хранилище файлов пользователей (фотографии профиля).
type FileStorage interface {
	Upload(ctx context.Context, input UploadInput) (string, error)
	Delete(ctx context.Context, objectName string) error
}

type UploadInput struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}
