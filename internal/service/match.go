package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"tandem/config"
	"tandem/internal/domain"
)

// MatchServ запрашивает кандидатов для встреч у внешнего сервиса подбора.
// Алгоритм ранжирования целиком на его стороне: мы передаем идентификатор
// пользователя и отдаем ответ как есть.
type MatchServ struct {
	cfg    config.MatchingConfig
	client *http.Client
	log    *zap.Logger
}

func NewMatchService(cfg config.MatchingConfig, log *zap.Logger) *MatchServ {
	return &MatchServ{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

func (s *MatchServ) Candidates(ctx context.Context, userID int64) ([]domain.MatchCandidate, error) {
	if s.cfg.BaseURL == "" {
		return nil, errors.New("сервис подбора не настроен")
	}

	url := fmt.Sprintf("%s/candidates?user_id=%d", s.cfg.BaseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса к сервису подбора: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("сервис подбора недоступен", zap.Error(err))
		return nil, errors.New("сервис подбора временно недоступен")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("сервис подбора вернул ошибку", zap.Int("status", resp.StatusCode))
		return nil, errors.New("сервис подбора временно недоступен")
	}

	var payload struct {
		Candidates []domain.MatchCandidate `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа сервиса подбора: %w", err)
	}

	if payload.Candidates == nil {
		payload.Candidates = []domain.MatchCandidate{}
	}

	return payload.Candidates, nil
}
