package domain

import (
	"time"
)

// MeetingPreference — запись о готовности пользователя к встречам:
// часовой пояс, видимость в подборе и полный список окон доступности.
// Окна всегда сохраняются целиком, частичного обновления списка нет.
type MeetingPreference struct {
	ID                  int64                `json:"id"`
	UserID              int64                `json:"user_id"`
	Timezone            string               `json:"timezone"`
	Visible             bool                 `json:"visible"`
	AvailabilityWindows []AvailabilityWindow `json:"availability_windows"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type CreatePreferenceDTO struct {
	Timezone            string               `json:"timezone"`
	Visible             bool                 `json:"visible"`
	AvailabilityWindows []AvailabilityWindow `json:"availability_windows"`
}

type UpdatePreferenceDTO struct {
	Timezone            *string               `json:"timezone,omitempty"`
	Visible             *bool                 `json:"visible,omitempty"`
	AvailabilityWindows *[]AvailabilityWindow `json:"availability_windows,omitempty"`
}

// EditorState — снимок сессии редактирования окон, отдаваемый клиенту
// после каждого жеста. Live означает, что запись уже существует и каждое
// изменение немедленно уходит в хранилище.
type EditorState struct {
	SessionID string               `json:"session_id"`
	Live      bool                 `json:"live"`
	Windows   []AvailabilityWindow `json:"windows"`
}

// MatchCandidate приходит из внешнего сервиса подбора как есть,
// алгоритм ранжирования на нашей стороне не определяется.
type MatchCandidate struct {
	UserID         int64   `json:"user_id"`
	Score          float64 `json:"score"`
	CommonWindows  int     `json:"common_windows"`
	OverlapMinutes int     `json:"overlap_minutes"`
}
