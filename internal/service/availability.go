package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tandem/internal/calendar"
	"tandem/internal/domain"
	"tandem/internal/repository"
)

// editorSession — одна открытая сессия редактирования окон доступности.
// Список окон живет в памяти сессии; жесты сериализуются мьютексом,
// поэтому внутри сессии откат всегда восстанавливает ровно то
// состояние, что было до жеста.
type editorSession struct {
	mu      sync.Mutex
	userID  int64
	prefID  int64
	live    bool
	windows []domain.AvailabilityWindow
}

type AvailabilityServ struct {
	repo repository.PreferenceRepository
	log  *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*editorSession

	now func() time.Time
}

func NewAvailabilityService(repo repository.PreferenceRepository, log *zap.Logger) *AvailabilityServ {
	return &AvailabilityServ{
		repo:     repo,
		log:      log,
		sessions: make(map[string]*editorSession),
		now:      time.Now,
	}
}

// OpenEditor загружает текущую запись пользователя и открывает сессию.
// Если записи еще нет, сессия работает как черновик: жесты меняют только
// память, в хранилище ничего не уходит до явного Save.
func (s *AvailabilityServ) OpenEditor(ctx context.Context, userID int64) (*domain.EditorState, error) {
	pref, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		s.log.Error("не удалось загрузить запись о встречах", zap.Int64("user_id", userID), zap.Error(err))
		return nil, domain.ErrSyncFailed
	}

	session := &editorSession{
		userID:  userID,
		windows: []domain.AvailabilityWindow{},
	}
	if pref != nil {
		session.prefID = pref.ID
		session.live = true
		session.windows = append(session.windows, pref.AvailabilityWindows...)
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return snapshot(id, session), nil
}

func (s *AvailabilityServ) CloseEditor(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return domain.ErrEditorNotFound
	}

	delete(s.sessions, sessionID)
	return nil
}

// CreateWindow добавляет окно в конец списка. Дубликаты и окна в прошлом
// отклоняются до применения; неудачная синхронизация убирает окно обратно.
func (s *AvailabilityServ) CreateWindow(ctx context.Context, sessionID string, window domain.AvailabilityWindow) (*domain.EditorState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := window.Validate(); err != nil {
		return nil, err
	}

	if indexOf(session.windows, window) >= 0 {
		return nil, domain.ErrDuplicateWindow
	}

	if s.inPast(window) {
		return nil, domain.ErrPastTimeSelected
	}

	session.windows = append(session.windows, window)

	if err := s.sync(ctx, session); err != nil {
		session.windows = session.windows[:len(session.windows)-1]
		return nil, err
	}

	return snapshot(sessionID, session), nil
}

// UpdateWindow заменяет окно, стоящее за перетащенным событием, на
// replacement. Цель ищется по структурному совпадению; если ее нет в
// списке, жест игнорируется — календарь мог разойтись с состоянием
// сессии, и это не ошибка клиента. Событие, чье окончание уже прошло,
// перемещать нельзя: для еженедельного окна это запрещает трогать
// прошедшее повторение, не запрещая будущие.
func (s *AvailabilityServ) UpdateWindow(ctx context.Context, sessionID string, event domain.AvailabilityEvent, replacement domain.AvailabilityWindow) (*domain.EditorState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !event.Complete() {
		s.log.Warn("неполное событие календаря отброшено", zap.String("session_id", sessionID))
		return snapshot(sessionID, session), nil
	}

	if err := replacement.Validate(); err != nil {
		return nil, err
	}

	target := event.Window()

	idx := indexOf(session.windows, target)
	if idx < 0 {
		s.log.Warn("окно для обновления не найдено",
			zap.String("session_id", sessionID),
			zap.String("start", target.StartTime),
			zap.String("end", target.EndTime),
		)
		return snapshot(sessionID, session), nil
	}

	if event.End.Before(s.now()) {
		return nil, domain.ErrModifyPastOccurrence
	}

	if s.inPast(replacement) {
		return nil, domain.ErrPastTimeSelected
	}

	for i, w := range session.windows {
		if i != idx && w.IsDuplicateOf(replacement) {
			return nil, domain.ErrDuplicateWindow
		}
	}

	prev := session.windows[idx]
	session.windows[idx] = replacement

	if err := s.sync(ctx, session); err != nil {
		session.windows[idx] = prev
		return nil, err
	}

	return snapshot(sessionID, session), nil
}

// DeleteWindow убирает окно из списка. Отсутствующая цель, как и при
// обновлении, дает no-op с записью в лог.
func (s *AvailabilityServ) DeleteWindow(ctx context.Context, sessionID string, target domain.AvailabilityWindow) (*domain.EditorState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	idx := indexOf(session.windows, target)
	if idx < 0 {
		s.log.Warn("окно для удаления не найдено",
			zap.String("session_id", sessionID),
			zap.String("start", target.StartTime),
			zap.String("end", target.EndTime),
		)
		return snapshot(sessionID, session), nil
	}

	prev := session.windows[idx]
	session.windows = append(session.windows[:idx], session.windows[idx+1:]...)

	if err := s.sync(ctx, session); err != nil {
		session.windows = append(session.windows, domain.AvailabilityWindow{})
		copy(session.windows[idx+1:], session.windows[idx:])
		session.windows[idx] = prev
		return nil, err
	}

	return snapshot(sessionID, session), nil
}

// ConvertWindow переключает режим окна: еженедельное становится разовым
// на конкретную дату события, разовое — еженедельным. Протокол — удалить
// и создать заново, двумя последовательными синхронизациями. Если вторая
// не прошла, удаление не компенсируется: окно пропадает из списка, и
// пользователь видит это сразу.
func (s *AvailabilityServ) ConvertWindow(ctx context.Context, sessionID string, event domain.AvailabilityEvent) (*domain.EditorState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !event.Complete() {
		s.log.Warn("неполное событие календаря отброшено", zap.String("session_id", sessionID))
		return snapshot(sessionID, session), nil
	}

	source := event.Window()

	idx := indexOf(session.windows, source)
	if idx < 0 {
		s.log.Warn("окно для конвертации не найдено",
			zap.String("session_id", sessionID),
			zap.String("start", source.StartTime),
			zap.String("end", source.EndTime),
		)
		return snapshot(sessionID, session), nil
	}

	if event.End.Before(s.now()) {
		return nil, domain.ErrModifyPastOccurrence
	}

	converted := convert(source, event.Start)
	if err := converted.Validate(); err != nil {
		return nil, err
	}

	for i, w := range session.windows {
		if i != idx && w.IsDuplicateOf(converted) {
			return nil, domain.ErrDuplicateWindow
		}
	}

	prev := session.windows[idx]
	session.windows = append(session.windows[:idx], session.windows[idx+1:]...)

	if err := s.sync(ctx, session); err != nil {
		session.windows = append(session.windows, domain.AvailabilityWindow{})
		copy(session.windows[idx+1:], session.windows[idx:])
		session.windows[idx] = prev
		return nil, err
	}

	session.windows = append(session.windows, converted)

	if err := s.sync(ctx, session); err != nil {
		session.windows = session.windows[:len(session.windows)-1]
		return nil, err
	}

	return snapshot(sessionID, session), nil
}

// Week проецирует окна сессии на неделю, содержащую reference.
func (s *AvailabilityServ) Week(sessionID string, reference time.Time) ([]domain.AvailabilityEvent, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	return calendar.Project(session.windows, reference), nil
}

// Save создает запись о встречах из черновой сессии. Для уже живой
// сессии обновляет часовой пояс и видимость вместе с текущим списком.
func (s *AvailabilityServ) Save(ctx context.Context, sessionID string, dto domain.CreatePreferenceDTO) (*domain.MeetingPreference, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.live {
		windows := append([]domain.AvailabilityWindow{}, session.windows...)
		pref, err := s.repo.Update(ctx, session.userID, session.prefID, domain.UpdatePreferenceDTO{
			Timezone:            &dto.Timezone,
			Visible:             &dto.Visible,
			AvailabilityWindows: &windows,
		})
		if err != nil {
			s.log.Error("не удалось обновить запись о встречах", zap.Int64("user_id", session.userID), zap.Error(err))
			return nil, domain.ErrSyncFailed
		}
		session.windows = append(session.windows[:0], pref.AvailabilityWindows...)
		return pref, nil
	}

	dto.AvailabilityWindows = append([]domain.AvailabilityWindow{}, session.windows...)

	pref, err := s.repo.Create(ctx, session.userID, dto)
	if err != nil {
		s.log.Error("не удалось создать запись о встречах", zap.Int64("user_id", session.userID), zap.Error(err))
		return nil, domain.ErrSyncFailed
	}

	session.prefID = pref.ID
	session.live = true
	session.windows = append(session.windows[:0], pref.AvailabilityWindows...)

	return pref, nil
}

// sync отправляет весь список окон в хранилище. В черновой сессии
// сети нет: жесты остаются локальными до Save. Ответ сервера считается
// истиной и замещает локальный список.
func (s *AvailabilityServ) sync(ctx context.Context, session *editorSession) error {
	if !session.live {
		return nil
	}

	windows := append([]domain.AvailabilityWindow{}, session.windows...)

	pref, err := s.repo.Update(ctx, session.userID, session.prefID, domain.UpdatePreferenceDTO{
		AvailabilityWindows: &windows,
	})
	if err != nil {
		s.log.Error("синхронизация окон не удалась",
			zap.Int64("user_id", session.userID),
			zap.Int("windows", len(windows)),
			zap.Error(err),
		)
		return domain.ErrSyncFailed
	}

	session.windows = append(session.windows[:0], pref.AvailabilityWindows...)
	return nil
}

func (s *AvailabilityServ) session(id string) (*editorSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrEditorNotFound
	}
	return session, nil
}

// inPast сообщает, прошло ли начало разового окна: такое время нельзя
// выбирать для новых окон. Еженедельные окна не бывают прошедшими:
// следующее повторение всегда впереди.
func (s *AvailabilityServ) inPast(w domain.AvailabilityWindow) bool {
	if w.IsRecurring() {
		return false
	}

	now := s.now()

	date, err := time.ParseInLocation(domain.DateLayout, w.SpecificDate, now.Location())
	if err != nil {
		return false
	}

	start, err := time.Parse(domain.TimeLayout, w.StartTime)
	if err != nil {
		return false
	}

	begin := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, now.Location())
	return begin.Before(now)
}

func convert(source domain.AvailabilityWindow, occurrence time.Time) domain.AvailabilityWindow {
	converted := domain.AvailabilityWindow{
		StartTime: source.StartTime,
		EndTime:   source.EndTime,
	}

	if source.IsRecurring() {
		oneTime := false
		converted.Recurring = &oneTime
		converted.SpecificDate = occurrence.Format(domain.DateLayout)
		return converted
	}

	converted.DayOfWeek = domain.WeekdayOf(occurrence)
	return converted
}

func indexOf(windows []domain.AvailabilityWindow, target domain.AvailabilityWindow) int {
	for i, w := range windows {
		if w.IsDuplicateOf(target) {
			return i
		}
	}
	return -1
}

func snapshot(sessionID string, session *editorSession) *domain.EditorState {
	return &domain.EditorState{
		SessionID: sessionID,
		Live:      session.live,
		Windows:   append([]domain.AvailabilityWindow{}, session.windows...),
	}
}
