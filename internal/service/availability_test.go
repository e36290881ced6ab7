package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tandem/internal/calendar"
	"tandem/internal/domain"
)

// fakePreferenceRepo изображает удаленное хранилище: считает обращения,
// запоминает последний присланный список и по команде начинает отвечать
// ошибкой с заданной по счету синхронизации.
type fakePreferenceRepo struct {
	pref     *domain.MeetingPreference
	creates  int
	updates  int
	failFrom int
	last     []domain.AvailabilityWindow
}

func (r *fakePreferenceRepo) Create(_ context.Context, userID int64, dto domain.CreatePreferenceDTO) (*domain.MeetingPreference, error) {
	r.creates++

	r.pref = &domain.MeetingPreference{
		ID:                  1,
		UserID:              userID,
		Timezone:            dto.Timezone,
		Visible:             dto.Visible,
		AvailabilityWindows: append([]domain.AvailabilityWindow{}, dto.AvailabilityWindows...),
	}
	r.last = r.pref.AvailabilityWindows

	return r.pref, nil
}

func (r *fakePreferenceRepo) GetByUserID(_ context.Context, userID int64) (*domain.MeetingPreference, error) {
	if r.pref == nil || r.pref.UserID != userID {
		return nil, nil
	}
	return r.pref, nil
}

func (r *fakePreferenceRepo) Update(_ context.Context, userID, id int64, dto domain.UpdatePreferenceDTO) (*domain.MeetingPreference, error) {
	r.updates++

	if r.failFrom > 0 && r.updates >= r.failFrom {
		return nil, errors.New("хранилище недоступно")
	}

	if dto.AvailabilityWindows != nil {
		r.pref.AvailabilityWindows = append([]domain.AvailabilityWindow{}, *dto.AvailabilityWindows...)
		r.last = r.pref.AvailabilityWindows
	}
	if dto.Timezone != nil {
		r.pref.Timezone = *dto.Timezone
	}
	if dto.Visible != nil {
		r.pref.Visible = *dto.Visible
	}

	return r.pref, nil
}

func (r *fakePreferenceRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}

var testNow = time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakePreferenceRepo) *AvailabilityServ {
	svc := NewAvailabilityService(repo, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func openLiveSession(t *testing.T, svc *AvailabilityServ, repo *fakePreferenceRepo, windows ...domain.AvailabilityWindow) *domain.EditorState {
	t.Helper()

	repo.pref = &domain.MeetingPreference{
		ID:                  1,
		UserID:              42,
		Timezone:            "Europe/Moscow",
		Visible:             true,
		AvailabilityWindows: windows,
	}

	state, err := svc.OpenEditor(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, state.Live)

	return state
}

func TestOpenEditor_Draft(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	state, err := svc.OpenEditor(context.Background(), 42)
	require.NoError(t, err)

	assert.False(t, state.Live)
	assert.Empty(t, state.Windows)
	assert.NotEmpty(t, state.SessionID)
}

func TestCreateWindow_DraftStaysLocal(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	state, err := svc.OpenEditor(context.Background(), 42)
	require.NoError(t, err)

	state, err = svc.CreateWindow(context.Background(), state.SessionID, domain.AvailabilityWindow{
		DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00",
	})
	require.NoError(t, err)

	assert.Len(t, state.Windows, 1)
	assert.Zero(t, repo.updates, "черновая сессия не ходит в хранилище")
	assert.Zero(t, repo.creates)
}

func TestCreateWindow_LiveSyncsWholeList(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	existing := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "09:00", EndTime: "10:00"}
	state := openLiveSession(t, svc, repo, existing)

	added := domain.AvailabilityWindow{DayOfWeek: domain.Friday, StartTime: "18:00", EndTime: "20:00"}
	state, err := svc.CreateWindow(context.Background(), state.SessionID, added)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.updates, "один жест — одна синхронизация")
	require.Len(t, repo.last, 2, "список уходит целиком, а не дельтой")
	assert.True(t, repo.last[0].IsDuplicateOf(existing))
	assert.True(t, repo.last[1].IsDuplicateOf(added))
	assert.Len(t, state.Windows, 2)
}

func TestCreateWindow_Duplicate(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	window := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state := openLiveSession(t, svc, repo, window)

	_, err := svc.CreateWindow(context.Background(), state.SessionID, window)
	assert.ErrorIs(t, err, domain.ErrDuplicateWindow)
	assert.Zero(t, repo.updates, "дубликат отклоняется до похода в хранилище")
}

func TestCreateWindow_TooShort(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)
	state := openLiveSession(t, svc, repo)

	_, err := svc.CreateWindow(context.Background(), state.SessionID, domain.AvailabilityWindow{
		DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "18:10",
	})
	assert.ErrorIs(t, err, domain.ErrWindowTooShort)
}

func TestCreateWindow_PastOneTime(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)
	state := openLiveSession(t, svc, repo)

	_, err := svc.CreateWindow(context.Background(), state.SessionID, domain.AvailabilityWindow{
		StartTime: "09:00", EndTime: "10:00",
		Recurring: boolPtr(false), SpecificDate: "2025-03-01",
	})
	assert.ErrorIs(t, err, domain.ErrPastTimeSelected)
}

func TestCreateWindow_RollbackOnSyncFailure(t *testing.T) {
	repo := &fakePreferenceRepo{failFrom: 1}
	svc := newTestService(repo)

	existing := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "09:00", EndTime: "10:00"}
	state := openLiveSession(t, svc, repo, existing)

	_, err := svc.CreateWindow(context.Background(), state.SessionID, domain.AvailabilityWindow{
		DayOfWeek: domain.Friday, StartTime: "18:00", EndTime: "20:00",
	})
	assert.ErrorIs(t, err, domain.ErrSyncFailed)

	events, err := svc.Week(state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1, "после отката в сессии остается только исходное окно")
	assert.True(t, events[0].Window().IsDuplicateOf(existing))
}

func weekEvent(t *testing.T, svc *AvailabilityServ, sessionID string, reference time.Time) domain.AvailabilityEvent {
	t.Helper()

	events, err := svc.Week(sessionID, reference)
	require.NoError(t, err)
	require.Len(t, events, 1)

	return events[0]
}

func TestUpdateWindow_ReplacesTarget(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	target := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state := openLiveSession(t, svc, repo, target)

	event := weekEvent(t, svc, state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))

	replacement := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "19:00", EndTime: "21:00"}
	state, err := svc.UpdateWindow(context.Background(), state.SessionID, event, replacement)
	require.NoError(t, err)

	require.Len(t, state.Windows, 1)
	assert.True(t, state.Windows[0].IsDuplicateOf(replacement))
	assert.Equal(t, 1, repo.updates)
}

func TestUpdateWindow_MissingTargetIsNoop(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	existing := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "09:00", EndTime: "10:00"}
	state := openLiveSession(t, svc, repo, existing)

	ghost := domain.AvailabilityEvent{
		Title:     "Свободное время",
		Start:     time.Date(2025, time.March, 16, 9, 0, 0, 0, time.UTC),
		End:       time.Date(2025, time.March, 16, 10, 0, 0, 0, time.UTC),
		DayOfWeek: domain.Sunday,
		StartTime: "09:00",
		EndTime:   "10:00",
	}
	state, err := svc.UpdateWindow(context.Background(), state.SessionID, ghost, domain.AvailabilityWindow{
		DayOfWeek: domain.Sunday, StartTime: "10:00", EndTime: "11:00",
	})

	require.NoError(t, err, "отсутствующая цель — no-op, а не ошибка")
	assert.Zero(t, repo.updates)
	require.Len(t, state.Windows, 1)
	assert.True(t, state.Windows[0].IsDuplicateOf(existing))
}

func TestUpdateWindow_RollbackOnSyncFailure(t *testing.T) {
	repo := &fakePreferenceRepo{failFrom: 1}
	svc := newTestService(repo)

	target := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state := openLiveSession(t, svc, repo, target)

	event := weekEvent(t, svc, state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))

	_, err := svc.UpdateWindow(context.Background(), state.SessionID, event, domain.AvailabilityWindow{
		DayOfWeek: domain.Monday, StartTime: "19:00", EndTime: "21:00",
	})
	assert.ErrorIs(t, err, domain.ErrSyncFailed)

	events, err := svc.Week(state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Window().IsDuplicateOf(target), "неудачная замена возвращает прежнее окно на место")
}

func TestUpdateWindow_PastOneTimeForbidden(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	past := domain.AvailabilityWindow{
		StartTime: "09:00", EndTime: "10:00",
		Recurring: boolPtr(false), SpecificDate: "2025-03-01",
	}
	state := openLiveSession(t, svc, repo, past)

	event := weekEvent(t, svc, state.SessionID, time.Date(2025, time.February, 24, 0, 0, 0, 0, time.UTC))

	_, err := svc.UpdateWindow(context.Background(), state.SessionID, event, domain.AvailabilityWindow{
		StartTime: "10:00", EndTime: "11:00",
		Recurring: boolPtr(false), SpecificDate: "2025-03-20",
	})
	assert.ErrorIs(t, err, domain.ErrModifyPastOccurrence)
	assert.Zero(t, repo.updates)
}

func TestUpdateWindow_PastRecurringOccurrenceForbidden(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	source := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state := openLiveSession(t, svc, repo, source)

	event := weekEvent(t, svc, state.SessionID, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, event.End.Before(testNow), "повторение на прошлой неделе уже закончилось")

	_, err := svc.UpdateWindow(context.Background(), state.SessionID, event, domain.AvailabilityWindow{
		DayOfWeek: domain.Monday, StartTime: "19:00", EndTime: "21:00",
	})
	assert.ErrorIs(t, err, domain.ErrModifyPastOccurrence)
	assert.Zero(t, repo.updates)

	futureEvent := weekEvent(t, svc, state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))

	state, err = svc.UpdateWindow(context.Background(), state.SessionID, futureEvent, domain.AvailabilityWindow{
		DayOfWeek: domain.Monday, StartTime: "19:00", EndTime: "21:00",
	})
	require.NoError(t, err, "будущее повторение того же окна редактируется свободно")
	require.Len(t, state.Windows, 1)
	assert.Equal(t, "19:00", state.Windows[0].StartTime)
}

func TestDeleteWindow_SyncsAndRollsBack(t *testing.T) {
	first := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "09:00", EndTime: "10:00"}
	second := domain.AvailabilityWindow{DayOfWeek: domain.Friday, StartTime: "18:00", EndTime: "20:00"}

	t.Run("успешное удаление", func(t *testing.T) {
		repo := &fakePreferenceRepo{}
		svc := newTestService(repo)
		state := openLiveSession(t, svc, repo, first, second)

		state, err := svc.DeleteWindow(context.Background(), state.SessionID, first)
		require.NoError(t, err)

		require.Len(t, state.Windows, 1)
		assert.True(t, state.Windows[0].IsDuplicateOf(second))
		assert.Equal(t, 1, repo.updates)
	})

	t.Run("откат при неудачной синхронизации", func(t *testing.T) {
		repo := &fakePreferenceRepo{failFrom: 1}
		svc := newTestService(repo)
		state := openLiveSession(t, svc, repo, first, second)

		_, err := svc.DeleteWindow(context.Background(), state.SessionID, first)
		assert.ErrorIs(t, err, domain.ErrSyncFailed)

		events, err := svc.Week(state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, events, 2, "окно возвращается на свою позицию")
		assert.True(t, events[0].Window().IsDuplicateOf(first))
	})

	t.Run("отсутствующая цель", func(t *testing.T) {
		repo := &fakePreferenceRepo{}
		svc := newTestService(repo)
		state := openLiveSession(t, svc, repo, first)

		state, err := svc.DeleteWindow(context.Background(), state.SessionID, second)
		require.NoError(t, err)
		assert.Len(t, state.Windows, 1)
		assert.Zero(t, repo.updates)
	})
}

func TestConvertWindow_RecurringToOneTime(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	source := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state := openLiveSession(t, svc, repo, source)

	events, err := svc.Week(state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)

	state, err = svc.ConvertWindow(context.Background(), state.SessionID, events[0])
	require.NoError(t, err)

	require.Len(t, state.Windows, 1)
	converted := state.Windows[0]
	assert.False(t, converted.IsRecurring())
	assert.Equal(t, "2025-03-10", converted.SpecificDate)
	assert.Equal(t, "18:00", converted.StartTime)
	assert.Equal(t, "20:00", converted.EndTime)
	assert.Equal(t, 2, repo.updates, "конвертация — это удаление и создание, две синхронизации")
}

func TestConvertWindow_OneTimeToRecurring(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	source := domain.AvailabilityWindow{
		StartTime: "18:00", EndTime: "20:00",
		Recurring: boolPtr(false), SpecificDate: "2025-03-12",
	}
	state := openLiveSession(t, svc, repo, source)

	events, err := svc.Week(state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)

	state, err = svc.ConvertWindow(context.Background(), state.SessionID, events[0])
	require.NoError(t, err)

	require.Len(t, state.Windows, 1)
	converted := state.Windows[0]
	assert.True(t, converted.IsRecurring())
	assert.Equal(t, domain.Wednesday, converted.DayOfWeek)
	assert.Empty(t, converted.SpecificDate)
}

func TestConvertWindow_SecondStepFailureLeavesWindowDeleted(t *testing.T) {
	repo := &fakePreferenceRepo{failFrom: 2}
	svc := newTestService(repo)

	source := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state := openLiveSession(t, svc, repo, source)

	events, err := svc.Week(state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = svc.ConvertWindow(context.Background(), state.SessionID, events[0])
	assert.ErrorIs(t, err, domain.ErrSyncFailed)

	events, err = svc.Week(state.SessionID, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, events, "удаление не компенсируется: окно пропадает")
	assert.Empty(t, repo.last, "в хранилище остался результат первого шага")
}

func TestConvertWindow_PastOccurrenceForbidden(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	source := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state := openLiveSession(t, svc, repo, source)

	events, err := svc.Week(state.SessionID, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = svc.ConvertWindow(context.Background(), state.SessionID, events[0])
	assert.ErrorIs(t, err, domain.ErrModifyPastOccurrence)
	assert.Zero(t, repo.updates)
}

func TestConvertWindow_MissingSourceIsNoop(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)
	state := openLiveSession(t, svc, repo)

	event := domain.AvailabilityEvent{
		Title:     "Свободное время",
		Start:     time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC),
		End:       time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC),
		DayOfWeek: domain.Monday,
		StartTime: "18:00",
		EndTime:   "20:00",
	}

	state, err := svc.ConvertWindow(context.Background(), state.SessionID, event)
	require.NoError(t, err)
	assert.Empty(t, state.Windows)
	assert.Zero(t, repo.updates)
}

func TestWeek_UnknownSession(t *testing.T) {
	svc := newTestService(&fakePreferenceRepo{})

	_, err := svc.Week("нет такой", testNow)
	assert.ErrorIs(t, err, domain.ErrEditorNotFound)
}

func TestSave_DraftCreatesPreference(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	state, err := svc.OpenEditor(context.Background(), 42)
	require.NoError(t, err)

	window := domain.AvailabilityWindow{DayOfWeek: domain.Monday, StartTime: "18:00", EndTime: "20:00"}
	state, err = svc.CreateWindow(context.Background(), state.SessionID, window)
	require.NoError(t, err)

	pref, err := svc.Save(context.Background(), state.SessionID, domain.CreatePreferenceDTO{
		Timezone: "Europe/Moscow",
		Visible:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.creates)
	require.Len(t, pref.AvailabilityWindows, 1)
	assert.True(t, pref.AvailabilityWindows[0].IsDuplicateOf(window))

	added := domain.AvailabilityWindow{DayOfWeek: domain.Friday, StartTime: "18:00", EndTime: "20:00"}
	_, err = svc.CreateWindow(context.Background(), state.SessionID, added)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates, "после сохранения сессия становится живой и синхронизируется")
}

func TestDrawnSlotScenario(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	state, err := svc.OpenEditor(context.Background(), 42)
	require.NoError(t, err)

	drawn := calendar.ToWindow(
		time.Date(2025, time.March, 11, 19, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 11, 19, 30, 0, 0, time.UTC),
		true,
	)
	require.Equal(t, domain.Tuesday, drawn.DayOfWeek)

	state, err = svc.CreateWindow(context.Background(), state.SessionID, drawn)
	require.NoError(t, err)
	assert.Len(t, state.Windows, 1)
	assert.Zero(t, repo.updates, "рисование в черновике не ходит в сеть")

	_, err = svc.Save(context.Background(), state.SessionID, domain.CreatePreferenceDTO{Timezone: "UTC", Visible: true})
	require.NoError(t, err)

	second := calendar.ToWindow(
		time.Date(2025, time.March, 13, 19, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 13, 19, 30, 0, 0, time.UTC),
		true,
	)

	state, err = svc.CreateWindow(context.Background(), state.SessionID, second)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.updates, "в живом режиме жест дает ровно один вызов хранилища")
	require.Len(t, repo.last, 2, "уходят прежние окна плюс новое")
	assert.True(t, repo.last[0].IsDuplicateOf(drawn))
	assert.True(t, repo.last[1].IsDuplicateOf(second))
}

func TestCloseEditor(t *testing.T) {
	repo := &fakePreferenceRepo{}
	svc := newTestService(repo)

	state, err := svc.OpenEditor(context.Background(), 42)
	require.NoError(t, err)

	require.NoError(t, svc.CloseEditor(state.SessionID))
	assert.ErrorIs(t, svc.CloseEditor(state.SessionID), domain.ErrEditorNotFound)

	_, err = svc.Week(state.SessionID, testNow)
	assert.ErrorIs(t, err, domain.ErrEditorNotFound)
}
