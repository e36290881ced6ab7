package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestAvailabilityWindow_IsRecurring(t *testing.T) {
	assert.True(t, AvailabilityWindow{}.IsRecurring(), "отсутствующий флаг означает еженедельное окно")
	assert.True(t, AvailabilityWindow{Recurring: boolPtr(true)}.IsRecurring())
	assert.False(t, AvailabilityWindow{Recurring: boolPtr(false)}.IsRecurring())
}

func TestAvailabilityWindow_Validate(t *testing.T) {
	tests := []struct {
		name    string
		window  AvailabilityWindow
		wantErr error
	}{
		{
			name:   "корректное еженедельное окно",
			window: AvailabilityWindow{DayOfWeek: Monday, StartTime: "18:00", EndTime: "20:00"},
		},
		{
			name: "корректное разовое окно",
			window: AvailabilityWindow{
				StartTime: "09:00", EndTime: "09:15",
				Recurring: boolPtr(false), SpecificDate: "2025-03-10",
			},
		},
		{
			name:    "мусор вместо времени",
			window:  AvailabilityWindow{DayOfWeek: Monday, StartTime: "18-00", EndTime: "20:00"},
			wantErr: ErrBadTimeFormat,
		},
		{
			name:    "конец раньше начала",
			window:  AvailabilityWindow{DayOfWeek: Monday, StartTime: "20:00", EndTime: "18:00"},
			wantErr: ErrEndNotAfterStart,
		},
		{
			name:    "нулевая длительность",
			window:  AvailabilityWindow{DayOfWeek: Monday, StartTime: "18:00", EndTime: "18:00"},
			wantErr: ErrEndNotAfterStart,
		},
		{
			name:    "короче пятнадцати минут",
			window:  AvailabilityWindow{DayOfWeek: Monday, StartTime: "18:00", EndTime: "18:10"},
			wantErr: ErrWindowTooShort,
		},
		{
			name:    "еженедельное без дня недели",
			window:  AvailabilityWindow{StartTime: "18:00", EndTime: "20:00"},
			wantErr: ErrRecurringMissingDay,
		},
		{
			name: "еженедельное с датой",
			window: AvailabilityWindow{
				DayOfWeek: Monday, StartTime: "18:00", EndTime: "20:00",
				SpecificDate: "2025-03-10",
			},
			wantErr: ErrConflictingFlags,
		},
		{
			name: "разовое без даты",
			window: AvailabilityWindow{
				StartTime: "18:00", EndTime: "20:00", Recurring: boolPtr(false),
			},
			wantErr: ErrOneTimeMissingDate,
		},
		{
			name: "разовое с нечитаемой датой",
			window: AvailabilityWindow{
				StartTime: "18:00", EndTime: "20:00",
				Recurring: boolPtr(false), SpecificDate: "10.03.2025",
			},
			wantErr: ErrOneTimeMissingDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAvailabilityWindow_IsDuplicateOf(t *testing.T) {
	recurring := AvailabilityWindow{DayOfWeek: Monday, StartTime: "18:00", EndTime: "20:00"}
	oneTime := AvailabilityWindow{
		StartTime: "18:00", EndTime: "20:00",
		Recurring: boolPtr(false), SpecificDate: "2025-03-10",
	}

	t.Run("совпадение по всем полям", func(t *testing.T) {
		assert.True(t, recurring.IsDuplicateOf(recurring))
		assert.True(t, oneTime.IsDuplicateOf(oneTime))
	})

	t.Run("явный true равен отсутствующему флагу", func(t *testing.T) {
		explicit := recurring
		explicit.Recurring = boolPtr(true)
		assert.True(t, recurring.IsDuplicateOf(explicit))
	})

	t.Run("разные режимы не совпадают", func(t *testing.T) {
		assert.False(t, recurring.IsDuplicateOf(oneTime))
	})

	t.Run("разные дни недели", func(t *testing.T) {
		other := recurring
		other.DayOfWeek = Tuesday
		assert.False(t, recurring.IsDuplicateOf(other))
	})

	t.Run("разные даты", func(t *testing.T) {
		other := oneTime
		other.SpecificDate = "2025-03-11"
		assert.False(t, oneTime.IsDuplicateOf(other))
	})

	t.Run("разное время", func(t *testing.T) {
		other := recurring
		other.EndTime = "21:00"
		assert.False(t, recurring.IsDuplicateOf(other))
	})
}
