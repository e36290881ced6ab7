package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tandem/internal/calendar"
	"tandem/internal/domain"
)

type drawSlotRequest struct {
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end" binding:"required"`
	Recurring *bool     `json:"recurring"`
}

type updateWindowRequest struct {
	Event       domain.AvailabilityEvent  `json:"event" binding:"required"`
	Replacement domain.AvailabilityWindow `json:"replacement" binding:"required"`
}

// availabilityStatus переводит ошибки редактора в HTTP-статусы.
// Ошибки валидации и временные ограничения — вина запроса, дубликат —
// конфликт, неудачная синхронизация — проблема хранилища.
func availabilityStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrEditorNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateWindow):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSyncFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// @Summary Открытие сессии редактирования
// @Description Загружает окна доступности пользователя и открывает сессию
// @Security ApiKeyAuth
// @Tags availability
// @Produce json
// @Success 200 {object} domain.EditorState
// @Failure 502 {object} response
// @Router /availability/session [post]
func (h *Handler) openEditor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	state, err := h.services.Availability.OpenEditor(c.Request.Context(), userID)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, state)
}

// @Summary Закрытие сессии редактирования
// @Security ApiKeyAuth
// @Tags availability
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} response
// @Failure 404 {object} response
// @Router /availability/session/{id} [delete]
func (h *Handler) closeEditor(c *gin.Context) {
	if err := h.services.Availability.CloseEditor(c.Param("id")); err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, response{Message: "сессия закрыта"})
}

// @Summary Календарь на неделю
// @Description Проецирует окна сессии на неделю, содержащую дату
// @Security ApiKeyAuth
// @Tags availability
// @Produce json
// @Param id path string true "ID сессии"
// @Param date query string false "Любая дата недели в формате YYYY-MM-DD"
// @Success 200 {object} dataResponse
// @Failure 404 {object} response
// @Router /availability/session/{id}/week [get]
func (h *Handler) week(c *gin.Context) {
	reference := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(domain.DateLayout, raw, time.Local)
		if err != nil {
			newResponse(c, http.StatusBadRequest, "некорректная дата, ожидается YYYY-MM-DD")
			return
		}
		reference = parsed
	}

	events, err := h.services.Availability.Week(c.Param("id"), reference)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, dataResponse{Data: events, Count: len(events)})
}

// @Summary Добавление окна доступности
// @Security ApiKeyAuth
// @Tags availability
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param input body domain.AvailabilityWindow true "Окно доступности"
// @Success 200 {object} domain.EditorState
// @Failure 400 {object} response
// @Failure 409 {object} response
// @Router /availability/session/{id}/windows [post]
func (h *Handler) createWindow(c *gin.Context) {
	var window domain.AvailabilityWindow
	if err := c.ShouldBindJSON(&window); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	state, err := h.services.Availability.CreateWindow(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, state)
}

// @Summary Рисование окна на календаре
// @Description Превращает нарисованный интервал в окно: границы привязываются к четверти часа
// @Security ApiKeyAuth
// @Tags availability
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param input body drawSlotRequest true "Интервал на календаре"
// @Success 200 {object} domain.EditorState
// @Failure 400 {object} response
// @Failure 409 {object} response
// @Router /availability/session/{id}/slots [post]
func (h *Handler) drawSlot(c *gin.Context) {
	var req drawSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	if !calendar.IsValidDuration(req.Start, req.End, domain.MinWindowMinutes) {
		newResponse(c, http.StatusBadRequest, domain.ErrWindowTooShort.Error())
		return
	}

	recurring := req.Recurring == nil || *req.Recurring
	window := calendar.ToWindow(req.Start, req.End, recurring)

	state, err := h.services.Availability.CreateWindow(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, state)
}

// @Summary Изменение окна доступности
// @Description Находит окно за перетащенным событием и заменяет его
// @Security ApiKeyAuth
// @Tags availability
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param input body updateWindowRequest true "Перетащенное событие и новое окно"
// @Success 200 {object} domain.EditorState
// @Failure 400 {object} response
// @Failure 409 {object} response
// @Router /availability/session/{id}/windows [put]
func (h *Handler) updateWindow(c *gin.Context) {
	var req updateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	state, err := h.services.Availability.UpdateWindow(c.Request.Context(), c.Param("id"), req.Event, req.Replacement)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, state)
}

// @Summary Удаление окна доступности
// @Security ApiKeyAuth
// @Tags availability
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param input body domain.AvailabilityWindow true "Окно для удаления"
// @Success 200 {object} domain.EditorState
// @Failure 404 {object} response
// @Router /availability/session/{id}/windows [delete]
func (h *Handler) deleteWindow(c *gin.Context) {
	var window domain.AvailabilityWindow
	if err := c.ShouldBindJSON(&window); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	state, err := h.services.Availability.DeleteWindow(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, state)
}

// @Summary Смена режима окна
// @Description Еженедельное окно становится разовым на дату события и наоборот
// @Security ApiKeyAuth
// @Tags availability
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param input body domain.AvailabilityEvent true "Событие календаря"
// @Success 200 {object} domain.EditorState
// @Failure 400 {object} response
// @Failure 409 {object} response
// @Router /availability/session/{id}/windows/convert [post]
func (h *Handler) convertWindow(c *gin.Context) {
	var event domain.AvailabilityEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	state, err := h.services.Availability.ConvertWindow(c.Request.Context(), c.Param("id"), event)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, state)
}

// @Summary Сохранение записи о встречах
// @Description Создает запись из черновой сессии или обновляет существующую
// @Security ApiKeyAuth
// @Tags availability
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param input body domain.CreatePreferenceDTO true "Часовой пояс и видимость"
// @Success 200 {object} domain.MeetingPreference
// @Failure 502 {object} response
// @Router /availability/session/{id}/save [post]
func (h *Handler) savePreference(c *gin.Context) {
	var dto domain.CreatePreferenceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	pref, err := h.services.Availability.Save(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		newResponse(c, availabilityStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, pref)
}
