package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tandem/internal/domain"
	"tandem/internal/storage"
)

// @Summary Текущий пользователь
// @Security ApiKeyAuth
// @Tags users
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} response
// @Router /users/me [get]
func (h *Handler) getMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), userID)
	if err != nil {
		newResponse(c, http.StatusNotFound, err.Error())
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Обновление профиля
// @Security ApiKeyAuth
// @Tags users
// @Accept json
// @Produce json
// @Param input body domain.UpdateUserDTO true "Поля профиля"
// @Success 200 {object} domain.User
// @Failure 400 {object} response
// @Router /users/me [put]
func (h *Handler) updateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	var dto domain.UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), userID, dto)
	if err != nil {
		newResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Смена пароля
// @Security ApiKeyAuth
// @Tags users
// @Accept json
// @Produce json
// @Param input body domain.PasswordUpdateDTO true "Старый и новый пароли"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Router /users/me/password [put]
func (h *Handler) updatePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	var dto domain.PasswordUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	if err := h.services.User.UpdatePassword(c.Request.Context(), userID, dto); err != nil {
		newResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, response{Message: "пароль обновлен"})
}

// @Summary Загрузка фотографии профиля
// @Security ApiKeyAuth
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Файл фотографии"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response
// @Router /users/me/photo [post]
func (h *Handler) uploadPhoto(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		newResponse(c, http.StatusBadRequest, "файл не найден в запросе")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		newResponse(c, http.StatusBadRequest, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	url, err := h.services.User.UploadPhoto(c.Request.Context(), userID, storage.UploadInput{
		Name:        fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		newResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

// @Summary Профиль пользователя
// @Security ApiKeyAuth
// @Tags users
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} domain.User
// @Failure 404 {object} response
// @Router /users/{id} [get]
func (h *Handler) getUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newResponse(c, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), id)
	if err != nil {
		newResponse(c, http.StatusNotFound, err.Error())
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Список пользователей
// @Security ApiKeyAuth
// @Tags users
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} dataResponse
// @Failure 403 {object} response
// @Router /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.services.User.List(c.Request.Context(), limit, offset)
	if err != nil {
		newResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, dataResponse{Data: users, Count: len(users)})
}

// @Summary Деактивация пользователя
// @Security ApiKeyAuth
// @Tags users
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} response
// @Failure 403 {object} response
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		newResponse(c, http.StatusBadRequest, "некорректный идентификатор")
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		newResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, response{Message: "пользователь деактивирован"})
}

// @Summary Кандидаты для встреч
// @Security ApiKeyAuth
// @Tags matches
// @Produce json
// @Success 200 {object} dataResponse
// @Failure 502 {object} response
// @Router /matches [get]
func (h *Handler) matchCandidates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	candidates, err := h.services.Match.Candidates(c.Request.Context(), userID)
	if err != nil {
		newResponse(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, dataResponse{Data: candidates, Count: len(candidates)})
}
