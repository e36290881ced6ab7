package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tandem/internal/domain"
)

// @Summary Регистрация
// @Description Создает нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body domain.RegisterRequest true "Данные регистрации"
// @Success 201 {object} idResponse
// @Failure 400 {object} response
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	id, err := h.services.Auth.Register(c.Request.Context(), req)
	if err != nil {
		newResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, idResponse{ID: id})
}

// @Summary Вход
// @Description Выдает пару токенов по email или телефону
// @Tags auth
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Логин и пароль"
// @Success 200 {object} domain.Tokens
// @Failure 401 {object} response
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	tokens, err := h.services.Auth.Login(c.Request.Context(), req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// @Summary Обновление токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh-токен"
// @Success 200 {object} domain.Tokens
// @Failure 401 {object} response
// @Router /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	tokens, err := h.services.Auth.Refresh(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// @Summary Выход
// @Tags auth
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh-токен"
// @Success 200 {object} response
// @Failure 401 {object} response
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newResponse(c, http.StatusBadRequest, "некорректные данные запроса")
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		newResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	c.JSON(http.StatusOK, response{Message: "выход выполнен"})
}
