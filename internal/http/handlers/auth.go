package handlers

import (
	"net/http"

	"rental/internal/domain"
	"rental/internal/domain/models"
	"rental/internal/http/middleware"
	"rental/internal/repositories"
	"rental/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	login := req.Login
	if login == "" {
		login = req.Email
	}

	repo := repositories.UserRepository{}
	user, err := repo.GetByLogin(login)
	if err != nil {
		if domain.IsNotFound(err) {
			RespondError(c, http.StatusUnauthorized, "usuário ou senha incorretos", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	if user.Status != models.UserActive {
		RespondError(c, http.StatusUnauthorized, "usuário desativado", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "usuário ou senha incorretos", nil)
		return
	}

	token, err := middleware.SignToken(user)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falha ao gerar o token", err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "auth", "login", user.Username)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.ToPublic(),
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /api/auth/register
// Self-registration always creates a viewer; promotions go through /api/users.
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepository{}
	inUse, err := repo.LoginInUse(req.Email, req.Username, 0)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if inUse {
		RespondError(c, http.StatusBadRequest, "email ou usuário já cadastrado", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "falha ao proteger a senha", err)
		return
	}

	user := models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         domain.RoleViewer,
		Status:       models.UserActive,
	}
	id, err := repo.Create(user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	user.ID = id

	utils.LogEvent(middleware.GetRequestID(c), "auth", "register", req.Username)
	c.JSON(http.StatusCreated, gin.H{
		"message": "cadastro realizado com sucesso",
		"user":    user.ToPublic(),
	})
}
