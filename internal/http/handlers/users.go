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

func validRole(role string) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleViewer:
		return true
	}
	return false
}

// GET /api/users
func GetUsers(c *gin.Context) {
	repo := repositories.UserRepository{}
	users, err := repo.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	user, err := repositories.UserRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToPublic()})
}

type userPayload struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"required"`
	Status   string `json:"status"`
}

// POST /api/users
func CreateUser(c *gin.Context) {
	var req userPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if !validRole(req.Role) {
		RespondError(c, http.StatusBadRequest, "perfil inválido", nil)
		return
	}
	if len(req.Password) < 6 {
		RespondError(c, http.StatusBadRequest, "senha deve ter ao menos 6 caracteres", nil)
		return
	}
	if req.Status == "" {
		req.Status = models.UserActive
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
		Role:         req.Role,
		Status:       req.Status,
	}
	id, err := repositories.UserRepository{}.Create(user)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	user.ID = id

	utils.LogEvent(middleware.GetRequestID(c), "users", "create", req.Username)
	c.JSON(http.StatusCreated, gin.H{"user": user.ToPublic()})
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req userPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if !validRole(req.Role) {
		RespondError(c, http.StatusBadRequest, "perfil inválido", nil)
		return
	}

	repo := repositories.UserRepository{}
	user, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	user.Name = req.Name
	user.Username = req.Username
	user.Email = req.Email
	user.Phone = req.Phone
	user.Role = req.Role
	if req.Status != "" {
		user.Status = req.Status
	}
	if err := repo.Update(user); err != nil {
		RespondDomainError(c, err)
		return
	}

	if req.Password != "" {
		if len(req.Password) < 6 {
			RespondError(c, http.StatusBadRequest, "senha deve ter ao menos 6 caracteres", nil)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "falha ao proteger a senha", err)
			return
		}
		if err := repo.UpdatePassword(id, string(hash)); err != nil {
			RespondDomainError(c, err)
			return
		}
	}

	utils.LogEvent(middleware.GetRequestID(c), "users", "update", user.Username)
	c.JSON(http.StatusOK, gin.H{"user": user.ToPublic()})
}

// DELETE /api/users/:id deactivates the account, it never erases it.
func DeleteUser(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	self := middleware.RequestUser(c)
	if self.UserID == id {
		RespondError(c, http.StatusBadRequest, "não é possível desativar o próprio usuário", nil)
		return
	}
	if err := (repositories.UserRepository{}).SetStatus(id, models.UserInactive); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "users", "deactivate", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "usuário desativado"})
}
