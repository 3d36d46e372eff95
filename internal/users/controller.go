package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlmaURepos/practice-next-js/internal/server"
)

type CreateUserDTO struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

// CreateUserHandler registers a regular user.
func CreateUserHandler(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body CreateUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			server.Abort(c, server.BadRequest("username (3-50 chars) and password (6+ chars) are required"))
			return
		}
		body.Username = strings.TrimSpace(body.Username)
		if strings.ContainsAny(body.Username, " \t/") {
			server.Abort(c, server.BadRequest("username must not contain spaces or slashes"))
			return
		}

		u, err := repo.Create(c.Request.Context(), Credentials{Username: body.Username, Password: body.Password})
		if errors.Is(err, ErrDuplicate) {
			server.Abort(c, server.Conflict("Username already taken"))
			return
		}
		if err != nil {
			server.Abort(c, err)
			return
		}

		c.JSON(http.StatusCreated, ToResponse(u))
	}
}
