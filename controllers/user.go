package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/services"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/utils"
	"github.com/paradoks/clubhub/validators"
)

// UserController handles registration, sessions and accounts of users.
type UserController struct {
	users    *services.UserService
	sessions *sessions.Service
	cookie   CookieConfig
}

func NewUserController(users *services.UserService, userSessions *sessions.Service, cookie CookieConfig) *UserController {
	return &UserController{
		users:    users,
		sessions: userSessions,
		cookie:   cookie,
	}
}

// Register starts a user registration by mailing a verification code
func (uc *UserController) Register(c *gin.Context) {
	req, ok := validators.ValidateUserRegisterRequest(c)
	if !ok {
		return
	}

	err := uc.users.Register(c.Request.Context(), services.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.SecondName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		utils.SendError(c, "Registration failed", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Verification code sent to email", nil, nil)
}

// Verify completes a registration with the emailed code
func (uc *UserController) Verify(c *gin.Context) {
	req, ok := validators.ValidateVerifyRequest(c)
	if !ok {
		return
	}

	user, err := uc.users.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		utils.SendError(c, "Verification failed", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "User registered successfully", toUserResponse(*user), nil)
}

func (uc *UserController) Login(c *gin.Context) {
	req, ok := validators.ValidateLoginRequest(c)
	if !ok {
		return
	}

	sess, user, err := uc.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.SendError(c, "Login failed", err)
		return
	}

	sessions.SetCookie(c.Writer, uc.sessions.Kind(), sess.Token, uc.cookie.maxAge(), uc.cookie.Options)

	utils.SendResponse(c, http.StatusOK, "Login successful", map[string]interface{}{
		"user": toUserResponse(*user),
	}, nil)
}

func (uc *UserController) Logout(c *gin.Context) {
	logout(c, uc.sessions, uc.cookie)
}

func (uc *UserController) GetCurrentUser(c *gin.Context) {
	sess, err := uc.sessions.CurrentSession(c.Request.Context())
	if err != nil {
		utils.SendError(c, "Failed to fetch user", err)
		return
	}
	if sess == nil {
		utils.SendResponse(c, http.StatusUnauthorized, "Not authenticated", nil, "No active session found")
		return
	}

	user, err := uc.users.Get(c.Request.Context(), sess.PrincipalID)
	if err != nil {
		utils.SendError(c, "Failed to fetch user", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "User details retrieved", toUserResponse(*user), nil)
}

func (uc *UserController) GetActiveSessions(c *gin.Context) {
	listSessions(c, uc.sessions)
}

// Delete removes the calling user's account and ends its sessions
func (uc *UserController) Delete(c *gin.Context) {
	if err := uc.users.Delete(c.Request.Context(), principalID(c)); err != nil {
		utils.SendError(c, "Failed to delete user", err)
		return
	}

	sessions.ClearCookie(c.Writer, uc.sessions.Kind(), uc.cookie.Options)
	utils.SendResponse(c, http.StatusOK, "User deleted successfully", nil, nil)
}
