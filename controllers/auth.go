package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/services"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/utils"
	"github.com/paradoks/clubhub/validators"
)

// AuthController handles registration and sessions of clubs.
type AuthController struct {
	clubs    *services.ClubService
	sessions *sessions.Service
	cookie   CookieConfig
}

func NewAuthController(clubs *services.ClubService, clubSessions *sessions.Service, cookie CookieConfig) *AuthController {
	return &AuthController{
		clubs:    clubs,
		sessions: clubSessions,
		cookie:   cookie,
	}
}

// Register handles club registration
func (ac *AuthController) Register(c *gin.Context) {
	req, ok := validators.ValidateClubRegisterRequest(c)
	if !ok {
		return
	}

	club, err := ac.clubs.Register(c.Request.Context(), services.RegisterClubInput{
		Name:     req.ClubName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.SendError(c, "Registration failed", err)
		return
	}

	utils.SendResponse(c, http.StatusCreated, "Club registered successfully", map[string]interface{}{
		"id":    club.ID,
		"email": club.Email,
		"name":  club.Name,
	}, nil)
}

// Login authenticates a club and sets its session cookie
func (ac *AuthController) Login(c *gin.Context) {
	req, ok := validators.ValidateLoginRequest(c)
	if !ok {
		return
	}

	sess, club, err := ac.clubs.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.SendError(c, "Login failed", err)
		return
	}

	sessions.SetCookie(c.Writer, ac.sessions.Kind(), sess.Token, ac.cookie.maxAge(), ac.cookie.Options)

	utils.SendResponse(c, http.StatusOK, "Login successful", map[string]interface{}{
		"club": toClubResponse(*club),
	}, nil)
}

func (ac *AuthController) Logout(c *gin.Context) {
	logout(c, ac.sessions, ac.cookie)
}

// Me returns the club behind the current session
func (ac *AuthController) Me(c *gin.Context) {
	sess, err := ac.sessions.CurrentSession(c.Request.Context())
	if err != nil {
		utils.SendError(c, "Failed to retrieve club", err)
		return
	}
	if sess == nil {
		utils.SendResponse(c, http.StatusUnauthorized, "Authentication required", nil, "No active session found")
		return
	}

	club, err := ac.clubs.Get(c.Request.Context(), sess.PrincipalID)
	if err != nil {
		utils.SendError(c, "Failed to retrieve club", err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "Club retrieved successfully", toClubResponse(*club), nil)
}

func (ac *AuthController) Sessions(c *gin.Context) {
	listSessions(c, ac.sessions)
}
