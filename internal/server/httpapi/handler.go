package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/arestate/internal/server/models"
	"github.com/dmitrijs2005/arestate/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username     string `json:"username" binding:"required_without_all=Email MobileNumber"`
	Email        string `json:"email" binding:"omitempty,email"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password" binding:"required"`
}

type registerRequest struct {
	Name         string `json:"name"`
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	MobileNumber string `json:"mobileNumber" binding:"omitempty,min=10"`
	Password     string `json:"password" binding:"required,min=6"`
}

type otpGenerateRequest struct {
	MobileNumber string `json:"mobileNumber" binding:"required,min=10"`
}

type otpVerifyRequest struct {
	MobileNumber string `json:"mobileNumber" binding:"required,min=10"`
	OTPCode      string `json:"otpCode" binding:"required,len=6,numeric"`
}

type userResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
	}
}

func (s *HTTPServer) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *HTTPServer) CurrentUser(c *gin.Context) {
	user, err := s.users.GetUser(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	user, err := s.users.Login(c.Request.Context(), services.LoginParams{
		Username:     req.Username,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.startSession(c, http.StatusOK, user)
}

func (s *HTTPServer) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	user, err := s.users.Register(c.Request.Context(), services.RegisterParams{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "username", user.Username)
	s.startSession(c, http.StatusCreated, user)
}

func (s *HTTPServer) GenerateOTP(c *gin.Context) {
	var req otpGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	if err := s.users.GenerateOTP(c.Request.Context(), req.MobileNumber); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "OTP sent"})
}

func (s *HTTPServer) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	user, err := s.users.VerifyOTP(c.Request.Context(), req.MobileNumber, req.OTPCode)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.startSession(c, http.StatusOK, user)
}

// Logout ends the server-side session and clears the session cookie. It
// succeeds with or without a session.
func (s *HTTPServer) Logout(c *gin.Context) {
	if token, err := c.Cookie(s.cookie.Name); err == nil && token != "" {
		if err := s.users.EndSession(c.Request.Context(), token); err != nil {
			s.writeError(c, err)
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie.Name, "", -1, "/", "", s.cookie.Secure, true)
	c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// startSession sets the session cookie for user and writes user as the body.
func (s *HTTPServer) startSession(c *gin.Context, status int, user *models.User) {
	token, err := s.users.IssueSessionToken(c.Request.Context(), user.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie.Name, token, int(s.cookie.MaxAge.Seconds()), "/", "", s.cookie.Secure, true)
	c.JSON(status, toUserResponse(user))
}
