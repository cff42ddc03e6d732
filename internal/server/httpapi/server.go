// Package httpapi exposes the auth backend over HTTP/JSON with gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/arestate/internal/logging"
	"github.com/dmitrijs2005/arestate/internal/server/models"
	"github.com/dmitrijs2005/arestate/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// userSvc is the part of services.UserService the handlers use.
type userSvc interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.User, error)
	Login(ctx context.Context, p services.LoginParams) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GenerateOTP(ctx context.Context, mobileNumber string) error
	VerifyOTP(ctx context.Context, mobileNumber, code string) (*models.User, error)
	IssueSessionToken(ctx context.Context, userID string) (string, error)
	UserIDFromSessionToken(ctx context.Context, token string) (string, error)
	EndSession(ctx context.Context, token string) error
}

// CookieOptions control the session cookie.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type HTTPServer struct {
	address string
	users   userSvc
	logger  logging.Logger
	cookie  CookieOptions
}

func NewHTTPServer(a string, l logging.Logger, us userSvc, cookie CookieOptions) *HTTPServer {
	useJSONFieldNames()
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		cookie:  cookie,
	}
}

// Handler builds the gin engine with every route registered.
func (s *HTTPServer) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/ping", s.Ping)

	api := r.Group("/api")
	api.POST("/login", s.Login)
	api.POST("/register", s.Register)
	api.POST("/logout", s.Logout)
	api.POST("/otp/generate", s.GenerateOTP)
	api.POST("/otp/verify", s.VerifyOTP)
	api.GET("/user", s.requireSession(), s.CurrentUser)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
