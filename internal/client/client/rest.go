package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/arestate/internal/client/models"
	"github.com/dmitrijs2005/arestate/internal/logging"
	"github.com/go-resty/resty/v2"
)

const (
	pathUser        = "/api/user"
	pathLogin       = "/api/login"
	pathRegister    = "/api/register"
	pathLogout      = "/api/logout"
	pathOTPGenerate = "/api/otp/generate"
	pathOTPVerify   = "/api/otp/verify"
	pathPing        = "/ping"
)

// errorBody is the JSON error envelope returned by the backend.
type errorBody struct {
	Message string `json:"message"`
}

type RESTClient struct {
	http   *resty.Client
	logger logging.Logger
}

// NewRESTClient builds a client for the backend at baseURL. The resty client
// keeps a cookie jar, so the session cookie set by login/register/verify is
// replayed on later calls.
func NewRESTClient(baseURL string, logger logging.Logger) *RESTClient {
	l := logger.With("module", "rest_client")
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(restyLogger{l: l})
	return &RESTClient{http: c, logger: l}
}

func (c *RESTClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, pathUser, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *RESTClient) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, pathLogin, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *RESTClient) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, pathRegister, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *RESTClient) GenerateOTP(ctx context.Context, mobileNumber string) error {
	body := map[string]string{"mobileNumber": mobileNumber}
	return c.do(ctx, http.MethodPost, pathOTPGenerate, body, nil)
}

func (c *RESTClient) VerifyOTP(ctx context.Context, mobileNumber, otpCode string) (*models.User, error) {
	body := map[string]string{"mobileNumber": mobileNumber, "otpCode": otpCode}
	var user models.User
	if err := c.do(ctx, http.MethodPost, pathOTPVerify, body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *RESTClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, pathLogout, nil, nil)
}

func (c *RESTClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pathPing, nil, nil)
}

// Close drops idle keep-alive connections.
func (c *RESTClient) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

func (c *RESTClient) do(ctx context.Context, method, path string, body, result any) error {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "request done", "method", method, "path", path, "status", resp.StatusCode())
	return mapResponse(resp)
}

func mapResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if eb, ok := resp.Error().(*errorBody); ok && eb.Message != "" {
		apiErr.Message = eb.Message
	} else if len(resp.Body()) > 0 && len(resp.Body()) < 512 {
		apiErr.Message = fmt.Sprintf("%d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return apiErr
}

// restyLogger routes resty's internal warnings into logging.Logger.
type restyLogger struct {
	l logging.Logger
}

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error(context.Background(), fmt.Sprintf(format, v...))
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug(context.Background(), fmt.Sprintf(format, v...))
}
