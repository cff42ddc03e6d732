package services

import (
	"context"

	"github.com/dmitrijs2005/arestate/internal/logging"
)

// OTPSender delivers a one-time code to a mobile number.
type OTPSender interface {
	Send(ctx context.Context, mobileNumber, code string) error
}

// LogOTPSender writes codes to the log instead of sending them. It is meant
// for development setups without an SMS gateway. The code itself is logged
// at debug level only, so it stays out of logs at the default info level.
type LogOTPSender struct {
	logger logging.Logger
}

func NewLogOTPSender(logger logging.Logger) *LogOTPSender {
	return &LogOTPSender{logger: logger.With("module", "otp_sender")}
}

func (s *LogOTPSender) Send(ctx context.Context, mobileNumber, code string) error {
	s.logger.Info(ctx, "otp issued", "mobile_number", mobileNumber)
	s.logger.Debug(ctx, "otp code", "mobile_number", mobileNumber, "code", code)
	return nil
}
