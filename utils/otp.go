package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
)

// OTPSender delivers a one-time code to a phone number. The code must never
// travel back in an API response; swapping in an SMS gateway touches only
// this interface.
type OTPSender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogOTPSender writes the code to the server log. Development stand-in for
// a real SMS gateway.
type LogOTPSender struct{}

func (LogOTPSender) Send(_ context.Context, phone, code string) error {
	slog.Info("OTP issued", "phone", phone, "code", code)
	return nil
}

// GenerateOTP returns a 6-digit code from crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
