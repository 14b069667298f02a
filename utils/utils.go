package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOTP generates a 6-digit OTP
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10)) // Generate a random digit (0-9) and append to OTP string
	}
	return otp
}

// GenerateCertificateNumber builds a human-readable certificate number from
// the issue year and a random uuid suffix.
func GenerateCertificateNumber(courseID uint, suffix string) string {
	return fmt.Sprintf("CERT-%d-%d-%s", time.Now().Year(), courseID, suffix)
}
