package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// SendOTPToMobile delivers an OTP through the SMS gateway. Errors are
// returned to the caller; delivery is best effort.
func SendOTPToMobile(mobile, otp string) error {
	client := resty.New()

	resp, err := client.R().
		SetQueryParams(map[string]string{
			"authorization":    config.AppConfig.SmsApiKey,
			"route":            "dlt",
			"sender_id":        config.AppConfig.SmsSender,
			"variables_values": fmt.Sprintf("%s|10", otp), // OTP and validity in minutes
			"flash":            "0",
			"numbers":          mobile,
		}).
		Get(config.AppConfig.SmsApiUrl)

	if err != nil {
		log.Printf("Error while sending OTP: %v", err)
		return err
	}

	if resp.StatusCode() != 200 {
		log.Printf("Failed to send OTP, response code: %d", resp.StatusCode())
		return fmt.Errorf("failed to send OTP, code: %d", resp.StatusCode())
	}

	log.Println("OTP sent successfully to", mobile)
	return nil
}
