package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/medivault/medivault-api/internal/models"
)

const textbeltURL = "https://textbelt.com/text"

// NotificationService sends SMS notifications through Textbelt. Failures are
// logged, never surfaced to the request that triggered them.
type NotificationService struct {
	apiKey string
}

// NewNotificationService builds the service with the configured Textbelt key.
func NewNotificationService(apiKey string) *NotificationService {
	return &NotificationService{apiKey: apiKey}
}

// SendTreatmentRecordedSMS tells the patient a doctor has recorded a new
// treatment against their record. Sent in a goroutine so the API response is
// not delayed.
func (s *NotificationService) SendTreatmentRecordedSMS(patient *models.Identity, t *models.Treatment) {
	if patient.PhoneNumber == "" {
		log.Println("SMS not sent: patient has no phone number")
		return
	}

	smsBody := fmt.Sprintf(
		"New treatment recorded: %s by Dr. %s on %s.",
		t.Disease,
		t.DoctorName,
		t.CreatedAt.Format("Jan 2 at 3:04 PM"),
	)

	go s.sendSMS(patient.PhoneNumber, smsBody)
}

func (s *NotificationService) sendSMS(phone, message string) {
	if s.apiKey == "" {
		log.Println("SMS not sent: Textbelt API key is not configured")
		return
	}

	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})

	resp, err := http.Post(textbeltURL, "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		log.Printf("Failed to send Textbelt request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["error"].(string)
		log.Printf("Failed to send SMS via Textbelt to %s. Reason: %s", phone, errorMsg)
	} else {
		log.Printf("Successfully sent SMS via Textbelt to %s", phone)
	}
}
