package handler

import (
	"encoding/json"
	"time"

	"quotedesk/internal/comparison/models"
)

// AddressList accepts either a JSON array of strings or a single
// comma-separated string. Entries may themselves contain commas.
type AddressList []string

func (l *AddressList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = AddressList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// GenerateRequest is the inbound comparison body.
type GenerateRequest struct {
	RecipientEmail    string                    `json:"recipientEmail"`
	CCEmails          AddressList               `json:"ccEmails"`
	BCCEmails         AddressList               `json:"bccEmails"`
	Message           string                    `json:"message"`
	SuccessQuotations []models.SuccessQuotation `json:"successQuotations"`
	FailureQuotations []models.FailureQuotation `json:"failureQuotations"`
}

func (r GenerateRequest) toModel() models.Request {
	return models.Request{
		RecipientEmail:    r.RecipientEmail,
		CCEmails:          r.CCEmails,
		BCCEmails:         r.BCCEmails,
		Message:           r.Message,
		SuccessQuotations: r.SuccessQuotations,
		FailureQuotations: r.FailureQuotations,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type historyResponse struct {
	Comparisons []*models.LogRecord `json:"comparisons"`
	Count       int                 `json:"count"`
	AsOf        time.Time           `json:"as_of"`
}
