package models

type CreatePaymentIntentRequest struct {
	Currency string `json:"currency,omitempty" validate:"omitempty,iso4217"`
}

type PaymentIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}
