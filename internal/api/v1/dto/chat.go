package dto

import "time"

// ChatSendDTO is used for incoming chat message requests.
type ChatSendDTO struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// ChatReplyDTO is returned after a successful AI dispatch.
type ChatReplyDTO struct {
	Reply string `json:"reply"`
}

// QuotaExceededDTO is the 402 body for exhausted free-tier quotas.
type QuotaExceededDTO struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	ResetDate time.Time `json:"reset_date"`
}

// CodeSubscriptionRequired marks rejections the client should resolve
// by upgrading.
const CodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
