// Package domain contains the business logic for API key resolution.
package domain

// ServiceConfig is the merchant configuration resolved from an API key.
// PayoutWallet and PriceLamports are the authoritative values the payment
// verifier must use; client-supplied copies are never trusted.
type ServiceConfig struct {
	ProjectID     string   `json:"projectId"`
	ProjectName   string   `json:"projectName"`
	Network       string   `json:"network"`
	PayoutWallet  string   `json:"payoutWallet"`
	ServiceID     string   `json:"serviceId"`
	AllowedRoutes []string `json:"allowedRoutes"`
	PriceLamports uint64   `json:"priceLamports"`
}
