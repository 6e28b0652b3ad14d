package transport

// VerifyRequest is the POST /verify request body. The legacy payoutWallet
// and priceLamports fields are still accepted but ignored; the server always
// verifies against the wallet and price resolved from the API key.
type VerifyRequest struct {
	TxSignature   string `json:"txSignature"`
	PayoutWallet  string `json:"payoutWallet,omitempty"`
	PriceLamports string `json:"priceLamports,omitempty"`
}

// VerifyData is the payload of a successful verification response.
type VerifyData struct {
	TxSignature  string `json:"txSignature"`
	ServiceID    string `json:"serviceId"`
	PayoutWallet string `json:"payoutWallet"`
	Received     string `json:"received"`
}

// VerifyResponse is the success envelope for POST /verify.
type VerifyResponse struct {
	Success bool       `json:"success"`
	Data    VerifyData `json:"data"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
