package request

// UnlockRequest represents the request body for unlocking premium access with a passcode.
type UnlockRequest struct {
	Passcode string `json:"passcode"`
}

// PaymentRequest represents the request body for starting a premium payment.
type PaymentRequest struct {
	CustomerEmail string `json:"customerEmail"`
	CustomerName  string `json:"customerName"`
}

// ThemeRequest represents the request body for changing the UI theme.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// AnalysisRequest represents the request body for starting a website analysis.
type AnalysisRequest struct {
	URL string `json:"url"`
}
