package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// ValidatePayment validates the customer details of a payment request.
func ValidatePayment(req request.PaymentRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.CustomerEmail) == "" {
		errors["customerEmail"] = "customerEmail is required"
	} else if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		errors["customerEmail"] = "customerEmail is not a valid address"
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		errors["customerName"] = "customerName is required"
	}

	return result(errors)
}

// ValidateTheme checks that req names a known theme.
func ValidateTheme(req request.ThemeRequest) error {
	if !model.Theme(req.Theme).Valid() {
		return &Error{Fields: map[string]string{
			"theme": fmt.Sprintf("theme must be light, dark, blue or green, got %q", req.Theme),
		}}
	}
	return nil
}

// ValidateAnalysis checks that req carries an absolute http(s) URL.
func ValidateAnalysis(req request.AnalysisRequest) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(req.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &Error{Fields: map[string]string{"url": "url must be an absolute http or https URL"}}
	}
	return nil
}
