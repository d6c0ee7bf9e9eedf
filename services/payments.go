package services

import "github.com/razorpay/razorpay-go"

// PaymentVerifier reports whether a payment recorded at the doorstep has
// actually been captured by the gateway.
type PaymentVerifier interface {
	IsCaptured(paymentID string) (bool, error)
}

type RazorpayVerifier struct {
	client *razorpay.Client
}

func NewRazorpayVerifier(keyID, keySecret string) *RazorpayVerifier {
	return &RazorpayVerifier{client: razorpay.NewClient(keyID, keySecret)}
}

func (v *RazorpayVerifier) IsCaptured(paymentID string) (bool, error) {
	payment, err := v.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return false, err
	}
	status, _ := payment["status"].(string)
	return status == "captured", nil
}
