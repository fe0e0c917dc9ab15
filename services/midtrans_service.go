package services

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/yeremiapane/hostel-app/models"
)

var ErrGatewayDisabled = errors.New("payment gateway not configured")

// Checkout is what a student needs to open the Snap payment page.
type Checkout struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
	OrderID     string `json:"orderId"`
}

// PaymentNotification is the subset of the Midtrans webhook body we act on.
type PaymentNotification struct {
	OrderID           string `json:"order_id" binding:"required"`
	StatusCode        string `json:"status_code" binding:"required"`
	GrossAmount       string `json:"gross_amount" binding:"required"`
	SignatureKey      string `json:"signature_key" binding:"required"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

// Settled reports whether the notification means the money arrived.
func (n PaymentNotification) Settled() bool {
	switch n.TransactionStatus {
	case "settlement":
		return true
	case "capture":
		return n.FraudStatus == "" || n.FraudStatus == "accept"
	}
	return false
}

type PaymentGateway interface {
	Enabled() bool
	CreateCheckout(inv models.Invoice, student models.User) (*Checkout, error)
	ValidateSignature(orderID, statusCode, grossAmount, signature string) bool
}

type MidtransService struct {
	client    snap.Client
	serverKey string
	enabled   bool
}

// NewMidtransService returns a disabled gateway when serverKey is empty.
func NewMidtransService(serverKey, env string) *MidtransService {
	ms := &MidtransService{serverKey: serverKey, enabled: serverKey != ""}
	if !ms.enabled {
		return ms
	}
	if env == "production" {
		ms.client.New(serverKey, midtrans.Production)
	} else {
		ms.client.New(serverKey, midtrans.Sandbox)
	}
	return ms
}

func (ms *MidtransService) Enabled() bool {
	return ms != nil && ms.enabled
}

// GrossAmount is the whole-rupee amount sent to and echoed back by Midtrans.
func GrossAmount(amount float64) int64 {
	return int64(math.Round(amount))
}

func (ms *MidtransService) CreateCheckout(inv models.Invoice, student models.User) (*Checkout, error) {
	if !ms.Enabled() {
		return nil, ErrGatewayDisabled
	}
	gross := GrossAmount(inv.Amount)
	if gross <= 0 {
		return nil, errors.New("invoice amount must be positive")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  inv.InvoiceID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: student.FullName,
			Email: student.CollegeEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       inv.InvoiceID,
				Price:    gross,
				Qty:      1,
				Name:     truncate(inv.Title, 50),
				Category: "Hostel",
			},
		},
		CustomField1: inv.HostelBlock,
	}

	resp, mErr := ms.client.CreateTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %s", mErr.Message)
	}
	return &Checkout{Token: resp.Token, RedirectURL: resp.RedirectURL, OrderID: inv.InvoiceID}, nil
}

// ValidateSignature checks sha512(order_id + status_code + gross_amount + server_key).
func (ms *MidtransService) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	if !ms.Enabled() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Signature(orderID, statusCode, grossAmount, ms.serverKey)), []byte(signature)) == 1
}

func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
