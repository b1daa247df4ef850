package asaas

import (
	"bytes"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// DateLayout is the provider's calendar date format.
const DateLayout = "2006-01-02"

// Date is a calendar date as sent by the provider. A zero Date means absent.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD, falling back to RFC 3339 and the provider's
// "YYYY-MM-DD HH:MM:SS" timestamps.
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == DateLayout {
				return Date{t}, nil
			}
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// UnmarshalJSON accepts null, empty strings and the layouts of ParseDate.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes YYYY-MM-DD or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// String returns YYYY-MM-DD, or an empty string for a zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Ptr returns nil for a zero Date.
func (d Date) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// Page is one page of a collection endpoint.
type Page[T any] struct {
	Object     string `json:"object"`
	HasMore    bool   `json:"hasMore"`
	TotalCount int    `json:"totalCount"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	Data       []T    `json:"data"`
}

// Customer is a provider customer record.
type Customer struct {
	ID                   string `json:"id"`
	DateCreated          Date   `json:"dateCreated"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	MobilePhone          string `json:"mobilePhone"`
	Address              string `json:"address"`
	AddressNumber        string `json:"addressNumber"`
	Complement           string `json:"complement"`
	Province             string `json:"province"`
	City                 any    `json:"city"`
	CityName             string `json:"cityName"`
	State                string `json:"state"`
	Country              string `json:"country"`
	PostalCode           string `json:"postalCode"`
	CpfCnpj              string `json:"cpfCnpj"`
	PersonType           string `json:"personType"`
	Deleted              bool   `json:"deleted"`
	AdditionalEmails     string `json:"additionalEmails"`
	ExternalReference    string `json:"externalReference"`
	NotificationDisabled bool   `json:"notificationDisabled"`
	Observations         string `json:"observations"`
	ForeignCustomer      bool   `json:"foreignCustomer"`
}

// Payment is a provider charge record.
type Payment struct {
	ID                    string              `json:"id"`
	DateCreated           Date                `json:"dateCreated"`
	Customer              string              `json:"customer"`
	Subscription          string              `json:"subscription"`
	Installment           string              `json:"installment"`
	PaymentLink           string              `json:"paymentLink"`
	Value                 decimal.Decimal     `json:"value"`
	NetValue              decimal.NullDecimal `json:"netValue"`
	OriginalValue         decimal.NullDecimal `json:"originalValue"`
	InterestValue         decimal.NullDecimal `json:"interestValue"`
	Description           string              `json:"description"`
	BillingType           string              `json:"billingType"`
	CanBePaidAfterDueDate bool                `json:"canBePaidAfterDueDate"`
	PixTransaction        string              `json:"pixTransaction"`
	Status                string              `json:"status"`
	DueDate               Date                `json:"dueDate"`
	OriginalDueDate       Date                `json:"originalDueDate"`
	PaymentDate           Date                `json:"paymentDate"`
	ClientPaymentDate     Date                `json:"clientPaymentDate"`
	InstallmentNumber     int                 `json:"installmentNumber"`
	InvoiceURL            string              `json:"invoiceUrl"`
	InvoiceNumber         string              `json:"invoiceNumber"`
	ExternalReference     string              `json:"externalReference"`
	Deleted               bool                `json:"deleted"`
	Anticipated           bool                `json:"anticipated"`
	Anticipable           bool                `json:"anticipable"`
	CreditDate            Date                `json:"creditDate"`
	EstimatedCreditDate   Date                `json:"estimatedCreditDate"`
	TransactionReceiptURL string              `json:"transactionReceiptUrl"`
	NossoNumero           string              `json:"nossoNumero"`
	BankSlipURL           string              `json:"bankSlipUrl"`
	Discount              json.RawMessage     `json:"discount"`
	Fine                  json.RawMessage     `json:"fine"`
	Interest              json.RawMessage     `json:"interest"`
	Split                 json.RawMessage     `json:"split"`
	PostalService         bool                `json:"postalService"`
}

// Installment is a provider installment plan.
type Installment struct {
	ID               string              `json:"id"`
	DateCreated      Date                `json:"dateCreated"`
	Customer         string              `json:"customer"`
	Value            decimal.Decimal     `json:"value"`
	NetValue         decimal.NullDecimal `json:"netValue"`
	PaymentValue     decimal.NullDecimal `json:"paymentValue"`
	InstallmentCount int                 `json:"installmentCount"`
	BillingType      string              `json:"billingType"`
	PaymentDate      Date                `json:"paymentDate"`
	Description      string              `json:"description"`
	ExpirationDay    int                 `json:"expirationDay"`
	Deleted          bool                `json:"deleted"`
}

// Account is the authenticated account returned by /myAccount.
type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	CpfCnpj  string `json:"cpfCnpj"`
	WalletID string `json:"walletId"`
}

// ListParams are the paging and filter parameters of collection endpoints.
type ListParams struct {
	Offset  int
	Limit   int
	Filters map[string]string
}

// errorBody is the provider's error envelope.
type errorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}
