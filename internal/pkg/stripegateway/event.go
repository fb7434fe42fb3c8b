package stripegateway

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

const (
	EventInvoicePaymentSucceeded     = "invoice.payment_succeeded"
	EventInvoicePaymentFailed        = "invoice.payment_failed"
	EventPaymentIntentSucceeded      = "payment_intent.succeeded"
	EventPaymentIntentPaymentFailed  = "payment_intent.payment_failed"
	EventCustomerSubscriptionDeleted = "customer.subscription.deleted"
)

type PaymentType string

const (
	PaymentTypeOneTime              PaymentType = "one_time"
	PaymentTypeSubscription         PaymentType = "subscription"
	PaymentTypeSubscriptionCanceled PaymentType = "subscription_canceled"
	PaymentTypeUnknown              PaymentType = "unknown"
)

// Amount is a major-unit amount that encodes as a JSON number.
type Amount struct {
	decimal.Decimal
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// PaymentOutcome is the flattened view of a webhook event. Metadata is
// never nil.
type PaymentOutcome struct {
	IsPaid               bool              `json:"is_paid"`
	EventType            string            `json:"event_type"`
	PaymentType          PaymentType       `json:"payment_type"`
	Metadata             map[string]string `json:"metadata"`
	Amount               *Amount           `json:"amount,omitempty"`
	Currency             string            `json:"currency,omitempty"`
	StripeSubscriptionID string            `json:"stripe_subscription_id,omitempty"`
	StripeCustomerID     string            `json:"stripe_customer_id,omitempty"`
	StripePaymentID      string            `json:"stripe_payment_id,omitempty"`
}

type invoiceObject struct {
	AmountPaid          int64  `json:"amount_paid"`
	Currency            string `json:"currency"`
	Subscription        ref    `json:"subscription"`
	Customer            ref    `json:"customer"`
	SubscriptionDetails *struct {
		Metadata map[string]string `json:"metadata"`
	} `json:"subscription_details"`
}

type paymentIntentObject struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type subscriptionObject struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// ref decodes an expandable field, which Stripe sends either as a bare id
// or as an object carrying one.
type ref string

func (r *ref) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = ref(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = ref(obj.ID)
	return nil
}

// ParseWebhookEvent maps a verified event to a PaymentOutcome. Unhandled
// types, and handled types whose object cannot be decoded, yield an
// "unknown" outcome.
func ParseWebhookEvent(event stripe.Event) PaymentOutcome {
	eventType := string(event.Type)
	raw := eventObject(event)

	switch eventType {
	case EventInvoicePaymentSucceeded:
		var inv invoiceObject
		if !decodeObject(raw, &inv) {
			break
		}
		return PaymentOutcome{
			IsPaid:               true,
			EventType:            eventType,
			PaymentType:          PaymentTypeSubscription,
			Metadata:             inv.metadata(),
			Amount:               fromMinorUnits(inv.AmountPaid),
			Currency:             inv.Currency,
			StripeSubscriptionID: string(inv.Subscription),
			StripeCustomerID:     string(inv.Customer),
		}

	case EventInvoicePaymentFailed:
		var inv invoiceObject
		if !decodeObject(raw, &inv) {
			break
		}
		return PaymentOutcome{
			IsPaid:               false,
			EventType:            eventType,
			PaymentType:          PaymentTypeSubscription,
			Metadata:             inv.metadata(),
			StripeSubscriptionID: string(inv.Subscription),
		}

	case EventPaymentIntentSucceeded:
		var pi paymentIntentObject
		if !decodeObject(raw, &pi) {
			break
		}
		return PaymentOutcome{
			IsPaid:          true,
			EventType:       eventType,
			PaymentType:     PaymentTypeOneTime,
			Metadata:        orEmpty(pi.Metadata),
			Amount:          fromMinorUnits(pi.Amount),
			Currency:        pi.Currency,
			StripePaymentID: pi.ID,
		}

	case EventPaymentIntentPaymentFailed:
		var pi paymentIntentObject
		if !decodeObject(raw, &pi) {
			break
		}
		return PaymentOutcome{
			IsPaid:          false,
			EventType:       eventType,
			PaymentType:     PaymentTypeOneTime,
			Metadata:        orEmpty(pi.Metadata),
			StripePaymentID: pi.ID,
		}

	case EventCustomerSubscriptionDeleted:
		var sub subscriptionObject
		if !decodeObject(raw, &sub) {
			break
		}
		return PaymentOutcome{
			IsPaid:               false,
			EventType:            eventType,
			PaymentType:          PaymentTypeSubscriptionCanceled,
			Metadata:             orEmpty(sub.Metadata),
			StripeSubscriptionID: sub.ID,
		}
	}

	return PaymentOutcome{
		IsPaid:      false,
		EventType:   eventType,
		PaymentType: PaymentTypeUnknown,
		Metadata:    map[string]string{},
	}
}

func (inv invoiceObject) metadata() map[string]string {
	if inv.SubscriptionDetails == nil {
		return map[string]string{}
	}
	return orEmpty(inv.SubscriptionDetails.Metadata)
}

// eventObject returns the raw data.object JSON. Events built in code may
// only carry the decoded Object map.
func eventObject(event stripe.Event) []byte {
	if event.Data == nil {
		return nil
	}
	if len(event.Data.Raw) > 0 {
		return event.Data.Raw
	}
	if event.Data.Object != nil {
		if b, err := json.Marshal(event.Data.Object); err == nil {
			return b
		}
	}
	return nil
}

func decodeObject(raw []byte, out any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func fromMinorUnits(amount int64) *Amount {
	return &Amount{decimal.New(amount, -2)}
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
