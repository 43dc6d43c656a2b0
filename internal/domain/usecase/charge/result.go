package charge

import (
	"github.com/amirhossein-jamali/pinpayments/internal/domain/entity"
	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/gateway"
	"github.com/shopspring/decimal"
)

// failureMessage is recorded when the gateway reply cannot be read
const failureMessage = "Failure."

type outcome int

const (
	outcomeUnreadable outcome = iota
	outcomeDeclined
	outcomeApproved
)

// result is the interpreted reply to POST /charges
type result struct {
	outcome outcome
	token   string
	message string
	fees    decimal.NullDecimal
	card    entity.CardSnapshot
}

// parseResult interprets a charge reply. resp may be nil when the call failed.
func parseResult(resp *gateway.Response, currency string) result {
	if resp == nil || resp.JSON == nil {
		return result{outcome: outcomeUnreadable, message: failureMessage}
	}
	body := resp.JSON

	if body.Has("error") {
		message := body.String("error_description")
		if messages := body.List("messages"); len(messages) > 0 && messages[0].String("message") != "" {
			message = messages[0].String("message")
		}
		return result{
			outcome: outcomeDeclined,
			token:   body.String("charge_token"),
			message: "Failure: " + message,
		}
	}

	charge := body.Object("response")
	if len(charge) == 0 {
		return result{outcome: outcomeUnreadable, message: failureMessage}
	}

	r := result{
		outcome: outcomeApproved,
		token:   charge.String("token"),
		message: charge.String("status_message"),
	}
	if fees, ok := charge.OptionalInt64("total_fees"); ok {
		r.fees = decimal.NewNullDecimal(entity.ToDecimal(fees, currency))
	}

	card := charge.Object("card")
	r.card = entity.CardSnapshot{
		Address1: card.String("address_line1"),
		Address2: card.String("address_line2"),
		City:     card.String("address_city"),
		State:    card.String("address_state"),
		Postcode: card.String("address_postcode"),
		Country:  card.String("address_country"),
		Number:   card.String("display_number"),
		Type:     card.String("scheme"),
	}
	return r
}

// apply records the result on the transaction
func (r result) apply(transaction *entity.Transaction) {
	if r.outcome == outcomeApproved {
		transaction.RecordSuccess(r.token, r.fees, r.message, r.card)
		return
	}
	transaction.RecordFailure(r.message, r.token)
}
