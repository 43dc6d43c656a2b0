package pintest

// Response bodies shaped like the Pin Payments API, for stubbing.

// Card returns a card object as embedded in charge and customer responses
func Card(token string, primary bool) map[string]any {
	return map[string]any{
		"token":            token,
		"scheme":           "master",
		"display_number":   "XXXX-XXXX-XXXX-0000",
		"expiry_month":     6,
		"expiry_year":      2030,
		"name":             "Roland Robot",
		"address_line1":    "42 Sevenoaks St",
		"address_line2":    "",
		"address_city":     "Lathlain",
		"address_postcode": "6454",
		"address_state":    "WA",
		"address_country":  "Australia",
		"primary":          primary,
	}
}

// ChargeSuccess returns a successful charge response
func ChargeSuccess(token string, totalFees int64, statusMessage string) map[string]any {
	return map[string]any{
		"response": map[string]any{
			"token":          token,
			"success":        true,
			"amount":         500,
			"currency":       "AUD",
			"total_fees":     totalFees,
			"status_message": statusMessage,
			"card":           Card("card_nytGw7koRg23EEp9NTmz9w", false),
		},
	}
}

// Error returns a generic gateway error body
func Error(code, description string, messages ...string) map[string]any {
	body := map[string]any{
		"error":             code,
		"error_description": description,
	}
	if len(messages) > 0 {
		list := make([]map[string]any, 0, len(messages))
		for _, m := range messages {
			list = append(list, map[string]any{"code": code, "message": m})
		}
		body["messages"] = list
	}
	return body
}

// Customer returns a customer response with its primary card
func Customer(token, email, cardToken string) map[string]any {
	return map[string]any{
		"response": map[string]any{
			"token":      token,
			"email":      email,
			"created_at": "2012-06-22T06:27:33Z",
			"card":       Card(cardToken, true),
		},
	}
}

// CardResponse wraps a card object as the response of a card endpoint
func CardResponse(token string, primary bool) map[string]any {
	return map[string]any{"response": Card(token, primary)}
}

// Recipient returns a recipient response with its bank account
func Recipient(token, email, name string) map[string]any {
	return map[string]any{
		"response": map[string]any{
			"token":      token,
			"name":       name,
			"email":      email,
			"created_at": "2012-06-22T06:27:33Z",
			"bank_account": map[string]any{
				"token":     "ba_nytGw7koRg23EEp9NTmz9w",
				"name":      "Mr Roland Robot",
				"bsb":       "123456",
				"number":    "XXXXXX321",
				"bank_name": "Bank of Robots",
				"branch":    "Lathlain",
			},
		},
	}
}

// Transfer returns a transfer response
func Transfer(token, status string, amount int64, currency string) map[string]any {
	return map[string]any{
		"response": map[string]any{
			"token":       token,
			"status":      status,
			"currency":    currency,
			"description": "Earnings for may",
			"amount":      amount,
			"created_at":  "2012-06-22T06:27:33Z",
		},
	}
}

// Plan returns a plan object as listed by GET /plans
func Plan(token, name string, amount int64) map[string]any {
	return map[string]any{
		"token":               token,
		"name":                name,
		"amount":              amount,
		"currency":            "AUD",
		"setup_amount":        0,
		"trial_amount":        0,
		"interval":            1,
		"interval_unit":       "month",
		"intervals":           0,
		"trial_interval":      0,
		"trial_interval_unit": "",
		"created_at":          "2016-01-01T00:00:00Z",
	}
}

// Page wraps items as one page of a paginated listing
func Page(items []map[string]any, current int, next any) map[string]any {
	return map[string]any{
		"response": items,
		"pagination": map[string]any{
			"current":  current,
			"previous": nil,
			"next":     next,
			"per_page": 25,
			"count":    len(items),
		},
	}
}
