package tools

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"goa.design/clue/log"
	"golang.org/x/text/currency"

	"github.com/jbdamask/toolhost/pkg/llm"
)

const DefaultCurrencyURL = "https://open.er-api.com/v6/latest"

// CurrencyTool converts amounts with the open exchange-rate API and, when a
// model is available, adds a short note about the conversion.
type CurrencyTool struct {
	api     *apiClient
	baseURL string
	backend Backend
}

func NewCurrencyTool(u Upstream, backend Backend) *CurrencyTool {
	return &CurrencyTool{
		api:     newAPIClient("Exchange rate API", u),
		baseURL: u.baseURL(DefaultCurrencyURL),
		backend: backend,
	}
}

func (t *CurrencyTool) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "convert_currency",
		Description: "Convert an amount between two currencies using live exchange rates.",
		Schema: objectSchema([]string{"amount", "from_currency", "to_currency"}, map[string]interface{}{
			"amount": map[string]interface{}{
				"type":        "number",
				"description": "Amount to convert; must be greater than zero.",
			},
			"from_currency": stringProp("ISO 4217 code of the source currency (e.g. USD)."),
			"to_currency":   stringProp("ISO 4217 code of the target currency (e.g. EUR)."),
			"context":       stringProp("Optional purpose of the conversion, used for the note (e.g. \"hotel booking in Lisbon\")."),
		}),
	}
}

type rateResponse struct {
	Result      string             `json:"result"`
	ErrorType   string             `json:"error-type"`
	BaseCode    string             `json:"base_code"`
	LastUpdated string             `json:"time_last_update_utc"`
	Rates       map[string]float64 `json:"rates"`
}

func currencyArg(args map[string]interface{}, key, label string) (string, error) {
	code, err := requiredString(args, key, label, 1)
	if err != nil {
		return "", err
	}
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return "", invalid(key, "%q is not a recognized ISO 4217 currency code.", code)
	}
	return unit.String(), nil
}

func (t *CurrencyTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	amount, err := numberArg(args, "amount", "Amount")
	if err != nil {
		return "", err
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", invalid("amount", "Amount must be greater than zero.")
	}
	from, err := currencyArg(args, "from_currency", "Source currency")
	if err != nil {
		return "", err
	}
	to, err := currencyArg(args, "to_currency", "Target currency")
	if err != nil {
		return "", err
	}
	purpose := stringArg(args, "context")

	var resp rateResponse
	status, err := t.api.getJSON(ctx, t.baseURL+"/"+url.PathEscape(from), nil, &resp)
	if err != nil {
		return "", err
	}
	if resp.Result != "success" {
		return "", &UpstreamError{Service: "Exchange rate API", Status: status, Detail: resp.ErrorType}
	}
	rate, ok := resp.Rates[to]
	if !ok || rate <= 0 {
		return "", &UpstreamError{Service: "Exchange rate API", Detail: fmt.Sprintf("no rate available for %s to %s", from, to)}
	}
	converted := amount * rate
	if math.IsInf(converted, 0) {
		return "", invalid("amount", "Amount is too large to convert.")
	}

	var sb strings.Builder
	sb.WriteString("💱 Currency conversion\n")
	fmt.Fprintf(&sb, "%.2f %s = %.2f %s\n", amount, from, converted, to)
	fmt.Fprintf(&sb, "Rate: 1 %s = %.4f %s", from, rate, to)
	if resp.LastUpdated != "" {
		fmt.Fprintf(&sb, "\nUpdated: %s", resp.LastUpdated)
	}
	if note := t.note(ctx, amount, from, converted, to, purpose); note != "" {
		fmt.Fprintf(&sb, "\nNote: %s", note)
	}
	return sb.String(), nil
}

// note is best effort: the conversion stands on its own, so a missing model
// or a failed generation drops the note instead of failing the call.
func (t *CurrencyTool) note(ctx context.Context, amount float64, from string, converted float64, to, purpose string) string {
	prompt := fmt.Sprintf(
		"In one or two short sentences, give a practical note for someone converting %.2f %s to %.2f %s",
		amount, from, converted, to)
	if purpose != "" {
		prompt += " for this purpose: " + purpose
	}
	prompt += ". Do not repeat the numbers. No preamble."

	text, err := t.backend.generate(ctx, llm.Prompt{Text: prompt})
	if err != nil {
		log.Warn(ctx, log.KV{K: "msg", V: "currency note skipped"}, log.KV{K: "err", V: err.Error()})
		return ""
	}
	return strings.Join(strings.Fields(text), " ")
}
