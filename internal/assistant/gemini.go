package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNoAPIKey means the remote responder was selected without a key.
var ErrNoAPIKey = fmt.Errorf("assistant: api key not configured")

// Gemini calls the Generative Language REST API. The system instruction
// carries the same financial context the rule engine reads, so the model
// never has to ask for data the app already has.
type Gemini struct {
	APIKey  string
	Model   string
	BaseURL string // overridable for tests
	Client  *http.Client
}

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{APIKey: strings.TrimSpace(apiKey), Model: model}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) Respond(ctx context.Context, query string, fc Context) (string, error) {
	if g.APIKey == "" {
		return "", ErrNoAPIKey
	}
	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	body, err := json.Marshal(geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt(fc)}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: query}}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	base := g.BaseURL
	if base == "" {
		base = geminiBaseURL
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("gemini: %s", out.Error.Message)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

func systemPrompt(fc Context) string {
	var b strings.Builder
	b.WriteString("You are the finance assistant of a couple's dashboard. ")
	b.WriteString("Never ask for data listed below; answer directly, three sentences at most, friendly and plain.\n\n")
	fmt.Fprintf(&b, "Total balance: %s\n", fc.Money(fc.TotalBalance))
	fmt.Fprintf(&b, "Income this month: %s\n", fc.Money(fc.MonthIncome))
	fmt.Fprintf(&b, "Spending this month: %s\n", fc.Money(fc.MonthExpenses))
	fmt.Fprintf(&b, "Open card invoice: %s\n", fc.Money(fc.OpenInvoice))
	if fc.TopGoalTitle != "" {
		fmt.Fprintf(&b, "Main goal: %s at %s%%\n", fc.TopGoalTitle, fc.TopGoalProgress.StringFixed(0))
	}
	if fc.NextBill != nil {
		fmt.Fprintf(&b, "Next bill: %s, %s on %s\n", fc.NextBill.Description, fc.Money(fc.NextBill.Amount), fc.NextBill.Date)
	}
	return b.String()
}
