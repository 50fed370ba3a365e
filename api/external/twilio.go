/* twilio.go
 * Contains the Twilio messenger used to push proactive WhatsApp/SMS messages (opening notices and
 * admin broadcasts). Requests go through a token-bucket limiter because Twilio rejects bursts
 * above the sender's throughput
 */

package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "poolmanager-bot/api/errors"

	"golang.org/x/time/rate"
)

const (
	defaultTwilioBaseURL = "https://api.twilio.com/2010-04-01"
	whatsappPrefix       = "whatsapp:"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// From is the sending number, with or without the whatsapp: prefix
	From              string
	BaseURL           string
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

type TwilioMessenger struct {
	cfg      TwilioConfig
	client   *http.Client
	limiter  *rate.Limiter
	endpoint string
}

// twilioError is the JSON body Twilio returns with non-2xx responses
type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewTwilioMessenger validates cfg and builds a messenger.
// Preconditions: AccountSID, AuthToken and From are set
// Postconditions: Returns the messenger or an error naming the missing setting
func NewTwilioMessenger(cfg TwilioConfig) (*TwilioMessenger, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, fmt.Errorf("twilio account sid, auth token and from number are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTwilioBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &TwilioMessenger{
		cfg:      cfg,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		endpoint: fmt.Sprintf("%s/Accounts/%s/Messages.json", strings.TrimRight(cfg.BaseURL, "/"), url.PathEscape(cfg.AccountSID)),
	}, nil
}

// Send posts one message. The wait for a limiter token honours ctx, so a stopping scheduler does not
// hang behind a long queue of notices
func (m *TwilioMessenger) Send(ctx context.Context, identity string, text string) error {
	to := strings.TrimSpace(identity)
	if to == "" {
		return apperrors.NewAppError(apperrors.CodeDelivery, "empty recipient", nil)
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return apperrors.NewAppError(apperrors.CodeDelivery, "waiting for rate limiter", err)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", m.senderFor(to))
	form.Set("Body", text)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.NewAppError(apperrors.CodeDelivery, "building twilio request", err)
	}
	request.SetBasicAuth(m.cfg.AccountSID, m.cfg.AuthToken)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/json")

	response, err := m.client.Do(request)
	if err != nil {
		return apperrors.NewAppError(apperrors.CodeDelivery, fmt.Sprintf("sending to %s", to), err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
	var twErr twilioError
	if json.Unmarshal(body, &twErr) == nil && twErr.Message != "" {
		return apperrors.NewAppError(apperrors.CodeDelivery,
			fmt.Sprintf("twilio rejected message to %s: %d %s", to, twErr.Code, twErr.Message), nil)
	}
	return apperrors.NewAppError(apperrors.CodeDelivery,
		fmt.Sprintf("twilio rejected message to %s with status %d", to, response.StatusCode), nil)
}

// senderFor matches the channel of the recipient: WhatsApp recipients need a whatsapp: sender,
// plain numbers (partners typed as free text) go out as SMS
func (m *TwilioMessenger) senderFor(to string) string {
	from := strings.TrimPrefix(m.cfg.From, whatsappPrefix)
	if strings.HasPrefix(to, whatsappPrefix) {
		return whatsappPrefix + from
	}
	return from
}
