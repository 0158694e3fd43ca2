package device

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Bridge talks to the companion app over its local HTTP API. It satisfies
// every remote capability interface; the assistant process itself has no
// direct hold on the phone.
type Bridge struct {
	baseURL    string
	httpClient *http.Client
}

// NewBridge builds a client for the bridge at baseURL, e.g.
// http://127.0.0.1:8647. A nil httpClient gets a default with a 30s
// timeout.
func NewBridge(baseURL string, httpClient *http.Client) *Bridge {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Bridge{baseURL: baseURL, httpClient: httpClient}
}

// BridgeError is a non-2xx answer from the bridge.
type BridgeError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge %s: status %d: %s", e.Endpoint, e.Status, e.Message)
}

func (b *Bridge) post(ctx context.Context, endpoint, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+endpoint, bytes.NewReader([]byte(body)))
	if err != nil {
		return "", fmt.Errorf("bridge %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req, endpoint)
}

func (b *Bridge) get(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("bridge %s: %w", endpoint, err)
	}
	return b.do(req, endpoint)
}

func (b *Bridge) do(req *http.Request, endpoint string) (string, error) {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("bridge %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("bridge %s: read response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(respBody, "error").String()
		if msg == "" {
			msg = string(respBody)
		}
		return "", &BridgeError{Endpoint: endpoint, Status: resp.StatusCode, Message: msg}
	}
	return string(respBody), nil
}

func (b *Bridge) Act(ctx context.Context, sr ScreenRequest) (string, error) {
	body, _ := sjson.Set("{}", "action", sr.Action)
	if sr.Target != "" {
		body, _ = sjson.Set(body, "target", sr.Target)
	}
	if sr.Text != "" {
		body, _ = sjson.Set(body, "text", sr.Text)
	}
	if sr.Direction != "" {
		body, _ = sjson.Set(body, "direction", sr.Direction)
	}

	resp, err := b.post(ctx, "/v1/screen", body)
	if err != nil {
		return "", err
	}
	if desc := gjson.Get(resp, "result").String(); desc != "" {
		return desc, nil
	}
	return resp, nil
}

func (b *Bridge) Open(ctx context.Context, pkg string) error {
	body, _ := sjson.Set("{}", "app", pkg)
	_, err := b.post(ctx, "/v1/apps/open", body)
	return err
}

func (b *Bridge) SendWhatsApp(ctx context.Context, contact, message string) error {
	body, _ := sjson.Set("{}", "contact", contact)
	body, _ = sjson.Set(body, "message", message)
	_, err := b.post(ctx, "/v1/whatsapp/send", body)
	return err
}

func (b *Bridge) SendSMS(ctx context.Context, to, msgBody string) error {
	body, _ := sjson.Set("{}", "to", to)
	body, _ = sjson.Set(body, "body", msgBody)
	_, err := b.post(ctx, "/v1/sms/send", body)
	return err
}

func (b *Bridge) ReadSMS(ctx context.Context, limit int) ([]SMSMessage, error) {
	resp, err := b.get(ctx, "/v1/sms/inbox?limit="+strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}

	var msgs []SMSMessage
	for _, m := range gjson.Get(resp, "messages").Array() {
		at, _ := time.Parse(time.RFC3339, m.Get("at").String())
		msgs = append(msgs, SMSMessage{
			From: m.Get("from").String(),
			Body: m.Get("body").String(),
			At:   at,
		})
	}
	return msgs, nil
}

func (b *Bridge) SetAlarm(ctx context.Context, at, label string) error {
	body, _ := sjson.Set("{}", "time", at)
	if label != "" {
		body, _ = sjson.Set(body, "label", label)
	}
	_, err := b.post(ctx, "/v1/alarm", body)
	return err
}

func (b *Bridge) SetTimer(ctx context.Context, seconds int, label string) error {
	body, _ := sjson.Set("{}", "seconds", seconds)
	if label != "" {
		body, _ = sjson.Set(body, "label", label)
	}
	_, err := b.post(ctx, "/v1/timer", body)
	return err
}

func (b *Bridge) CreateEvent(ctx context.Context, ev Event) error {
	body, _ := sjson.Set("{}", "title", ev.Title)
	body, _ = sjson.Set(body, "start", ev.Start)
	if ev.End != "" {
		body, _ = sjson.Set(body, "end", ev.End)
	}
	if ev.Location != "" {
		body, _ = sjson.Set(body, "location", ev.Location)
	}
	if ev.Notes != "" {
		body, _ = sjson.Set(body, "notes", ev.Notes)
	}
	_, err := b.post(ctx, "/v1/calendar/events", body)
	return err
}

func (b *Bridge) Copy(ctx context.Context, text string) error {
	body, _ := sjson.Set("{}", "text", text)
	_, err := b.post(ctx, "/v1/clipboard", body)
	return err
}

func (b *Bridge) Paste(ctx context.Context) (string, error) {
	resp, err := b.get(ctx, "/v1/clipboard")
	if err != nil {
		return "", err
	}
	return gjson.Get(resp, "text").String(), nil
}
