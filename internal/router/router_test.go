package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"cardulary/internal/config"
	"cardulary/internal/ports/transport"
	"cardulary/internal/router"
)

type fakeEmail struct {
	mu   sync.Mutex
	sent []transport.EmailRequest
	fail func(to string) bool
}

func (f *fakeEmail) SendAddressRequest(_ context.Context, in transport.EmailRequest) (transport.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil && f.fail(in.To) {
		return transport.SendResult{}, io.ErrUnexpectedEOF
	}
	f.sent = append(f.sent, in)
	return transport.SendResult{ProviderID: "email-msg-1"}, nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []transport.SMSRequest
}

func (f *fakeSMS) SendAddressRequest(_ context.Context, in transport.SMSRequest) (transport.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, in)
	return transport.SendResult{ProviderID: "sms-msg-1"}, nil
}

func newTestServer(t *testing.T, email *fakeEmail, sms *fakeSMS) *httptest.Server {
	t.Helper()
	h := router.NewRouter(router.Options{
		Config: config.Config{
			BaseURL:        "https://cardulary.test",
			ExternalAPIKey: "integration-key",
		},
		Email: email,
		SMS:   sms,
	})
	return httptest.NewServer(h)
}

func TestHTTP_EndToEnd_CollectAndExport(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	ts := newTestServer(t, email, sms)
	defer ts.Close()

	organizerID := "organizer-1"

	// 1) Organizador crea evento
	eventID := createEvent(t, ts.URL, organizerID, map[string]any{
		"name":           "Emma's Wedding",
		"category":       "wedding",
		"custom_message": "We'd love your address! [link]",
	})

	// 2) Guest sin contacto => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/guests", organizerID, map[string]any{
			"first_name": "Sin",
			"last_name":  "Contacto",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 creating guest without contact, got %d", st)
		}
	}

	// 3) Guest con email
	guest := createGuest(t, ts.URL, organizerID, eventID, map[string]any{
		"first_name": "John",
		"last_name":  "Doe",
		"email":      "john@example.com",
	})
	if guest.Status != "not_sent" {
		t.Fatalf("new guest status = %q, want not_sent", guest.Status)
	}
	if len(guest.Token) != 64 {
		t.Fatalf("token length = %d, want 64", len(guest.Token))
	}

	// 4) Otro organizador no ve el evento
	{
		st, _ := doReq(t, ts.URL, "GET", "/events/"+eventID, "intruder-9", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign organizer, got %d", st)
		}
	}

	// 5) Send requests por email
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/send-requests", organizerID, map[string]any{
			"guest_ids": []string{guest.ID},
			"message":   "Hi John! Address please: [link]",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 send-requests, got %d body=%s", st, string(body))
		}
		var resp struct {
			Message string `json:"message"`
			Results struct {
				Success int      `json:"success"`
				Failed  int      `json:"failed"`
				Errors  []string `json:"errors"`
			} `json:"results"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Message != "Sent 1 requests, 0 failed" {
			t.Fatalf("unexpected message %q", resp.Message)
		}
		if resp.Results.Success != 1 || resp.Results.Failed != 0 {
			t.Fatalf("unexpected results %+v", resp.Results)
		}
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email sent, got %d", len(email.sent))
	}
	if !strings.Contains(email.sent[0].SubmissionURL, "/submit/"+guest.Token) {
		t.Fatalf("submission url %q missing token", email.sent[0].SubmissionURL)
	}

	// status pasó a pending
	if g := getGuest(t, ts.URL, organizerID, eventID, guest.ID); g.Status != "pending" {
		t.Fatalf("after send status = %q, want pending", g.Status)
	}

	// 6) El guest abre el form
	{
		st, body := doReq(t, ts.URL, "GET", "/submit/"+guest.Token, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 form context, got %d body=%s", st, string(body))
		}
		var ctx struct {
			GuestFirstName string `json:"guest_first_name"`
			EventName      string `json:"event_name"`
		}
		_ = json.Unmarshal(body, &ctx)
		if ctx.GuestFirstName != "John" || ctx.EventName != "Emma's Wedding" {
			t.Fatalf("unexpected form context %+v", ctx)
		}
	}

	// 7) Token inválido => 404, sin distinguir motivo
	{
		st, _ := doReq(t, ts.URL, "GET", "/submit/"+strings.Repeat("f", 64), "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown token, got %d", st)
		}
	}

	// 8) Submit con ZIP inválido => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/submit", "", map[string]any{
			"token":        guest.Token,
			"addressLine1": "123 Main St",
			"city":         "Springfield",
			"state":        "IL",
			"zip":          "1234",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad zip, got %d", st)
		}
	}

	// 9) Submit válido
	{
		st, body := doReq(t, ts.URL, "POST", "/submit", "", map[string]any{
			"token":        guest.Token,
			"addressLine1": "123 Main St",
			"addressLine2": "Apt 4",
			"city":         "Springfield",
			"state":        "il",
			"zip":          "62704",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 submit, got %d body=%s", st, string(body))
		}
		var sub struct {
			State     string `json:"state"`
			Country   string `json:"country"`
			IsCurrent bool   `json:"is_current"`
		}
		_ = json.Unmarshal(body, &sub)
		if sub.State != "IL" {
			t.Fatalf("state not normalized: %q", sub.State)
		}
		if sub.Country != "US" {
			t.Fatalf("country default = %q, want US", sub.Country)
		}
		if !sub.IsCurrent {
			t.Fatal("new submission should be current")
		}
	}

	if g := getGuest(t, ts.URL, organizerID, eventID, guest.ID); g.Status != "completed" {
		t.Fatalf("after submit status = %q, want completed", g.Status)
	}

	// 10) Re-submit: nueva fila current, la anterior queda en historial
	{
		st, body := doReq(t, ts.URL, "POST", "/submit", "", map[string]any{
			"token":        guest.Token,
			"addressLine1": "456 Oak Ave",
			"city":         "Chicago",
			"state":        "IL",
			"zip":          "60601-1234",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 re-submit, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/events/"+eventID+"/guests/"+guest.ID+"/submissions", organizerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 submissions history, got %d body=%s", st, string(body))
		}
		var history []struct {
			AddressLine1 string `json:"address_line1"`
			IsCurrent    bool   `json:"is_current"`
		}
		_ = json.Unmarshal(body, &history)
		if len(history) != 2 {
			t.Fatalf("history length = %d, want 2", len(history))
		}
		if !history[0].IsCurrent || history[0].AddressLine1 != "456 Oak Ave" {
			t.Fatalf("newest entry wrong: %+v", history[0])
		}
		if history[1].IsCurrent {
			t.Fatal("old submission still current")
		}
	}

	// 11) Export avery CSV
	{
		req, _ := http.NewRequest("GET", ts.URL+"/events/"+eventID+"/export?format=avery", nil)
		req.Header.Set("X-Debug-User-ID", organizerID)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("export request: %v", err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 export, got %d", res.StatusCode)
		}
		if cd := res.Header.Get("Content-Disposition"); !strings.Contains(cd, "emma_s_wedding_addresses_") {
			t.Fatalf("unexpected content disposition %q", cd)
		}
		body, _ := io.ReadAll(res.Body)
		if !strings.Contains(string(body), "\"John Doe\"") || !strings.Contains(string(body), "\"456 Oak Ave\"") {
			t.Fatalf("export body missing data: %s", string(body))
		}
	}

	// 12) Historial de exports quedó registrado
	{
		st, body := doReq(t, ts.URL, "GET", "/events/"+eventID+"/exports", organizerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 export history, got %d body=%s", st, string(body))
		}
		var logs []struct {
			Format string `json:"format"`
		}
		_ = json.Unmarshal(body, &logs)
		if len(logs) != 1 || logs[0].Format != "avery" {
			t.Fatalf("unexpected export history %+v", logs)
		}
	}

	// 13) API externa con key
	{
		req, _ := http.NewRequest("GET", ts.URL+"/external/addresses?eventId="+eventID+"&userId="+organizerID, nil)
		req.Header.Set("X-Api-Key", "integration-key")
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("external request: %v", err)
		}
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 external addresses, got %d", res.StatusCode)
		}
		var out struct {
			Total     int `json:"total"`
			Addresses []struct {
				FullName string `json:"fullName"`
			} `json:"addresses"`
		}
		_ = json.NewDecoder(res.Body).Decode(&out)
		if out.Total != 1 || out.Addresses[0].FullName != "John Doe" {
			t.Fatalf("unexpected external payload %+v", out)
		}
	}
	{
		req, _ := http.NewRequest("GET", ts.URL+"/external/addresses?eventId="+eventID+"&userId="+organizerID, nil)
		req.Header.Set("X-Api-Key", "wrong-key")
		res, _ := http.DefaultClient.Do(req)
		res.Body.Close()
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 with wrong key, got %d", res.StatusCode)
		}
	}
}

func TestHTTP_Dispatch_IsolatesFailures(t *testing.T) {
	email := &fakeEmail{fail: func(to string) bool { return to == "broken@example.com" }}
	ts := newTestServer(t, email, &fakeSMS{})
	defer ts.Close()

	organizerID := "organizer-2"
	eventID := createEvent(t, ts.URL, organizerID, map[string]any{
		"name": "Reunion", "category": "other",
	})

	g1 := createGuest(t, ts.URL, organizerID, eventID, map[string]any{
		"first_name": "Ana", "last_name": "Ok", "email": "ana@example.com",
	})
	g2 := createGuest(t, ts.URL, organizerID, eventID, map[string]any{
		"first_name": "Bob", "last_name": "Broken", "email": "broken@example.com",
	})
	g3 := createGuest(t, ts.URL, organizerID, eventID, map[string]any{
		"first_name": "Cleo", "last_name": "SoloTel", "phone": "5551234567",
	})

	st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/send-requests", organizerID, map[string]any{
		"guest_ids": []string{g1.ID, g2.ID, g3.ID},
		"message":   "address please [link]",
		"channel":   "email",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 partial dispatch, got %d body=%s", st, string(body))
	}

	var resp struct {
		Message string `json:"message"`
		Results struct {
			Success int      `json:"success"`
			Failed  int      `json:"failed"`
			Errors  []string `json:"errors"`
		} `json:"results"`
	}
	_ = json.Unmarshal(body, &resp)

	if resp.Results.Success != 1 || resp.Results.Failed != 2 {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
	if resp.Message != "Sent 1 requests, 2 failed" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	want := []string{"Bob Broken: Email failed", "Cleo SoloTel: No email address"}
	for _, w := range want {
		found := false
		for _, e := range resp.Results.Errors {
			if e == w {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing error %q in %v", w, resp.Results.Errors)
		}
	}

	// El éxito de g1 no se pierde por las fallas de los demás
	if g := getGuest(t, ts.URL, organizerID, eventID, g1.ID); g.Status != "pending" {
		t.Fatalf("g1 status = %q, want pending", g.Status)
	}
	if g := getGuest(t, ts.URL, organizerID, eventID, g2.ID); g.Status != "not_sent" {
		t.Fatalf("g2 status = %q, want not_sent", g.Status)
	}
}

func TestHTTP_Webhook_BouncesPendingGuest(t *testing.T) {
	email := &fakeEmail{}
	ts := newTestServer(t, email, &fakeSMS{})
	defer ts.Close()

	organizerID := "organizer-3"
	eventID := createEvent(t, ts.URL, organizerID, map[string]any{
		"name": "Baby Shower", "category": "other",
	})
	g := createGuest(t, ts.URL, organizerID, eventID, map[string]any{
		"first_name": "Dora", "last_name": "Lost", "email": "dora@example.com",
	})

	// bounce sobre not_sent no transiciona, pero igual queda el audit
	st, _ := doReq(t, ts.URL, "POST", "/webhooks/delivery", "", map[string]any{
		"guest_id": g.ID, "event_type": "bounced", "channel": "email",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 webhook on not_sent, got %d", st)
	}
	if got := getGuest(t, ts.URL, organizerID, eventID, g.ID); got.Status != "not_sent" {
		t.Fatalf("status after early bounce = %q, want not_sent", got.Status)
	}

	doReq(t, ts.URL, "POST", "/events/"+eventID+"/send-requests", organizerID, map[string]any{
		"guest_ids": []string{g.ID},
		"message":   "hi [link]",
	})

	st, _ = doReq(t, ts.URL, "POST", "/webhooks/delivery", "", map[string]any{
		"guest_id": g.ID, "event_type": "bounced", "channel": "email",
		"metadata": map[string]any{"reason": "mailbox full"},
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 webhook, got %d", st)
	}
	if got := getGuest(t, ts.URL, organizerID, eventID, g.ID); got.Status != "bounced" {
		t.Fatalf("status after bounce = %q, want bounced", got.Status)
	}

	// el audit log del guest tiene sent + los dos bounces
	st, body := doReq(t, ts.URL, "GET", "/events/"+eventID+"/guests/"+g.ID+"/delivery-events", organizerID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 delivery events, got %d body=%s", st, string(body))
	}
	var evs []struct {
		EventType string `json:"event_type"`
	}
	_ = json.Unmarshal(body, &evs)
	if len(evs) != 3 {
		t.Fatalf("delivery events = %d, want 3", len(evs))
	}
}

func TestHTTP_Personalize_FallsBackWithoutProvider(t *testing.T) {
	ts := newTestServer(t, &fakeEmail{}, &fakeSMS{})
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/ai/personalize", "organizer-4", map[string]any{
		"eventName":      "Emma's Wedding",
		"guestFirstName": "John",
		"organizerName":  "Emma",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 personalize, got %d body=%s", st, string(body))
	}
	var resp struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &resp)
	if !strings.Contains(resp.Message, "[link]") {
		t.Fatalf("message %q missing [link] placeholder", resp.Message)
	}
	if !strings.Contains(resp.Message, "John") {
		t.Fatalf("message %q missing guest name", resp.Message)
	}
}

type guestDTO struct {
	ID     string `json:"id"`
	Token  string `json:"token"`
	Status string `json:"status"`
}

func createEvent(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/events", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create event, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create event: missing id body=%s", string(body))
	}
	return resp.ID
}

func createGuest(t *testing.T, baseURL, userID, eventID string, payload map[string]any) guestDTO {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/events/"+eventID+"/guests", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create guest, got %d body=%s", st, string(body))
	}

	var g guestDTO
	_ = json.Unmarshal(body, &g)
	if g.ID == "" {
		t.Fatalf("create guest: missing id body=%s", string(body))
	}
	return g
}

func getGuest(t *testing.T, baseURL, userID, eventID, guestID string) guestDTO {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/events/"+eventID+"/guests", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list guests, got %d body=%s", st, string(body))
	}

	var list []guestDTO
	_ = json.Unmarshal(body, &list)
	for _, g := range list {
		if g.ID == guestID {
			return g
		}
	}
	t.Fatalf("guest %s not found in list", guestID)
	return guestDTO{}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
