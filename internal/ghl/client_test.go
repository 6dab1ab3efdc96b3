package ghl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ksquared-16/alloy/platform/config"
	"github.com/ksquared-16/alloy/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		GHLBaseURL:        server.URL,
		GHLAPIKey:         "secret",
		GHLLocationID:     "loc-1",
		GHLAPIVersion:     "2021-07-28",
		GHLTimeout:        2 * time.Second,
		GHLDirectoryLimit: 50,
	}
	return NewClient(cfg, logger.New("test"))
}

func TestListContactsSendsHeadersAndDecodesVariants(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contacts/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("Version"); got != "2021-07-28" {
			t.Errorf("unexpected version header %q", got)
		}
		if got := r.URL.Query().Get("locationId"); got != "loc-1" {
			t.Errorf("unexpected locationId %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "50" {
			t.Errorf("unexpected limit %q", got)
		}
		_, _ = io.WriteString(w, `{"contacts":[
			{"id":"c1","contactName":"Ana Lopez","phone":"+15415550101","tags":["contractor_cleaning"],"source":"referral"},
			{"id":"c2","firstName":"Ben","lastName":"Cho","phone":"+15415550102","dateUpdated":"2025-01-02"}
		]}`)
	})

	contacts, err := client.ListContacts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
	if contacts[0].Name != "Ana Lopez" || contacts[0].Source != "referral" || len(contacts[0].Tags) != 1 {
		t.Fatalf("unexpected first contact %+v", contacts[0])
	}
	if contacts[1].Name != "Ben Cho" || contacts[1].UpdatedAt != "2025-01-02" {
		t.Fatalf("unexpected second contact %+v", contacts[1])
	}
}

func TestListContactsCollapsesConcurrentCalls(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		_, _ = io.WriteString(w, `{"contacts":[]}`)
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.ListContacts(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got < 1 || got > 5 {
		t.Fatalf("unexpected call count %d", got)
	}
}

func TestListContactsSurvivesFirstCallerCancel(t *testing.T) {
	var calls int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		_, _ = io.WriteString(w, `{"contacts":[{"id":"c1","contactName":"Xavier","phone":"+15550000001"}]}`)
	})

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.ListContacts(firstCtx)
		firstErr <- err
	}()
	<-entered

	type listResult struct {
		contacts []Contact
		err      error
	}
	second := make(chan listResult, 1)
	go func() {
		contacts, err := client.ListContacts(context.Background())
		second <- listResult{contacts, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected the first caller to see its own cancellation, got %v", err)
	}
	close(release)

	got := <-second
	if got.err != nil {
		t.Fatalf("expected the waiting caller to get the shared result, got %v", got.err)
	}
	if len(got.contacts) != 1 || got.contacts[0].ID != "c1" {
		t.Fatalf("unexpected contacts %+v", got.contacts)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one shared fetch, got %d", n)
	}
}

func TestSendSMSReturnsStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["type"] != "SMS" || body["contactId"] != "c1" || body["locationId"] != "loc-1" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"no phone"}`)
	})

	err := client.SendSMS(context.Background(), "c1", "hello")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsStatus(err, http.StatusUnprocessableEntity) {
		t.Fatalf("expected status error 422, got %v", err)
	}
}

func TestSendSMSAcceptsCreated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"messageId":"m1"}`)
	})
	if err := client.SendSMS(context.Background(), "c1", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFindAndUpdateJobRecord(t *testing.T) {
	var updated map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/objects/custom_objects.jobs/records/search":
			raw, _ := io.ReadAll(r.Body)
			var body searchRecordsRequest
			_ = json.Unmarshal(raw, &body)
			if body.PageLimit != 1 || body.Filters[0].Filters[0].Filters[0].Value != "A1" {
				t.Errorf("unexpected search body %s", raw)
			}
			_, _ = io.WriteString(w, `{"customObjectRecords":[{"id":"rec-9"}]}`)
		case r.Method == http.MethodPut && r.URL.Path == "/objects/custom_objects.jobs/records/rec-9":
			if r.URL.Query().Get("locationId") != "loc-1" {
				t.Errorf("missing locationId on update")
			}
			_ = json.NewDecoder(r.Body).Decode(&updated)
			_, _ = io.WriteString(w, `{}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	id, err := client.FindJobRecordID(context.Background(), "A1")
	if err != nil || id != "rec-9" {
		t.Fatalf("expected rec-9, got %q (%v)", id, err)
	}

	err = client.UpdateJobRecord(context.Background(), id, JobRecordProperties{
		ExternalJobID:          "A1",
		ContractorAssignedID:   "X",
		ContractorAssignedName: "Xena",
		JobStatus:              "contractor_assigned",
		AccessMethod:           "Lockbox",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props, _ := updated["properties"].(map[string]any)
	if props["contractor_assigned_id"] != "X" || props["how_will_your_cleaner_get_into_your_home"] != "Lockbox" {
		t.Fatalf("unexpected update payload %v", updated)
	}
}

func TestFindJobRecordIDNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"records":[]}`)
	})
	id, err := client.FindJobRecordID(context.Background(), "missing")
	if err != nil || id != "" {
		t.Fatalf("expected empty id without error, got %q (%v)", id, err)
	}
}

func TestListOpportunitiesDecodesCustomFieldShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("contactId") != "c1" {
			t.Errorf("unexpected contactId %q", r.URL.Query().Get("contactId"))
		}
		_, _ = io.WriteString(w, `{"opportunities":[
			{"id":"o1","status":"Open","updatedAt":"2025-02-01","monetaryValue":215,
			 "customFields":[{"key":"opportunity.price_breakdown","field_value":"Total: $215"},{"id":"abc","value":180}]},
			{"id":"o2","status":"won","priceBreakdown":"Total: $99","custom_fields":{"First Clean Price":"$120"}}
		]}`)
	})

	opps, err := client.ListOpportunities(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opps) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(opps))
	}
	first := opps[0]
	if first.Status != "open" || first.MonetaryValue == nil || *first.MonetaryValue != 215 {
		t.Fatalf("unexpected first opportunity %+v", first)
	}
	if got := first.Fields.Get("Price Breakdown"); got != "Total: $215" {
		t.Fatalf("expected breakdown from list-shaped custom fields, got %q", got)
	}
	if got := first.Fields.Get("abc"); got != "180" {
		t.Fatalf("expected numeric custom field rendered as text, got %q", got)
	}
	second := opps[1]
	if got := second.Fields.Get("price_breakdown"); got != "Total: $99" {
		t.Fatalf("expected top-level breakdown, got %q", got)
	}
	if got := second.Fields.Get("first_clean_price"); got != "$120" {
		t.Fatalf("expected map-shaped custom field, got %q", got)
	}
}

func TestSearchContactsAcceptsBareList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["query"] != "+15415550101" || body["pageLimit"] != float64(searchPageLimit) {
			t.Errorf("unexpected body %v", body)
		}
		_, _ = io.WriteString(w, `[{"id":"c7","phone":"+15415550101","updatedAt":"2025-03-01"}]`)
	})

	result, err := client.SearchContacts(context.Background(), " +15415550101 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Contacts) != 1 || result.Contacts[0].ID != "c7" {
		t.Fatalf("unexpected search result %+v", result)
	}
}

func TestCreateContactRequiresID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"contact":{}}`)
	})
	if _, err := client.CreateContact(context.Background(), NewContact{FirstName: "Ana"}); err == nil {
		t.Fatalf("expected error when the response has no contact id")
	}
}

func TestNumberRejectsNonFiniteStrings(t *testing.T) {
	if v, ok := number("310.5"); !ok || v != 310.5 {
		t.Fatalf("expected 310.5, got %v (%v)", v, ok)
	}
	for _, raw := range []string{"Infinity", "NaN", "-Inf"} {
		if _, ok := number(raw); ok {
			t.Fatalf("expected number(%q) to fail", raw)
		}
	}
}
