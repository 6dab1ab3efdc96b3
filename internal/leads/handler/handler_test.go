package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ksquared-16/alloy/internal/leads/ports"
	"github.com/ksquared-16/alloy/internal/leads/service"
	"github.com/ksquared-16/alloy/internal/leads/transport"
	"github.com/ksquared-16/alloy/platform/logger"
	"github.com/ksquared-16/alloy/platform/validator"

	"github.com/gin-gonic/gin"
)

type fakeCRM struct {
	created []ports.NewContact
	err     error
}

func (f *fakeCRM) CreateContact(_ context.Context, contact ports.NewContact) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, contact)
	return "contact-1", nil
}

func newRouter(crm *fakeCRM) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	val := validator.New()
	if err := transport.RegisterValidations(val); err != nil {
		panic(err)
	}
	h := New(service.New(crm, logger.New("test")), val)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitCleaningLeadDefaultsCityAndTags(t *testing.T) {
	crm := &fakeCRM{}
	w := post(newRouter(crm), "/api/v1/leads/cleaning",
		`{"name":"Dana  Ruiz Ortega","email":"Dana@Example.com","phone":"(541) 555-0199","bedrooms":3,"notes":"<b>dog</b> friendly"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["ok"] != true || resp["contact_id"] != "contact-1" {
		t.Fatalf("unexpected response %v", resp)
	}

	if len(crm.created) != 1 {
		t.Fatalf("expected one contact, got %d", len(crm.created))
	}
	got := crm.created[0]
	if got.FirstName != "Dana" || got.LastName != "Ruiz Ortega" {
		t.Fatalf("unexpected name split %q / %q", got.FirstName, got.LastName)
	}
	if got.Email != "dana@example.com" {
		t.Fatalf("expected normalized email, got %q", got.Email)
	}
	if got.CustomFields["city"] != "Bend" {
		t.Fatalf("expected default city Bend, got %q", got.CustomFields["city"])
	}
	if got.CustomFields["bedrooms"] != "3" || got.CustomFields["notes"] != "dog friendly" {
		t.Fatalf("unexpected custom fields %v", got.CustomFields)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "cleaning_lead" || got.Tags[1] != "website_lead" {
		t.Fatalf("unexpected tags %v", got.Tags)
	}
}

func TestSubmitCleaningLeadRejectsInvalidEmail(t *testing.T) {
	crm := &fakeCRM{}
	w := post(newRouter(crm), "/api/v1/leads/cleaning", `{"name":"Dana","email":"nope","phone":"5415550199"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"error":"validation failed"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if len(crm.created) != 0 {
		t.Fatalf("expected no CRM call")
	}
}

func TestSubmitCleaningLeadRejectsShortPhone(t *testing.T) {
	crm := &fakeCRM{}
	w := post(newRouter(crm), "/api/v1/leads/cleaning", `{"name":"Dana","email":"dana@example.com","phone":"555-0199"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSubmitProsApplicationCRMFailureIsBadGateway(t *testing.T) {
	crm := &fakeCRM{err: errors.New("ghl down")}
	w := post(newRouter(crm), "/api/v1/leads/pros", `{"name":"Lee","email":"lee@example.com","phone":"5415550142"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "ghl down") {
		t.Fatalf("expected upstream error details to stay internal, got %s", w.Body.String())
	}
}

func TestSubmitProsApplicationTags(t *testing.T) {
	crm := &fakeCRM{}
	w := post(newRouter(crm), "/api/v1/leads/pros", `{"name":"Lee","email":"lee@example.com","phone":"5415550142","experience":"5 years"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got := crm.created[0]
	if got.Tags[0] != "pros_application" || got.CustomFields["experience"] != "5 years" {
		t.Fatalf("unexpected contact %+v", got)
	}
	if got.Source != "Website Lead" {
		t.Fatalf("unexpected source %q", got.Source)
	}
}
