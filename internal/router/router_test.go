package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"compliance-calendar/internal/router"
)

const testOrg = "org-1"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil, // modo dev, identidad por headers
		DemoOrgID:    testOrg,
	}))
	t.Cleanup(ts.Close)
	return ts
}

type eventJSON struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Type              string `json:"type"`
	Date              string `json:"date"`
	VendorName        string `json:"vendor_name"`
	Cadence           string `json:"cadence"`
	RecurrenceGroupID string `json:"recurrence_group_id"`
	Provenance        string `json:"provenance"`
}

func TestHTTP_RecurringCreateAndGroupDelete(t *testing.T) {
	ts := newTestServer(t)

	// Crear un servicio trimestral: debe expandir 4 ocurrencias con grupo común
	st, body := doReq(t, ts.URL, "POST", "/orgs/"+testOrg+"/events", "owner-1", "owner_operator", map[string]any{
		"title":         "Hood Cleaning Service",
		"type":          "vendor",
		"date":          "2026-03-15",
		"start_minutes": 23 * 60,
		"location":      "Downtown Kitchen",
		"vendor_name":   "ProClean Services",
		"category":      "hood_cleaning",
		"cadence":       "quarterly",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d body=%s", st, body)
	}

	var created []eventJSON
	if err := json.Unmarshal(body, &created); err != nil || len(created) != 4 {
		t.Fatalf("expected 4 occurrences, got %d (err %v) body=%s", len(created), err, body)
	}
	wantDates := []string{"2026-03-15", "2026-06-15", "2026-09-15", "2026-12-15"}
	group := created[0].RecurrenceGroupID
	for i, e := range created {
		if e.Date != wantDates[i] || e.RecurrenceGroupID != group || e.Provenance != "local" {
			t.Fatalf("occurrence %d wrong: %+v", i, e)
		}
	}

	// Borrar una ocurrencia no toca las hermanas
	st, _ = doReq(t, ts.URL, "DELETE", "/orgs/"+testOrg+"/events/"+created[1].ID, "owner-1", "owner_operator", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 delete, got %d", st)
	}
	// Borrado repetido: no-op
	st, _ = doReq(t, ts.URL, "DELETE", "/orgs/"+testOrg+"/events/"+created[1].ID, "owner-1", "owner_operator", nil)
	if st != http.StatusNoContent {
		t.Fatalf("second delete must be 204, got %d", st)
	}

	// Cascada explícita con ?group=true
	st, _ = doReq(t, ts.URL, "DELETE", "/orgs/"+testOrg+"/events/"+created[0].ID+"?group=true", "owner-1", "owner_operator", nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 group delete, got %d", st)
	}

	st, body = doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/events", "owner-1", "owner_operator", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", st)
	}
	if strings.Contains(string(body), "Hood Cleaning Service\",\"type\":\"vendor\",\"date\":\"2026") {
		t.Fatalf("group cascade left occurrences behind")
	}
}

func TestHTTP_GovernanceGateOnCadenceReduction(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/orgs/"+testOrg+"/events", "owner-1", "owner_operator", map[string]any{
		"title":         "Pest Control Service",
		"type":          "vendor",
		"date":          "2026-05-01",
		"start_minutes": 6 * 60,
		"vendor_name":   "ShieldPest",
		"category":      "pest_control",
		"cadence":       "monthly",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d body=%s", st, body)
	}
	var created []eventJSON
	_ = json.Unmarshal(body, &created)
	id := created[0].ID

	// Sin gate: 422 con la evaluación completa
	st, body = doReq(t, ts.URL, "PATCH", "/orgs/"+testOrg+"/events/"+id, "owner-1", "owner_operator", map[string]any{
		"cadence": "annual",
	})
	if st != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without gate, got %d body=%s", st, body)
	}
	var gate struct {
		ReductionPercent int    `json:"reduction_percent"`
		BelowMinimum     bool   `json:"below_minimum"`
		Minimum          string `json:"minimum_cadence"`
		Citation         string `json:"citation"`
	}
	if err := json.Unmarshal(body, &gate); err != nil {
		t.Fatalf("gate body not json: %v body=%s", err, body)
	}
	if gate.ReductionPercent != 57 || !gate.BelowMinimum || gate.Minimum != "quarterly" || gate.Citation == "" {
		t.Fatalf("gate payload wrong: %+v", gate)
	}

	// Con gate completo: 200 y la reducción queda auditada
	st, body = doReq(t, ts.URL, "PATCH", "/orgs/"+testOrg+"/events/"+id, "owner-1", "owner_operator", map[string]any{
		"cadence":       "annual",
		"acknowledged":  true,
		"reason":        "cost_reduction",
		"justification": "vendor contract renegotiated for the year",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 with gate, got %d body=%s", st, body)
	}

	st, body = doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/governance/frequency-changes", "owner-1", "owner_operator", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 audit list, got %d", st)
	}
	var recs []struct {
		Category         string `json:"category"`
		ReductionPercent int    `json:"reduction_percent"`
		BelowMinimum     bool   `json:"below_minimum"`
	}
	if err := json.Unmarshal(body, &recs); err != nil || len(recs) != 1 {
		t.Fatalf("expected exactly 1 audit record, got %d body=%s", len(recs), body)
	}
	if recs[0].Category != "pest_control" || recs[0].ReductionPercent != 57 || !recs[0].BelowMinimum {
		t.Fatalf("audit record wrong: %+v", recs[0])
	}
}

func TestHTTP_PreviewDoesNotPersist(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/orgs/"+testOrg+"/governance/frequency-changes/preview", "owner-1", "owner_operator", map[string]any{
		"category":         "hood_cleaning",
		"previous_cadence": "quarterly",
		"proposed_cadence": "annual",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 preview, got %d body=%s", st, body)
	}
	var res struct {
		Reduction    bool   `json:"reduction"`
		BelowMinimum bool   `json:"below_minimum"`
		Minimum      string `json:"minimum_cadence"`
	}
	_ = json.Unmarshal(body, &res)
	if !res.Reduction || !res.BelowMinimum || res.Minimum != "semi-annual" {
		t.Fatalf("preview wrong: %+v", res)
	}

	// El preview no apenda nada
	st, body = doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/governance/frequency-changes", "owner-1", "owner_operator", nil)
	if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("preview must not persist records, got %s", body)
	}
}

func TestHTTP_VendorChangeCategoryScope(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/orgs/"+testOrg+"/events", "owner-1", "owner_operator", map[string]any{
		"title":         "Hood Cleaning Service",
		"type":          "vendor",
		"date":          "2026-03-15",
		"start_minutes": 23 * 60,
		"vendor_name":   "ProClean Services",
		"category":      "hood_cleaning",
		"cadence":       "quarterly",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d", st)
	}
	var created []eventJSON
	_ = json.Unmarshal(body, &created)

	st, body = doReq(t, ts.URL, "POST", "/orgs/"+testOrg+"/governance/vendor-changes", "owner-1", "owner_operator", map[string]any{
		"category":        "hood_cleaning",
		"previous_vendor": "ProClean Services",
		"new_vendor":      "Summit Hood Care",
		"reason":          "pricing",
		"scope":           "category",
		"from_date":       created[1].Date,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 vendor change, got %d body=%s", st, body)
	}
	var vc struct {
		EventsTouched int `json:"events_touched"`
	}
	_ = json.Unmarshal(body, &vc)
	if vc.EventsTouched != 3 {
		t.Fatalf("expected 3 future occurrences touched, got %d", vc.EventsTouched)
	}
}

func TestHTTP_RoleVisibility(t *testing.T) {
	ts := newTestServer(t)

	// kitchen_staff solo ve temp-check y checklist del seed demo
	st, body := doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/events", "staff-1", "kitchen_staff", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", st)
	}
	var items []eventJSON
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		t.Fatalf("expected seeded events for staff, err %v body=%s", err, body)
	}
	for _, e := range items {
		if e.Type != "temp-check" && e.Type != "checklist" {
			t.Fatalf("kitchen_staff saw %s event %q", e.Type, e.Title)
		}
	}

	// Rol desconocido: lista vacía, nunca fail-open
	st, body = doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/events", "x-1", "janitor", nil)
	if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("unknown role must see empty list, got %s", body)
	}
}

func TestHTTP_CrossOrgMutationsRejected(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/orgs/"+testOrg+"/events", "owner-1", "owner_operator", map[string]any{
		"title":         "Pest Control Service",
		"type":          "vendor",
		"date":          "2026-05-01",
		"start_minutes": 6 * 60,
		"vendor_name":   "ShieldPest",
		"category":      "pest_control",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d body=%s", st, body)
	}
	var created []eventJSON
	_ = json.Unmarshal(body, &created)
	id := created[0].ID

	// DELETE autenticado en otra org: 404, sin borrar nada
	st, _ = doReqOrg(t, ts.URL, "DELETE", "/orgs/org-2/events/"+id, "intruder-1", "owner_operator", "org-2", nil)
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 deleting foreign event, got %d", st)
	}

	// Cambio de vendor por ocurrencia apuntando al evento de otra org:
	// queda registrado pero no aplicado (409)
	st, body = doReqOrg(t, ts.URL, "POST", "/orgs/org-2/governance/vendor-changes", "intruder-1", "owner_operator", "org-2", map[string]any{
		"category":        "pest_control",
		"previous_vendor": "ShieldPest",
		"new_vendor":      "Rogue Pest Co",
		"reason":          "pricing",
		"scope":           "occurrence",
		"event_id":        id,
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 applying vendor change to foreign event, got %d body=%s", st, body)
	}

	// El evento sigue existiendo para su org, con el vendor original
	st, body = doReq(t, ts.URL, "PATCH", "/orgs/"+testOrg+"/events/"+id, "owner-1", "owner_operator", map[string]any{})
	if st != http.StatusOK {
		t.Fatalf("expected event to survive foreign mutations, got %d body=%s", st, body)
	}
	var got eventJSON
	_ = json.Unmarshal(body, &got)
	if got.VendorName != "ShieldPest" {
		t.Fatalf("vendor must be unchanged, got %q", got.VendorName)
	}
}

func TestHTTP_SeededEventsAreReadOnly(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "PATCH", "/orgs/"+testOrg+"/events/seed-1", "owner-1", "owner_operator", map[string]any{
		"title": "hijacked",
	})
	if st != http.StatusConflict {
		t.Fatalf("expected 409 patching seeded event, got %d body=%s", st, body)
	}

	st, _ = doReq(t, ts.URL, "DELETE", "/orgs/"+testOrg+"/events/seed-1", "owner-1", "owner_operator", nil)
	if st != http.StatusConflict {
		t.Fatalf("expected 409 deleting seeded event, got %d", st)
	}
}

func TestHTTP_AuthRequired(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/events", "", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}

	// Org ajena en el path => 403
	req, _ := http.NewRequest("GET", ts.URL+"/orgs/other-org/events", nil)
	req.Header.Set("X-Debug-User-ID", "owner-1")
	req.Header.Set("X-Debug-Org-ID", testOrg)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign org, got %d", res.StatusCode)
	}
}

func TestHTTP_Exports(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/calendar.ics", "owner-1", "owner_operator", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 ics feed, got %d", st)
	}
	if !strings.Contains(string(body), "BEGIN:VCALENDAR") {
		t.Fatalf("ics feed malformed: %.100s", body)
	}

	st, body = doReq(t, ts.URL, "GET", "/orgs/"+testOrg+"/governance/export.xlsx", "owner-1", "owner_operator", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 xlsx export, got %d", st)
	}
	if len(body) == 0 || !bytes.HasPrefix(body, []byte("PK")) {
		t.Fatalf("xlsx export not a zip container")
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := newTestServer(t)

	res, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", res.StatusCode)
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID, debugRole string, body any) (int, []byte) {
	t.Helper()
	return doReqOrg(t, baseURL, method, path, debugUserID, debugRole, testOrg, body)
}

func doReqOrg(t *testing.T, baseURL, method, path, debugUserID, debugRole, debugOrg string, body any) (int, []byte) {
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
		req.Header.Set("X-Debug-Org-ID", debugOrg)
	}
	if debugRole != "" {
		req.Header.Set("X-Debug-Role", debugRole)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
