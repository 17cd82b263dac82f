package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"compliance-calendar/internal/domain/categories"
	"compliance-calendar/internal/domain/governance"
	"compliance-calendar/internal/domain/schedule"
	"compliance-calendar/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Repo de auditoría caído: todo append falla.
type failingGovRepo struct{}

var errAuditDown = errors.New("audit repo: down")

func (failingGovRepo) AppendFrequencyChange(ctx context.Context, rec governance.FrequencyChangeRecord) error {
	return errAuditDown
}

func (failingGovRepo) AppendVendorChange(ctx context.Context, rec governance.VendorChangeRecord) error {
	return errAuditDown
}

func (failingGovRepo) ListFrequencyChanges(ctx context.Context, orgID string) ([]governance.FrequencyChangeRecord, error) {
	return nil, nil
}

func (failingGovRepo) ListVendorChanges(ctx context.Context, orgID string) ([]governance.VendorChangeRecord, error) {
	return nil, nil
}

func newHandlerServer(t *testing.T, store *Store, gov *governance.Service) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	r.Route("/orgs/{orgID}", func(or chi.Router) {
		RegisterRoutes(or, store, gov, nil)
	})
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func patchJSON(t *testing.T, url, org string, body map[string]any) (int, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Debug-User-ID", "owner-1")
	req.Header.Set("X-Debug-Org-ID", org)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(res.Body)
	return res.StatusCode, out.Bytes()
}

// Una caída del repo de auditoría no puede revertir ni bloquear la edición:
// el gate ya se validó y el evento ya mutó; el fallo solo se loguea.
func TestUpdateEvent_AuditRepoDownDoesNotBlockEdit(t *testing.T) {
	store := NewStore(newTestRepo(), nil, nil)
	gov := governance.NewService(failingGovRepo{})
	ts := newHandlerServer(t, store, gov)

	created, err := store.Create(context.Background(), "org-1", CreateInput{
		Title:        "Pest Control Service",
		Type:         EventTypeVendor,
		Date:         "2026-05-01",
		StartMinutes: 6 * 60,
		Category:     categories.PestControl,
		Cadence:      schedule.CadenceMonthly,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created[0].ID

	st, body := patchJSON(t, ts.URL+"/orgs/org-1/events/"+id, "org-1", map[string]any{
		"cadence":       "annual",
		"acknowledged":  true,
		"reason":        "cost_reduction",
		"justification": "vendor contract renegotiated for the year",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 despite audit repo failure, got %d body=%s", st, body)
	}

	got, found := store.Get(id)
	if !found || got.Cadence != schedule.CadenceAnnual {
		t.Fatalf("cadence change must stand, got %+v found=%v", got, found)
	}
}

// DELETE con un id de otra org: 404 y el evento queda intacto.
func TestDeleteEvent_ForeignOrgIs404(t *testing.T) {
	store := NewStore(newTestRepo(), nil, nil)
	gov := governance.NewService(failingGovRepo{})
	ts := newHandlerServer(t, store, gov)

	created, err := store.Create(context.Background(), "org-a", CreateInput{
		Title:        "Grease Trap Service",
		Type:         EventTypeVendor,
		Date:         "2026-07-01",
		StartMinutes: 8 * 60,
		Category:     categories.GreaseTrap,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created[0].ID

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/orgs/org-b/events/"+id, nil)
	req.Header.Set("X-Debug-User-ID", "intruder-1")
	req.Header.Set("X-Debug-Org-ID", "org-b")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 deleting foreign event, got %d", res.StatusCode)
	}

	if _, found := store.Get(id); !found {
		t.Fatalf("foreign delete must not remove the event")
	}
}
