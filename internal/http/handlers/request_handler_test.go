package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/tbourn/go-hostel-backend/internal/domain"
)

func TestCreateMealRequest_NewAndDuplicate(t *testing.T) {
	fr := &fakeRequests{}
	h := New(Deps{Requests: fr})
	r := newEngine()
	r.POST("/request/meal", h.CreateMealRequest)

	body := `{"_id":"client-side","requestedId":"m1","title":"Biryani","userEmail":"a@x.io"}`
	if w := do(r, http.MethodPost, "/request/meal", body); w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	fr.duplicate = true
	w := do(r, http.MethodPost, "/request/meal", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var dup DuplicateRequestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &dup); err != nil {
		t.Fatal(err)
	}
	if !dup.Duplicate || dup.Message != "Biryani has already been added to the basket!" {
		t.Fatalf("resp=%+v", dup)
	}
}

func TestPatchRequest(t *testing.T) {
	fr := &fakeRequests{}
	h := New(Deps{Requests: fr})
	r := newEngine()
	r.PATCH("/meal/delivered/:id", h.PatchRequest)

	w := do(r, http.MethodPatch, "/meal/delivered/q1", `{"status":"Delivered"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if fr.patched.Status == nil || *fr.patched.Status != domain.StatusDelivered {
		t.Fatalf("patch=%+v", fr.patched)
	}

	if w := do(r, http.MethodPatch, "/meal/delivered/q1", `{"status":"eaten"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad status accepted: %d", w.Code)
	}
	if w := do(r, http.MethodPatch, "/meal/delivered/q1", `{"userEmail":"b@x.io"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("non-allow-listed field accepted: %d", w.Code)
	}
}
