package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stayhub/globals"
	"stayhub/models"

	"github.com/julienschmidt/httprouter"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("stu-1", models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "stu-1" || claims.Role != models.RoleStudent {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAuthenticateSetsContext(t *testing.T) {
	token, err := GenerateToken("adm-1", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var gotID, gotRole string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotID, _ = r.Context().Value(globals.UserIDKey).(string)
		gotRole, _ = r.Context().Value(globals.RoleKey).(string)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotID != "adm-1" || gotRole != models.RoleAdmin {
		t.Errorf("context carried %q/%q", gotID, gotRole)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	handler := Authenticate(func(http.ResponseWriter, *http.Request, httprouter.Params) {
		t.Fatal("handler must not run")
	})

	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"garbage":   "Bearer not.a.jwt",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestRequireRoles(t *testing.T) {
	token, _ := GenerateToken("por-1", models.RolePorter)

	run := func(roles ...string) int {
		handler := Chain(
			Authenticate,
			RequireRoles(roles...),
		)(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		return rec.Code
	}

	if code := run(models.RolePorter); code != http.StatusNoContent {
		t.Errorf("allowed role: status = %d", code)
	}
	if code := run(models.RolePorter, models.RoleAdmin); code != http.StatusNoContent {
		t.Errorf("role in set: status = %d", code)
	}
	if code := run(models.RoleAdmin); code != http.StatusForbidden {
		t.Errorf("disallowed role: status = %d, want 403", code)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) func(httprouter.Handle) httprouter.Handle {
		return func(next httprouter.Handle) httprouter.Handle {
			return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
				order = append(order, name)
				next(w, r, ps)
			}
		}
	}

	handler := Chain(mk("first"), mk("second"))(func(http.ResponseWriter, *http.Request, httprouter.Params) {
		order = append(order, "handler")
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	want := []string{"first", "second", "handler"}
	for i, name := range want {
		if i >= len(order) || order[i] != name {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
