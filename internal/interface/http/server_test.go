package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/application/query"
	"github.com/erio-hub/erio-dashboard/internal/domain/admin"
	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixtures
// ─────────────────────────────────────────────────────────────────────────────

type memPartnerRepo struct {
	partners []*partner.Partner
}

func (r *memPartnerRepo) Create(_ context.Context, p *partner.Partner) error {
	r.partners = append(r.partners, p)
	return nil
}

func (r *memPartnerRepo) GetByID(_ context.Context, id shared.EntityID) (*partner.Partner, error) {
	for _, p := range r.partners {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrPartnerNotFound
}

func (r *memPartnerRepo) List(_ context.Context, filter partner.Filter) ([]*partner.Partner, error) {
	out := make([]*partner.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		if filter.ActiveOnly && !p.HasActiveAgreement() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memPartnerRepo) Update(_ context.Context, p *partner.Partner) error {
	for i, existing := range r.partners {
		if existing.ID == p.ID {
			r.partners[i] = p
			return nil
		}
	}
	return shared.ErrPartnerNotFound
}

func (r *memPartnerRepo) Delete(_ context.Context, id shared.EntityID) error {
	for i, p := range r.partners {
		if p.ID == id {
			r.partners = append(r.partners[:i], r.partners[i+1:]...)
			return nil
		}
	}
	return shared.ErrPartnerNotFound
}

func (r *memPartnerRepo) Count(_ context.Context) (int, error) {
	return len(r.partners), nil
}

type stubValidator struct {
	claims AuthClaims
	err    error
}

func (v stubValidator) ValidateToken(token string) (AuthClaims, error) {
	if v.err != nil {
		return AuthClaims{}, v.err
	}
	return v.claims, nil
}

func seededPartnerRepo(t *testing.T) *memPartnerRepo {
	t.Helper()

	p, err := partner.New("Kyoto University", "Japan")
	require.NoError(t, err)
	p.City = "Kyoto"
	p.SignDate = timeutil.ISODate("2020-01-15")
	require.NoError(t, p.Validate())

	return &memPartnerRepo{partners: []*partner.Partner{p}}
}

func newTestServer(deps Dependencies) *Server {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // keep tests deterministic
	return NewServer(cfg, deps)
}

func doRequest(s *Server, method, path string, body string, header http.Header) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ─────────────────────────────────────────────────────────────────────────────
// Public endpoints
// ─────────────────────────────────────────────────────────────────────────────

func TestServer_Root(t *testing.T) {
	s := newTestServer(Dependencies{})

	rec := doRequest(s, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestServer_Health_Default(t *testing.T) {
	s := newTestServer(Dependencies{})

	rec := doRequest(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_BrowsePartners(t *testing.T) {
	repo := seededPartnerRepo(t)
	s := newTestServer(Dependencies{
		BrowsePartnersHandler: query.NewBrowsePartnersHandler(repo),
	})

	rec := doRequest(s, http.MethodGet, "/api/v1/partners", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result query.BrowsePartnersResult
	require.NoError(t, json.Unmarshal(data, &result))

	require.Len(t, result.Partners, 1)
	assert.Equal(t, "Kyoto University", result.Partners[0].Name)
	assert.Equal(t, "Asia Pacific", result.Partners[0].Region)
	assert.True(t, result.Partners[0].Active)
}

func TestServer_GetPartner_NotFound(t *testing.T) {
	s := newTestServer(Dependencies{
		GetPartnerHandler: query.NewGetPartnerHandler(&memPartnerRepo{}),
	})

	rec := doRequest(s, http.MethodGet, "/api/v1/partners/nonexistent", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_NotConfigured(t *testing.T) {
	s := newTestServer(Dependencies{})

	rec := doRequest(s, http.MethodGet, "/api/v1/dashboard/stats", "", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Admin auth
// ─────────────────────────────────────────────────────────────────────────────

func TestServer_AdminRoute_RequiresToken(t *testing.T) {
	s := newTestServer(Dependencies{
		TokenValidator: stubValidator{claims: AuthClaims{AdminID: "a-1"}},
	})

	rec := doRequest(s, http.MethodDelete, "/api/v1/partners/some-id", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AdminRoute_RejectsBadToken(t *testing.T) {
	s := newTestServer(Dependencies{
		TokenValidator: stubValidator{err: errors.New("bad token")},
	})

	header := http.Header{}
	header.Set("Authorization", "Bearer not-a-real-token")
	rec := doRequest(s, http.MethodDelete, "/api/v1/partners/some-id", "", header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AdminRoute_PassesClaims(t *testing.T) {
	s := newTestServer(Dependencies{
		TokenValidator: stubValidator{claims: AuthClaims{AdminID: "a-1", Role: "admin"}},
		RecentChanges:  nil,
	})

	header := http.Header{}
	header.Set("Authorization", "Bearer valid")
	rec := doRequest(s, http.MethodGet, "/api/v1/admin/changes", "", header)
	// Change feed not wired in this test: token accepted, 501 from the handler.
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

type memAdminRepo struct {
	users []*admin.User
}

func (r *memAdminRepo) Create(_ context.Context, u *admin.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *memAdminRepo) GetByEmail(_ context.Context, email shared.Email) (*admin.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrAdminNotFound
}

func (r *memAdminRepo) GetByID(_ context.Context, id shared.EntityID) (*admin.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrAdminNotFound
}

func (r *memAdminRepo) RecordLogin(_ context.Context, _ shared.EntityID) error { return nil }

func TestServer_Verify_ReturnsIdentity(t *testing.T) {
	user, err := admin.New("office@university.edu", "Office Staff", "$2a$12$hash")
	require.NoError(t, err)

	s := newTestServer(Dependencies{
		TokenValidator:     stubValidator{claims: AuthClaims{AdminID: user.ID.String(), Role: "admin"}},
		VerifyAdminHandler: query.NewVerifyAdminHandler(&memAdminRepo{users: []*admin.User{user}}),
	})

	header := http.Header{}
	header.Set("Authorization", "Bearer valid")
	rec := doRequest(s, http.MethodGet, "/api/v1/auth/verify", "", header)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var identity query.AdminIdentityResult
	require.NoError(t, json.Unmarshal(data, &identity))
	assert.Equal(t, "office@university.edu", identity.Email)
	assert.Equal(t, "admin", identity.Role)
}

func TestServer_Verify_DeletedAccount(t *testing.T) {
	s := newTestServer(Dependencies{
		TokenValidator:     stubValidator{claims: AuthClaims{AdminID: "aba39bcd-2bb3-4d3a-b889-6e2cafda52bd"}},
		VerifyAdminHandler: query.NewVerifyAdminHandler(&memAdminRepo{}),
	})

	header := http.Header{}
	header.Set("Authorization", "Bearer valid")
	rec := doRequest(s, http.MethodGet, "/api/v1/auth/verify", "", header)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_PublicRoute_NoTokenNeeded(t *testing.T) {
	repo := seededPartnerRepo(t)
	s := newTestServer(Dependencies{
		BrowsePartnersHandler: query.NewBrowsePartnersHandler(repo),
		TokenValidator:        stubValidator{err: errors.New("should not be called")},
	})

	rec := doRequest(s, http.MethodGet, "/api/v1/partners", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractBearerToken(req))
		})
	}
}
