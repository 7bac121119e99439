package httptransport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	deskhandler "propdesk/internal/desk/handler"
	deskservice "propdesk/internal/desk/service"
	deskstore "propdesk/internal/desk/store"
	governanceconfig "propdesk/internal/governance/config"
	governancehandler "propdesk/internal/governance/handler"
	governanceservice "propdesk/internal/governance/service"
	governancestore "propdesk/internal/governance/store"
	"propdesk/internal/governance/store/cooldown"
	identityhandler "propdesk/internal/identity/handler"
	identityservice "propdesk/internal/identity/service"
	identitystore "propdesk/internal/identity/store"
	"propdesk/internal/jwttoken"
	"propdesk/internal/verifier"
	"propdesk/pkg/domain"
	"propdesk/pkg/platform/eventlog"
)

// RouterSuite stands up the full HTTP stack on in-memory stores and drives it
// the way a client would, tokens included.
type RouterSuite struct {
	suite.Suite
	server *httptest.Server
	tokens *jwttoken.Service
	owner  domain.AccountID
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	discard := slog.New(slog.DiscardHandler)
	log := eventlog.NewInMemoryLog()
	s.owner = domain.AccountIDFromUint64(0xFACE)
	s.tokens = jwttoken.NewService("router-test-key", "propdesk-test")

	identity := identityservice.New(
		identitystore.NewInMemory(),
		verifier.NewStubSet(),
		eventlog.NewEmitter(eventlog.ComponentIdentity, log),
		discard,
		nil,
	)
	governance := governanceservice.New(
		governancestore.NewInMemory(),
		cooldown.NewInMemoryStore(),
		identity,
		verifier.Stub{},
		governanceconfig.Default(),
		eventlog.NewEmitter(eventlog.ComponentGovernance, log),
		discard,
		nil,
	)
	desk := deskservice.New(
		s.owner,
		deskstore.NewInMemory(),
		nil,
		eventlog.NewEmitter(eventlog.ComponentPlatform, log),
		discard,
		nil,
	)

	router := NewRouter(Handlers{
		Identity:   identityhandler.New(identity, discard),
		Governance: governancehandler.New(governance, discard),
		Desk:       deskhandler.New(desk, identity, governance, discard),
	}, s.tokens, discard)
	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)
}

func (s *RouterSuite) call(caller domain.AccountID, method, path string, body any) (*http.Response, map[string]any) {
	var payload bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &payload)
	s.Require().NoError(err)
	token, err := s.tokens.GenerateToken(caller, time.Hour)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (s *RouterSuite) TestHealthz() {
	resp, err := s.server.Client().Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestAPIRequiresToken() {
	resp, err := s.server.Client().Get(s.server.URL + "/platform/stats")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *RouterSuite) TestIdentityFlow() {
	user := domain.AccountIDFromUint64(1)
	admin := domain.AccountIDFromUint64(2)

	resp, _ := s.call(user, http.MethodPost, "/identity/register", map[string]any{
		"credentials": []byte("credentials"), "proof": []byte{1},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp, body := s.call(user, http.MethodPost, "/identity/register", map[string]any{
		"credentials": []byte("credentials"), "proof": []byte{1},
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("already_registered", body["error"])

	resp, _ = s.call(user, http.MethodPost, "/identity/agreements", map[string]any{
		"admin": admin.Hex(), "terms": []byte("terms"), "signature": []byte{1},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp, body = s.call(user, http.MethodGet, "/identity/agreements/"+user.Hex()+"/"+admin.Hex(), nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(true, body["active"])
}

func (s *RouterSuite) TestVoteErrorMapping() {
	voter := domain.AccountIDFromUint64(3)
	admin := domain.AccountIDFromUint64(4)

	resp, body := s.call(voter, http.MethodPost, "/governance/votes", map[string]any{
		"admin": admin.Hex(), "vote_type": 0, "weight": 5,
	})
	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.Equal("unauthorized", body["error"])

	s.call(voter, http.MethodPost, "/identity/register", map[string]any{
		"credentials": []byte("c"), "proof": []byte{1},
	})
	s.call(voter, http.MethodPost, "/identity/agreements", map[string]any{
		"admin": admin.Hex(), "terms": []byte("terms"), "signature": []byte{1},
	})

	resp, _ = s.call(voter, http.MethodPost, "/governance/votes", map[string]any{
		"admin": admin.Hex(), "vote_type": 0, "weight": 5,
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body = s.call(voter, http.MethodPost, "/governance/votes", map[string]any{
		"admin": admin.Hex(), "vote_type": 0, "weight": 5,
	})
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
	s.Equal("too_soon", body["error"])
}

func (s *RouterSuite) TestPlatformFlow() {
	user := domain.AccountIDFromUint64(5)
	admin := domain.AccountIDFromUint64(6)

	resp, body := s.call(user, http.MethodGet, "/platform/stats", nil)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("not_initialized", body["error"])

	resp, _ = s.call(s.owner, http.MethodPost, "/platform/initialize", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.call(user, http.MethodPost, "/platform/users", map[string]any{
		"credentials": []byte("credentials"), "proof": []byte{1},
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp, _ = s.call(user, http.MethodPost, "/platform/admins/"+admin.Hex()+"/authorize", map[string]any{
		"agreement_terms": []byte("terms"),
	})
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.call(admin, http.MethodPost, "/platform/trades", map[string]any{
		"user": user.Hex(), "amount": 100, "trade_type": "buy",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	resp, body = s.call(user, http.MethodGet, "/platform/stats", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(float64(1), body["total_trades"])
	s.Equal(float64(1), body["total_users"])
}
