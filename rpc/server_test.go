package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iseefortune/go-verifier/store"
	"github.com/iseefortune/go-verifier/verifier"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryStore struct {
	mu      sync.Mutex
	records []store.AuditRecord
	putErr  error
}

func (m *memoryStore) PutResult(_ context.Context, source string, res verifier.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.records = append(m.records, store.AuditRecord{
		Source:        source,
		RngVersion:    string(res.Version),
		Slot:          res.Slot,
		Blockhash:     res.Blockhash,
		WinningNumber: res.WinningNumber,
		DigestSha256:  res.Debug.DigestHex,
		DigestSumU64:  res.Debug.DigestSum,
		Modulus:       res.Debug.Modulus,
	})
	return nil
}

func (m *memoryStore) GetRecordsForSlot(_ context.Context, slot uint64) ([]store.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.AuditRecord
	for _, r := range m.records {
		if r.Slot == slot {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return out, nil
}

func newTestServer(t *testing.T, auditStore AuditStore) *Server {
	s, err := NewServer(Config{ListenAddr: "127.0.0.1:0", Modulus: 10, CacheMaxItems: 100}, auditStore, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.cache.Close() })

	return s
}

func doGet(t *testing.T, s *Server, target string, out interface{}) int {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Router().ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}

	return rec.Code
}

func TestServer_Verify(t *testing.T) {
	ms := &memoryStore{}
	s := newTestServer(t, ms)

	var got VerifyResponse
	code := doGet(t, s, "/v1/verify?slot=123456789&blockhash=4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw", &got)
	require.Equal(t, http.StatusOK, code)

	expected := VerifyResponse{
		RngVersion:    verifier.V1,
		Slot:          "123456789",
		Blockhash:     "4wBqpZM9xaSheZzJSMawUKKwhdpChKbZ5eu5ky4Vigw",
		Range:         10,
		WinningNumber: 7,
	}
	if diff := cmp.Diff(got, expected); diff != "" {
		t.Fatalf("verify mismatch (-got +want):\n%s", diff)
	}

	require.Len(t, ms.records, 1)
	require.Equal(t, auditSource, ms.records[0].Source)
	require.Equal(t, float64(1), testutil.ToFloat64(s.metrics.verifications.WithLabelValues(resultOK)))
}

func TestServer_VerifyDebug(t *testing.T) {
	s := newTestServer(t, nil)

	var got VerifyResponse
	code := doGet(t, s, "/v1/verify?slot=%200%20&blockhash=11111111111111111111111111111111&debug=true", &got)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "0", got.Slot)
	require.Equal(t, uint64(9), got.WinningNumber)

	expected := &verifier.Debug{
		DecodedLen:   32,
		SlotLEHex:    "0000000000000000",
		BlockhashHex: "0000000000000000000000000000000000000000000000000000000000000000",
		MessageHex:   "00000000000000000000000000000000000000000000000000000000000000000000000000000000",
		DigestHex:    "2c34ce1df23b838c5abf2a7f6437cca3d3067ed509ff25f11df6b11b582b51eb",
		DigestSum:    3899,
		Modulus:      10,
	}
	if diff := cmp.Diff(got.Debug, expected); diff != "" {
		t.Fatalf("debug mismatch (-got +want):\n%s", diff)
	}
}

func TestServer_VerifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    string
		kind   string
	}{
		{name: "missing slot", target: "/v1/verify?blockhash=abc", err: "slot is required", kind: kindInvalidRequest},
		{name: "blank slot", target: "/v1/verify?slot=%20&blockhash=abc", err: "slot is required", kind: kindInvalidRequest},
		{name: "missing blockhash", target: "/v1/verify?slot=1", err: "blockhash is required", kind: kindInvalidRequest},
		{name: "negative slot", target: "/v1/verify?slot=-1&blockhash=abc", err: `slot must be an unsigned 64-bit integer, got "-1"`, kind: kindInvalidRequest},
		{name: "short blockhash", target: "/v1/verify?slot=5&blockhash=thX6LZfHDZZKUs92febYZhYRcXddmzfzF2NvTkPNE", err: "decoded blockhash must be 32 bytes, got 31", kind: string(verifier.KindInvalidLength)},
		{name: "bad alphabet", target: "/v1/verify?slot=5&blockhash=0OIl", err: "invalid base58 blockhash", kind: string(verifier.KindInvalidEncoding)},
		{name: "bad debug flag", target: "/v1/verify?slot=5&blockhash=abc&debug=maybe", kind: kindInvalidRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			var got ErrorResponse
			code := doGet(t, s, tc.target, &got)
			require.Equal(t, http.StatusBadRequest, code)
			require.Contains(t, got.Error, tc.err)
			require.Equal(t, tc.kind, got.Kind)
			require.Equal(t, float64(1), testutil.ToFloat64(s.metrics.verifications.WithLabelValues(tc.kind)))
		})
	}
}

func TestServer_VerifyCache(t *testing.T) {
	ms := &memoryStore{}
	s := newTestServer(t, ms)

	target := "/v1/verify?slot=1&blockhash=11111111111111111111111111111111"
	require.Equal(t, http.StatusOK, doGet(t, s, target, nil))
	s.cache.Wait()

	var got VerifyResponse
	require.Equal(t, http.StatusOK, doGet(t, s, target, &got))
	require.Equal(t, uint64(4), got.WinningNumber)

	require.Equal(t, float64(1), testutil.ToFloat64(s.metrics.cacheHits))
	require.Equal(t, float64(2), testutil.ToFloat64(s.metrics.verifications.WithLabelValues(resultOK)))
	// cached answers are not stored twice
	require.Len(t, ms.records, 1)
}

func TestServer_VerifyStoreFailureStillAnswers(t *testing.T) {
	s := newTestServer(t, &memoryStore{putErr: errors.New("disk full")})

	var got VerifyResponse
	code := doGet(t, s, "/v1/verify?slot=0&blockhash=11111111111111111111111111111111", &got)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, uint64(9), got.WinningNumber)
}

func TestServer_Audits(t *testing.T) {
	ms := &memoryStore{}
	s := newTestServer(t, ms)

	require.Equal(t, http.StatusOK, doGet(t, s, "/v1/verify?slot=0&blockhash=11111111111111111111111111111111", nil))

	var got AuditsResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/v1/audits/0", &got))
	require.Equal(t, "0", got.Slot)
	require.Len(t, got.Records, 1)
	require.Equal(t, uint64(9), got.Records[0].WinningNumber)
	require.Equal(t, "2c34ce1df23b838c5abf2a7f6437cca3d3067ed509ff25f11df6b11b582b51eb", got.Records[0].DigestSha256)

	var errResp ErrorResponse
	require.Equal(t, http.StatusNotFound, doGet(t, s, "/v1/audits/1", &errResp))
	require.Equal(t, http.StatusBadRequest, doGet(t, s, "/v1/audits/abc", &errResp))
}

func TestServer_AuditsWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)

	var errResp ErrorResponse
	require.Equal(t, http.StatusServiceUnavailable, doGet(t, s, "/v1/audits/0", &errResp))
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, nil)

	var got HealthResponse
	require.Equal(t, http.StatusOK, doGet(t, s, "/health", &got))
	require.Equal(t, HealthResponse{Status: "ok", Versions: []verifier.Version{verifier.V1}}, got)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, doGet(t, s, "/v1/verify?slot=0&blockhash=11111111111111111111111111111111", nil))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `verifier_verifications_total{result="ok"} 1`)
}

func TestNewServer_ZeroModulus(t *testing.T) {
	_, err := NewServer(Config{Modulus: 0}, nil, zap.NewNop())
	require.True(t, errors.Is(err, verifier.ErrInvalidModulus))
}

func TestServer_StartShutdown(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.Start())
	require.NoError(t, s.Shutdown(context.Background()))

	select {
	case err := <-s.Errors():
		t.Fatalf("unexpected serve error: %v", err)
	default:
	}
}
