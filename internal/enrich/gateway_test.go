package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
)

func TestLookupIFSC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/HDFC0001234", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"BANK":"HDFC Bank","BRANCH":"MG Road","CITY":"Pune","STATE":"Maharashtra"}`))
	}))
	defer srv.Close()

	g := NewGateway(Config{IFSCBaseURL: srv.URL}, nil)
	patch := g.Lookup(context.Background(), Query{IFSC: "hdfc0001234"})
	require.Equal(t, "HDFC Bank", patch[merchant.FieldBankName])
}

func TestLookupPincodeUnknownCodeYieldsEmptyPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"Status":"Error","PostOffice":null}]`))
	}))
	defer srv.Close()

	g := NewGateway(Config{PincodeBaseURL: srv.URL}, nil)
	patch := g.Lookup(context.Background(), Query{Pincode: "999999"})
	require.Empty(t, patch)
}

func TestLookupPincodeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pincode/411001", r.URL.Path)
		_, _ = w.Write([]byte(`[{"Status":"Success","PostOffice":[{"District":"Pune","State":"Maharashtra"}]}]`))
	}))
	defer srv.Close()

	g := NewGateway(Config{PincodeBaseURL: srv.URL}, nil)
	patch := g.Lookup(context.Background(), Query{Pincode: "411001"})
	require.Equal(t, "Pune", patch[merchant.FieldCity])
	require.Equal(t, "Maharashtra", patch[merchant.FieldState])
}

func TestLookupRegistryDownIsIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGateway(Config{GSTBaseURL: srv.URL, PincodeBaseURL: srv.URL}, nil)
	patch := g.Lookup(context.Background(), Query{GSTIN: "27ABCDE1234F1Z5", Pincode: "411001"})
	require.Empty(t, patch)
}

func TestLookupIFSCFallsBackToPrefixTable(t *testing.T) {
	// no directory configured at all
	g := NewGateway(Config{}, nil)
	patch := g.Lookup(context.Background(), Query{IFSC: "SBIN0005943"})
	require.Equal(t, "State Bank of India", patch[merchant.FieldBankName])

	// unknown prefix: empty patch
	patch = g.Lookup(context.Background(), Query{IFSC: "ZZZZ0000001"})
	require.Empty(t, patch)
}

func TestLookupGSTIN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/gstin/27ABCDE1234F1Z5", r.URL.Path)
		_, _ = w.Write([]byte(`{"legal_name":"ABC Traders","address":"14 MG Road","state_code":"27"}`))
	}))
	defer srv.Close()

	g := NewGateway(Config{GSTBaseURL: srv.URL}, nil)
	patch := g.Lookup(context.Background(), Query{GSTIN: "27abcde1234f1z5"})
	require.Equal(t, "ABC Traders", patch[merchant.FieldBusinessName])
	require.Equal(t, "14 MG Road", patch[merchant.FieldAddressLine])
}

func TestLookupCachesInRedis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	cache := redis.NewClient(&redis.Options{Addr: m.Addr()})

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"BANK":"ICICI Bank"}`))
	}))
	defer srv.Close()

	g := NewGateway(Config{IFSCBaseURL: srv.URL, CacheTTL: time.Hour}, cache)
	ctx := context.Background()

	first := g.Lookup(ctx, Query{IFSC: "ICIC0000001"})
	second := g.Lookup(ctx, Query{IFSC: "ICIC0000001"})
	require.Equal(t, first, second)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "second lookup should hit the cache")
}
