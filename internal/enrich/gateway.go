package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vyapardesk/vyapardesk/backend/go-services/internal/merchant"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/logger"
	"github.com/vyapardesk/vyapardesk/backend/go-services/pkg/metrics"
)

// Gateway wraps the external registry lookups used to pre-fill record fields:
// GSTIN registry, PIN-code directory and the IFSC directory. Every lookup is
// best effort: a failed or unrecognized lookup yields an empty patch and a
// log line, never an error to the caller, and never affects the validity
// verdict of the triggering field.
type Gateway struct {
	cfg   Config
	httpc *http.Client
	cache *redis.Client
}

// Config holds registry endpoints and cache behavior.
type Config struct {
	GSTBaseURL     string
	PincodeBaseURL string
	IFSCBaseURL    string
	Timeout        time.Duration
	CacheTTL       time.Duration
}

// Query names the identifiers a caller can ask the gateway to enrich from.
type Query struct {
	GSTIN   string `json:"gstin,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	IFSC    string `json:"ifsc,omitempty"`
}

// NewGateway creates a registry gateway. cache may be nil (no caching).
func NewGateway(cfg Config, cache *redis.Client) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return &Gateway{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
		cache: cache,
	}
}

// Lookup runs every requested registry lookup and merges the partial results
// into one patch. Individual failures are isolated.
func (g *Gateway) Lookup(ctx context.Context, q Query) merchant.Patch {
	patch := merchant.Patch{}
	if q.IFSC != "" {
		merge(patch, g.lookupIFSC(ctx, strings.ToUpper(strings.TrimSpace(q.IFSC))))
	}
	if q.Pincode != "" {
		merge(patch, g.lookupPincode(ctx, strings.TrimSpace(q.Pincode)))
	}
	if q.GSTIN != "" {
		merge(patch, g.lookupGSTIN(ctx, strings.ToUpper(strings.TrimSpace(q.GSTIN))))
	}
	return patch
}

func merge(dst, src merchant.Patch) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// ifscResponse mirrors the IFSC directory payload (Razorpay IFSC shape).
type ifscResponse struct {
	Bank   string `json:"BANK"`
	Branch string `json:"BRANCH"`
	City   string `json:"CITY"`
	State  string `json:"STATE"`
}

func (g *Gateway) lookupIFSC(ctx context.Context, code string) merchant.Patch {
	patch := merchant.Patch{}
	if g.cfg.IFSCBaseURL == "" {
		// offline fallback: derive the bank name from the branch prefix
		if name := bankNameFromPrefix(code); name != "" {
			patch[merchant.FieldBankName] = name
		}
		return patch
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(g.cfg.IFSCBaseURL, "/"), code)
	var resp ifscResponse
	if !g.getJSON(ctx, "ifsc", url, &resp) {
		if name := bankNameFromPrefix(code); name != "" {
			patch[merchant.FieldBankName] = name
		}
		return patch
	}
	if resp.Bank != "" {
		patch[merchant.FieldBankName] = resp.Bank
	}
	metrics.EnrichmentLookups.WithLabelValues("ifsc", "hit").Inc()
	return patch
}

// pincodeResponse mirrors the public PIN directory payload: an array with a
// status string and a list of post offices.
type pincodeResponse []struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

func (g *Gateway) lookupPincode(ctx context.Context, pin string) merchant.Patch {
	patch := merchant.Patch{}
	if g.cfg.PincodeBaseURL == "" {
		return patch
	}
	url := fmt.Sprintf("%s/pincode/%s", strings.TrimRight(g.cfg.PincodeBaseURL, "/"), pin)
	var resp pincodeResponse
	if !g.getJSON(ctx, "pincode", url, &resp) {
		return patch
	}
	if len(resp) == 0 || !strings.EqualFold(resp[0].Status, "Success") || len(resp[0].PostOffice) == 0 {
		// registry does not know the code: empty patch, not an error
		metrics.EnrichmentLookups.WithLabelValues("pincode", "miss").Inc()
		return patch
	}
	po := resp[0].PostOffice[0]
	if po.District != "" {
		patch[merchant.FieldCity] = po.District
	}
	if po.State != "" {
		patch[merchant.FieldState] = po.State
	}
	metrics.EnrichmentLookups.WithLabelValues("pincode", "hit").Inc()
	return patch
}

// gstinResponse mirrors the GSTIN registry payload.
type gstinResponse struct {
	LegalName string `json:"legal_name"`
	TradeName string `json:"trade_name"`
	Address   string `json:"address"`
	StateCode string `json:"state_code"`
}

func (g *Gateway) lookupGSTIN(ctx context.Context, gstin string) merchant.Patch {
	patch := merchant.Patch{}
	if g.cfg.GSTBaseURL == "" {
		return patch
	}
	url := fmt.Sprintf("%s/gstin/%s", strings.TrimRight(g.cfg.GSTBaseURL, "/"), gstin)
	var resp gstinResponse
	if !g.getJSON(ctx, "gstin", url, &resp) {
		return patch
	}
	name := resp.TradeName
	if name == "" {
		name = resp.LegalName
	}
	if name != "" {
		patch[merchant.FieldBusinessName] = name
	}
	if resp.Address != "" {
		patch[merchant.FieldAddressLine] = resp.Address
	}
	metrics.EnrichmentLookups.WithLabelValues("gstin", "hit").Inc()
	return patch
}

// getJSON performs a cached unauthenticated GET and decodes into out. Returns
// false on any transport, status or decode problem.
func (g *Gateway) getJSON(ctx context.Context, registry, url string, out interface{}) bool {
	cacheKey := "enrich:" + registry + ":" + url
	if g.cache != nil {
		if b, err := g.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			if json.Unmarshal(b, out) == nil {
				return true
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Warnf("enrich: build %s request: %v", registry, err)
		metrics.EnrichmentLookups.WithLabelValues(registry, "error").Inc()
		return false
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		logger.Warnf("enrich: %s lookup failed: %v", registry, err)
		metrics.EnrichmentLookups.WithLabelValues(registry, "error").Inc()
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnf("enrich: %s lookup returned %d", registry, resp.StatusCode)
		metrics.EnrichmentLookups.WithLabelValues(registry, "error").Inc()
		return false
	}
	body := json.NewDecoder(resp.Body)
	if err := body.Decode(out); err != nil {
		logger.Warnf("enrich: decode %s response: %v", registry, err)
		metrics.EnrichmentLookups.WithLabelValues(registry, "error").Inc()
		return false
	}

	if g.cache != nil {
		if b, err := json.Marshal(out); err == nil {
			_ = g.cache.Set(ctx, cacheKey, b, g.cfg.CacheTTL).Err()
		}
	}
	return true
}

// bankNameFromPrefix covers the common branch prefixes so bank name can still
// be derived when the directory is unreachable or not configured.
var bankPrefixes = map[string]string{
	"HDFC": "HDFC Bank",
	"ICIC": "ICICI Bank",
	"SBIN": "State Bank of India",
	"UTIB": "Axis Bank",
	"KKBK": "Kotak Mahindra Bank",
	"YESB": "Yes Bank",
	"IDFB": "IDFC First Bank",
	"PUNB": "Punjab National Bank",
	"BARB": "Bank of Baroda",
	"CNRB": "Canara Bank",
}

func bankNameFromPrefix(code string) string {
	if len(code) < 4 {
		return ""
	}
	return bankPrefixes[code[:4]]
}
