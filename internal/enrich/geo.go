package enrich

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// HTTPResolver looks up geo information against an external geo-IP API.
// The apiURL must contain a single %s placeholder for the IP.
type HTTPResolver struct {
	apiURL string
	client *http.Client
}

// NewHTTPResolver builds a resolver against an ip-api.com style endpoint.
func NewHTTPResolver(apiURL string, timeout time.Duration) *HTTPResolver {
	return &HTTPResolver{
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
	}
}

// geoAPIResponse matches the fields we care about from the geo API.
type geoAPIResponse struct {
	Status     string `json:"status"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

func (r *HTTPResolver) Lookup(ip string) (model.GeoInfo, error) {
	resp, err := r.client.Get(fmt.Sprintf(r.apiURL, ip))
	if err != nil {
		return model.GeoInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.GeoInfo{}, fmt.Errorf("geo lookup status %d", resp.StatusCode)
	}

	var parsed geoAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.GeoInfo{}, err
	}
	if parsed.Status != "" && parsed.Status != "success" {
		return model.GeoInfo{}, fmt.Errorf("geo lookup failed for %s", ip)
	}

	return model.GeoInfo{
		Country: parsed.Country,
		Region:  parsed.RegionName,
		City:    parsed.City,
	}, nil
}

// MMDBResolver resolves geo information from a local MaxMind database,
// avoiding per-proxy API calls entirely.
type MMDBResolver struct {
	db *geoip2.Reader
}

// NewMMDBResolver opens a GeoIP2/GeoLite2 City database.
func NewMMDBResolver(path string) (*MMDBResolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geo database: %w", err)
	}
	return &MMDBResolver{db: db}, nil
}

func (r *MMDBResolver) Lookup(ip string) (model.GeoInfo, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return model.GeoInfo{}, fmt.Errorf("invalid ip %q", ip)
	}

	rec, err := r.db.City(parsed)
	if err != nil {
		return model.GeoInfo{}, err
	}

	info := model.GeoInfo{
		Country: rec.Country.Names["en"],
		City:    rec.City.Names["en"],
	}
	if len(rec.Subdivisions) > 0 {
		info.Region = rec.Subdivisions[0].Names["en"]
	}
	return info, nil
}

// Close releases the underlying database handle.
func (r *MMDBResolver) Close() error { return r.db.Close() }
