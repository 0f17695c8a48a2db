package fetcher

import "github.com/dennis-web-tech-hub/proxy-checker/internal/model"

// DefaultSources returns the built-in public list URL per proxy type.
// Callers may override any entry (or the whole map) via configuration.
func DefaultSources() map[model.ProxyType]string {
	return map[model.ProxyType]string{
		model.TypeHTTP:   "https://api.proxyscrape.com/v2/?request=get&protocol=http&timeout=10000&country=all&ssl=all&anonymity=all",
		model.TypeSOCKS4: "https://api.proxyscrape.com/v2/?request=get&protocol=socks4&timeout=10000&country=all",
		model.TypeSOCKS5: "https://api.proxyscrape.com/v2/?request=get&protocol=socks5&timeout=10000&country=all",
	}
}
