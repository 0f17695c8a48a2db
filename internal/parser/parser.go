package parser

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

// Parse turns raw newline-delimited source text into validated endpoints of
// the given type. It supports formats:
//
//	ip:port
//	ip:port:username:password
//	username:password@ip:port
//
// Empty lines, comment lines starting with '#', and lines that fail to parse
// are skipped; public proxy feeds are messy, so a partial list is the normal
// case, not an error. Parsing the same text twice yields the same slice.
func Parse(raw string, typ model.ProxyType) []model.Endpoint {
	var out []model.Endpoint
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		ep, err := parseLine(line, typ)
		if err != nil {
			continue
		}
		out = append(out, ep)
	}
	return out
}

// parseLine parses a single proxy line into an Endpoint.
func parseLine(line string, typ model.ProxyType) (model.Endpoint, error) {
	// Case 1: username:password@ip:port
	if strings.Contains(line, "@") {
		parts := strings.SplitN(line, "@", 2)
		user, pass, err := splitUserPass(parts[0])
		if err != nil {
			return model.Endpoint{}, err
		}
		host, port, err := splitHostPort(parts[1])
		if err != nil {
			return model.Endpoint{}, err
		}
		return model.Endpoint{
			Host:     host,
			Port:     port,
			Type:     typ,
			Username: user,
			Password: pass,
			Raw:      line,
		}, nil
	}

	// No "@". Could be:
	//   ip:port
	//   ip:port:user:pass
	col := strings.Split(line, ":")

	switch len(col) {
	case 2:
		host, port, err := splitHostPort(line)
		if err != nil {
			return model.Endpoint{}, err
		}
		return model.Endpoint{
			Host: host,
			Port: port,
			Type: typ,
			Raw:  line,
		}, nil

	case 4:
		host, port, err := splitHostPort(col[0] + ":" + col[1])
		if err != nil {
			return model.Endpoint{}, err
		}
		return model.Endpoint{
			Host:     host,
			Port:     port,
			Type:     typ,
			Username: col[2],
			Password: col[3],
			Raw:      line,
		}, nil

	default:
		return model.Endpoint{}, fmt.Errorf("unrecognized proxy format: %q", line)
	}
}

func splitUserPass(s string) (string, string, error) {
	up := strings.SplitN(s, ":", 2)
	if len(up) != 2 {
		return "", "", fmt.Errorf("invalid auth (expected user:pass): %q", s)
	}
	return up[0], up[1], nil
}

// splitHostPort handles host:port for IPv4 or hostname and enforces the
// 1..65535 port range.
func splitHostPort(s string) (string, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("invalid host:port: %q", s)
	}
	host := parts[0]
	if host == "" {
		return "", 0, fmt.Errorf("empty host in %q", s)
	}

	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", parts[1])
	}
	if port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("port %d out of range", port)
	}
	return host, port, nil
}
