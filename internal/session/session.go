// Package session loads the optional session material (cookies and
// headers) described in spec.md §6.
package session

import (
	"encoding/json"
	"fmt"
	"os"
)

// Cookie is one entry of a cookie JSON array.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Material bundles the optional session inputs.
type Material struct {
	Cookies []Cookie
	Headers map[string]string
}

// LoadCookies reads a cookie JSON file (array of {name, value, ...}).
// An empty path returns no cookies.
func LoadCookies(path string) ([]Cookie, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse cookie file %s: %w", path, err)
	}
	return cookies, nil
}

// LoadHeaders reads a header JSON file (object of name -> value).
// An empty path returns no headers.
func LoadHeaders(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read header file: %w", err)
	}
	var headers map[string]string
	if err := json.Unmarshal(data, &headers); err != nil {
		return nil, fmt.Errorf("parse header file %s: %w", path, err)
	}
	return headers, nil
}

// Load reads both optional files into a Material bundle.
func Load(cookiePath, headerPath string) (*Material, error) {
	cookies, err := LoadCookies(cookiePath)
	if err != nil {
		return nil, err
	}
	headers, err := LoadHeaders(headerPath)
	if err != nil {
		return nil, err
	}
	return &Material{Cookies: cookies, Headers: headers}, nil
}

// AsMap returns the cookies as a name->value mapping, the shape the
// Replay Engine attaches to a request (spec.md §4.4).
func (m *Material) AsMap() map[string]string {
	out := make(map[string]string, len(m.Cookies))
	for _, c := range m.Cookies {
		out[c.Name] = c.Value
	}
	return out
}
