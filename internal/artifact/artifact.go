package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"flightparse/internal/host"
	"flightparse/internal/version"
)

// ErrorInfo describes a rejected call
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result is the machine-readable report of one parse call
type Result struct {
	ConfigVersion string     `json:"configVersion"` // sha256:hex of the rendered document
	Version       string     `json:"version"`
	Checksum      string     `json:"checksum"`
	Value         string     `json:"value,omitempty"`
	Error         *ErrorInfo `json:"error,omitempty"`
}

// FromResponse builds a Result for a call made against document.
func FromResponse(consts version.Constants, document string, resp host.Response) Result {
	r := Result{
		ConfigVersion: ComputeConfigVersion(document),
		Version:       consts.Version,
		Checksum:      consts.Checksum,
		Value:         resp.Value,
	}
	if !resp.Resolved() {
		r.Value = ""
		r.Error = &ErrorInfo{
			Kind:    string(resp.Kind),
			Field:   resp.Field,
			Message: resp.Err.Error(),
		}
	}
	return r
}

// ComputeConfigVersion hashes the document text.
// Returns the hash prefixed with "sha256:".
func ComputeConfigVersion(document string) string {
	hash := sha256.Sum256([]byte(document))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// Succeeded reports whether the call resolved.
func (r Result) Succeeded() bool {
	return r.Error == nil
}

// ToJSON serializes the result to pretty-printed JSON for human readability.
func (r Result) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Encode returns the canonical form when canonical is set, the indented
// form otherwise.
func (r Result) Encode(canonical bool) ([]byte, error) {
	if canonical {
		return r.ToCanonicalJSON()
	}
	return r.ToJSON()
}

// ToCanonicalJSON serializes the result with sorted keys and no whitespace.
func (r Result) ToCanonicalJSON() ([]byte, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	// a round trip through a map sorts the keys
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}
