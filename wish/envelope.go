package wish

import (
	"bytes"
	"encoding/json"
	"net/url"

	"github.com/tidwall/gjson"
)

// Envelope is the normalized form of every service response.
type Envelope struct {
	// Code is the service status code; only meaningful when HasCode is set.
	Code    int
	HasCode bool
	Message string
	// Data is the raw payload: an object, array, or scalar.
	Data   json.RawMessage
	Paging *Paging

	// Fallback is set when the body was not JSON and Data holds the
	// body decoded as URL-encoded key/value pairs.
	Fallback   bool
	HTTPStatus int
	Raw        []byte
	// Request is the call that produced this response.
	Request *Request
}

// Paging is the service's cursor for multi-record endpoints.
type Paging struct {
	Offset  int
	HasNext bool
	Next    string
	Prev    string
}

// HasMore reports whether the service advertised another page
func (e *Envelope) HasMore() bool {
	return e.Paging != nil && e.Paging.HasNext
}

// DataResult returns the payload as a gjson result for ad-hoc field access.
func (e *Envelope) DataResult() gjson.Result {
	if len(e.Data) == 0 {
		return gjson.Result{}
	}
	return gjson.ParseBytes(e.Data)
}

// parseEnvelope never fails: bodies that are not a JSON value fall back
// to URL-encoded decoding with no status code.
func parseEnvelope(body []byte, httpStatus int) *Envelope {
	env := &Envelope{
		HTTPStatus: httpStatus,
		Raw:        body,
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && gjson.ValidBytes(trimmed) {
		root := gjson.ParseBytes(trimmed)
		if root.Type != gjson.Null {
			if !root.IsObject() {
				env.Data = json.RawMessage(root.Raw)
				return env
			}
			fillFromObject(env, root)
			return env
		}
	}

	env.Fallback = true
	// ParseQuery keeps every pair it could decode even when it reports an error
	values, _ := url.ParseQuery(string(trimmed))
	flat := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	data, _ := json.Marshal(flat)
	env.Data = data

	return env
}

func fillFromObject(env *Envelope, root gjson.Result) {
	if code := root.Get("code"); code.Exists() && code.Type != gjson.Null {
		env.Code = int(code.Int())
		env.HasCode = true
	}
	env.Message = root.Get("message").String()

	if data := root.Get("data"); data.Exists() {
		env.Data = json.RawMessage(data.Raw)
	}

	paging := root.Get("paging")
	if !paging.Exists() || !paging.IsObject() {
		return
	}

	p := &Paging{
		Offset: int(paging.Get("offset").Int()),
		Next:   paging.Get("next").String(),
		Prev:   paging.Get("prev").String(),
	}
	switch {
	case paging.Get("hasNext").Exists():
		p.HasNext = paging.Get("hasNext").Bool()
	case paging.Get("has_next").Exists():
		p.HasNext = paging.Get("has_next").Bool()
	default:
		p.HasNext = p.Next != ""
	}
	env.Paging = p
}
