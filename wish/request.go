package wish

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// APIVersion is the version segment placed between the base path and the endpoint.
const APIVersion = "v2/"

// DefaultBaseURLs maps each environment to its API base path.
var DefaultBaseURLs = map[Environment]string{
	EnvProduction: "https://merchant.wish.com/api/",
	EnvSandbox:    "https://sandbox.merchant.wish.com/api/",
	EnvStage:      "https://merch.corp.contextlogic.com/api/",
}

// Params are caller supplied request parameters. Values may be strings,
// numbers, booleans, or nested maps/slices which are flattened with
// bracket notation (images[0]=..., shipping[US]=...).
type Params map[string]any

// Request is a fully built API call. It is never modified after Build.
type Request struct {
	Method string
	Path   string
	// URL is the resolved endpoint without the query string.
	URL         string
	Environment Environment

	params url.Values
}

// Params returns a copy of the final parameter set, including the
// injected credentials.
func (r *Request) Params() url.Values {
	out := make(url.Values, len(r.params))
	for k, vs := range r.params {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// RequestBuilder turns a session plus call arguments into a Request.
type RequestBuilder struct {
	baseURLs map[Environment]string
	version  string
}

// NewRequestBuilder creates a builder over the given base URL table.
// A nil table uses DefaultBaseURLs.
func NewRequestBuilder(baseURLs map[Environment]string) *RequestBuilder {
	table := make(map[Environment]string, len(DefaultBaseURLs))
	for env, base := range DefaultBaseURLs {
		table[env] = base
	}
	for env, base := range baseURLs {
		table[env] = base
	}

	return &RequestBuilder{
		baseURLs: table,
		version:  APIVersion,
	}
}

// BaseURL returns the base path for env, failing with a configuration
// error for environments that are not in the table.
func (b *RequestBuilder) BaseURL(env Environment) (string, error) {
	base, ok := b.baseURLs[env]
	if !ok || base == "" {
		return "", newError(KindConfiguration, fmt.Sprintf("invalid session type %q", env), nil, nil, nil)
	}
	return base, nil
}

// Build creates a Request. Caller params are merged first and the session
// credentials last, so access_token and merchant_id can never be overridden.
func (b *RequestBuilder) Build(session Session, method, path string, params Params) (*Request, error) {
	if method != http.MethodGet && method != http.MethodPost {
		return nil, newError(KindConfiguration, fmt.Sprintf("unsupported method %q", method), nil, nil, nil)
	}

	base, err := b.BaseURL(session.Environment())
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := flattenParam(values, k, params[k]); err != nil {
			return nil, newError(KindConfiguration, err.Error(), nil, nil, err)
		}
	}

	values.Set("access_token", session.AccessToken())
	if session.MerchantID() != "" {
		values.Set("merchant_id", session.MerchantID())
	}

	return &Request{
		Method:      method,
		Path:        path,
		params:      values,
		URL:         base + b.version + path,
		Environment: session.Environment(),
	}, nil
}

// flattenParam writes v under key, expanding maps and slices.
func flattenParam(values url.Values, key string, v any) error {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		values.Set(key, val)
	case bool:
		values.Set(key, strconv.FormatBool(val))
	case int:
		values.Set(key, strconv.Itoa(val))
	case int64:
		values.Set(key, strconv.FormatInt(val, 10))
	case float64:
		values.Set(key, strconv.FormatFloat(val, 'f', -1, 64))
	case []string:
		for i, s := range val {
			values.Set(fmt.Sprintf("%s[%d]", key, i), s)
		}
	case fmt.Stringer:
		values.Set(key, val.String())
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Map:
			if rv.Type().Key().Kind() != reflect.String {
				return fmt.Errorf("parameter %q: map keys must be strings", key)
			}
			mk := rv.MapKeys()
			sort.Slice(mk, func(i, j int) bool { return mk[i].String() < mk[j].String() })
			for _, k := range mk {
				if err := flattenParam(values, key+"["+k.String()+"]", rv.MapIndex(k).Interface()); err != nil {
					return err
				}
			}
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				if err := flattenParam(values, fmt.Sprintf("%s[%d]", key, i), rv.Index(i).Interface()); err != nil {
					return err
				}
			}
		case reflect.String:
			values.Set(key, rv.String())
		case reflect.Bool:
			values.Set(key, strconv.FormatBool(rv.Bool()))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			values.Set(key, strconv.FormatInt(rv.Int(), 10))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			values.Set(key, strconv.FormatUint(rv.Uint(), 10))
		case reflect.Float32:
			values.Set(key, strconv.FormatFloat(rv.Float(), 'f', -1, 32))
		default:
			return fmt.Errorf("parameter %q: unsupported type %T", key, v)
		}
	}
	return nil
}
