package wish

import (
	"fmt"
	"reflect"

	"github.com/google/go-querystring/query"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
)

// Tag is a product tag
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a listing with its variations.
type Product struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	ParentSKU      string      `json:"parent_sku"`
	Description    string      `json:"description"`
	Brand          string      `json:"brand"`
	UPC            string      `json:"upc"`
	LandingPageURL string      `json:"landing_page_url"`
	MainImage      string      `json:"main_image"`
	ExtraImages    string      `json:"extra_images"`
	Tags           []Tag       `json:"tags"`
	NumberSaves    int         `json:"number_saves"`
	NumberSold     int         `json:"number_sold"`
	ReviewStatus   string      `json:"review_status"`
	IsPromoted     bool        `json:"is_promoted"`
	DateUploaded   string      `json:"date_uploaded"`
	LastUpdated    string      `json:"last_updated"`
	Variations     []Variation `json:"variants"`
}

// Variation is a purchasable SKU of a product.
type Variation struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	SKU          string  `json:"sku"`
	Color        string  `json:"color"`
	Size         string  `json:"size"`
	Inventory    int     `json:"inventory"`
	Price        float64 `json:"price"`
	Shipping     float64 `json:"shipping"`
	MSRP         float64 `json:"msrp"`
	Enabled      bool    `json:"enabled"`
	ShippingTime string  `json:"shipping_time"`
	MainImage    string  `json:"main_image"`
	AllImages    string  `json:"all_images"`
}

// ShippingDetail is the buyer's shipping address on an order
type ShippingDetail struct {
	Name           string `json:"name"`
	StreetAddress1 string `json:"street_address1"`
	StreetAddress2 string `json:"street_address2"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zipcode        string `json:"zipcode"`
	Country        string `json:"country"`
	PhoneNumber    string `json:"phone_number"`
}

// Order is a single purchased item.
type Order struct {
	OrderID          string         `json:"order_id"`
	TransactionID    string         `json:"transaction_id"`
	State            string         `json:"state"`
	OrderTime        string         `json:"order_time"`
	LastUpdated      string         `json:"last_updated"`
	SKU              string         `json:"sku"`
	ProductID        string         `json:"product_id"`
	VariantID        string         `json:"variant_id"`
	ProductName      string         `json:"product_name"`
	ProductImageURL  string         `json:"product_image_url"`
	Color            string         `json:"color"`
	Size             string         `json:"size"`
	Quantity         int            `json:"quantity"`
	Price            float64        `json:"price"`
	Cost             float64        `json:"cost"`
	Shipping         float64        `json:"shipping"`
	ShippingCost     float64        `json:"shipping_cost"`
	OrderTotal       float64        `json:"order_total"`
	DaysToFulfill    int            `json:"days_to_fulfill"`
	HoursToFulfill   int            `json:"hours_to_fulfill"`
	TrackingNumber   string         `json:"tracking_number"`
	ShippingProvider string         `json:"shipping_provider"`
	ShipNote         string         `json:"ship_note"`
	BuyerID          string         `json:"buyer_id"`
	ShippingDetail   ShippingDetail `json:"ShippingDetail"`
}

// TicketReply is one message in a ticket thread
type TicketReply struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Date      string `json:"date"`
	ImageURLs string `json:"image_urls"`
}

// TicketUser describes the buyer who opened a ticket
type TicketUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Locale     string `json:"locale"`
	JoinedDate string `json:"joined_date"`
}

// Ticket is a customer support ticket.
type Ticket struct {
	ID             string        `json:"id"`
	TransactionID  string        `json:"transaction_id"`
	MerchantID     string        `json:"merchant_id"`
	State          string        `json:"state"`
	StateID        string        `json:"state_id"`
	Subject        string        `json:"subject"`
	Type           string        `json:"type"`
	Label          string        `json:"label"`
	Sublabel       string        `json:"sublabel"`
	OpenDate       string        `json:"open_date"`
	LastUpdateDate string        `json:"last_update_date"`
	PhotoProof     bool          `json:"photo_proof"`
	UserInfo       TicketUser    `json:"UserInfo"`
	Items          []Order       `json:"items"`
	Replies        []TicketReply `json:"replies"`
}

// Notification is a merchant notification
type Notification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	PermaLink string `json:"perma_link"`
}

// Token is the result of an OAuth exchange.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiryTime   int64  `json:"expiry_time"`
	MerchantID   string `json:"merchant_id"`
}

// Session returns a session for env using the token's credentials
func (t Token) Session(env Environment) Session {
	return NewSession(t.AccessToken, env, t.MerchantID)
}

// Tracker is the shipment information sent when fulfilling an order.
type Tracker struct {
	Provider          string `url:"tracking_provider"`
	Number            string `url:"tracking_number,omitempty"`
	ShipNote          string `url:"ship_note,omitempty"`
	OriginCountryCode string `url:"origin_country_code,omitempty"`
}

// Address is a replacement shipping address for an order.
type Address struct {
	StreetAddress1 string `url:"street_address1"`
	StreetAddress2 string `url:"street_address2"`
	City           string `url:"city"`
	State          string `url:"state"`
	Zipcode        string `url:"zipcode"`
	Country        string `url:"country"`
	PhoneNumber    string `url:"phone_number"`
}

// ProductUpdate lists the editable product fields. Empty fields are not sent.
type ProductUpdate struct {
	ID             string `url:"id"`
	Name           string `url:"name,omitempty"`
	Description    string `url:"description,omitempty"`
	Tags           string `url:"tags,omitempty"`
	Brand          string `url:"brand,omitempty"`
	LandingPageURL string `url:"landing_page_url,omitempty"`
	UPC            string `url:"upc,omitempty"`
	MainImage      string `url:"main_image,omitempty"`
	ExtraImages    string `url:"extra_images,omitempty"`
}

// VariationUpdate lists the editable variation fields. Nil and empty fields are not sent.
type VariationUpdate struct {
	SKU          string   `url:"sku"`
	Inventory    *int     `url:"inventory,omitempty"`
	Price        *float64 `url:"price,omitempty"`
	Shipping     *float64 `url:"shipping,omitempty"`
	Enabled      *bool    `url:"enabled,omitempty"`
	Size         string   `url:"size,omitempty"`
	Color        string   `url:"color,omitempty"`
	MSRP         *float64 `url:"msrp,omitempty"`
	ShippingTime string   `url:"shipping_time,omitempty"`
	MainImage    string   `url:"main_image,omitempty"`
}

// structParams encodes a url-tagged struct into request parameters
func structParams(v any) (Params, error) {
	values, err := query.Values(v)
	if err != nil {
		return nil, newError(KindConfiguration, fmt.Sprintf("failed to encode %T", v), nil, nil, err)
	}

	params := make(Params, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	return params, nil
}

// recordWrappers lists the single key the service may wrap each record in,
// e.g. {"Product": {...}}.
var recordWrappers = map[reflect.Type]string{
	reflect.TypeOf(Product{}):        "Product",
	reflect.TypeOf(Variation{}):      "Variant",
	reflect.TypeOf(Order{}):          "Order",
	reflect.TypeOf(Ticket{}):         "Ticket",
	reflect.TypeOf(Tag{}):            "Tag",
	reflect.TypeOf(TicketReply{}):    "Reply",
	reflect.TypeOf(Notification{}):   "Notification",
	reflect.TypeOf(ShippingDetail{}): "ShippingDetail",
}

func unwrapRecord(_ reflect.Type, to reflect.Type, data any) (any, error) {
	key, ok := recordWrappers[to]
	if !ok {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if !ok || len(m) != 1 {
		return data, nil
	}
	if inner, ok := m[key].(map[string]any); ok {
		return inner, nil
	}
	return data, nil
}

// decodeRecord fills out from a raw JSON object. Only fields declared on
// the target are set; unknown keys are ignored and numeric or boolean
// values sent as strings are coerced.
func decodeRecord(raw gjson.Result, out any) error {
	if !raw.IsObject() {
		return fmt.Errorf("expected an object, got %s", raw.Type)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       unwrapRecord,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(raw.Value())
}

// recordDecoder returns an ItemDecoder producing values of type T
func recordDecoder[T any]() ItemDecoder[T] {
	return func(raw gjson.Result) (T, error) {
		var v T
		err := decodeRecord(raw, &v)
		return v, err
	}
}
