package wish

import (
	"context"
	"net/http"
)

// GetProduct retrieves a product by id
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	env, err := c.Do(ctx, http.MethodGet, "product", Params{"id": id})
	if err != nil {
		return nil, err
	}

	var product Product
	if err := decodeData(env, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product from raw fields (name, description,
// tags, sku, inventory, price, shipping, main_image, ...).
func (c *Client) CreateProduct(ctx context.Context, fields Params) (*Product, error) {
	env, err := c.Do(ctx, http.MethodPost, "product/add", fields)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := decodeData(env, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct sends the non-empty fields of update
func (c *Client) UpdateProduct(ctx context.Context, update ProductUpdate) error {
	params, err := structParams(update)
	if err != nil {
		return err
	}
	return c.exec(ctx, "product/update", params)
}

// EnableProduct enables a product
func (c *Client) EnableProduct(ctx context.Context, id string) error {
	return c.exec(ctx, "product/enable", Params{"id": id})
}

// DisableProduct disables a product
func (c *Client) DisableProduct(ctx context.Context, id string) error {
	return c.exec(ctx, "product/disable", Params{"id": id})
}

// GetAllProducts retrieves every product, following pagination
func (c *Client) GetAllProducts(ctx context.Context) ([]Product, error) {
	return Collect(ctx, c, http.MethodGet, "product/multi-get", nil, recordDecoder[Product]())
}

// RemoveExtraImages removes all extra images from a product
func (c *Client) RemoveExtraImages(ctx context.Context, id string) error {
	return c.exec(ctx, "product/remove-extra-images", Params{"id": id})
}

// UpdateShipping sets the shipping price of a product for one country
func (c *Client) UpdateShipping(ctx context.Context, id, country string, price float64) error {
	return c.exec(ctx, "product/update-shipping", Params{
		"id":      id,
		"country": country,
		"price":   price,
	})
}

// GetShipping returns the raw shipping settings of a product for one country
func (c *Client) GetShipping(ctx context.Context, id, country string) (string, error) {
	data, err := c.get(ctx, http.MethodGet, "product/get-shipping", Params{"id": id, "country": country})
	if err != nil {
		return "", err
	}
	return data.Raw, nil
}

// GetAllShipping returns the raw shipping settings of a product for every country
func (c *Client) GetAllShipping(ctx context.Context, id string) (string, error) {
	data, err := c.get(ctx, http.MethodGet, "product/get-all-shipping", Params{"id": id})
	if err != nil {
		return "", err
	}
	return data.Raw, nil
}

// CreateVariation adds a variation to an existing product
func (c *Client) CreateVariation(ctx context.Context, fields Params) (*Variation, error) {
	env, err := c.Do(ctx, http.MethodPost, "variant/add", fields)
	if err != nil {
		return nil, err
	}

	var v Variation
	if err := decodeData(env, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVariation retrieves a variation by SKU
func (c *Client) GetVariation(ctx context.Context, sku string) (*Variation, error) {
	env, err := c.Do(ctx, http.MethodGet, "variant", Params{"sku": sku})
	if err != nil {
		return nil, err
	}

	var v Variation
	if err := decodeData(env, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVariation sends the set fields of update
func (c *Client) UpdateVariation(ctx context.Context, update VariationUpdate) error {
	params, err := structParams(update)
	if err != nil {
		return err
	}
	return c.exec(ctx, "variant/update", params)
}

// ChangeVariationSKU renames a variation's SKU
func (c *Client) ChangeVariationSKU(ctx context.Context, sku, newSKU string) error {
	return c.exec(ctx, "variant/change-sku", Params{"sku": sku, "new_sku": newSKU})
}

// EnableVariation enables a variation
func (c *Client) EnableVariation(ctx context.Context, sku string) error {
	return c.exec(ctx, "variant/enable", Params{"sku": sku})
}

// DisableVariation disables a variation
func (c *Client) DisableVariation(ctx context.Context, sku string) error {
	return c.exec(ctx, "variant/disable", Params{"sku": sku})
}

// UpdateInventory sets the inventory of a variation
func (c *Client) UpdateInventory(ctx context.Context, sku string, inventory int) error {
	return c.exec(ctx, "variant/update-inventory", Params{"sku": sku, "inventory": inventory})
}

// GetAllVariations retrieves every variation, following pagination
func (c *Client) GetAllVariations(ctx context.Context) ([]Variation, error) {
	return Collect(ctx, c, http.MethodGet, "variant/multi-get", nil, recordDecoder[Variation]())
}
