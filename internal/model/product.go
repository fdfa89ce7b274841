package model

import (
	"github.com/tidwall/gjson"
)

// ProductColumns is the header of the product table, in column order.
var ProductColumns = []string{
	"id",
	"title_fa",
	"title_en",
	"brand",
	"category",
	"status",
	"selling_price",
	"rrp_price",
	"rating",
	"rating_count",
	"recommendation_percentage",
	"color",
	"url",
}

// ProductRecord is one flattened search result. Nil fields were absent in the
// source document.
type ProductRecord struct {
	ID                       *Value `json:"id"`
	TitleFa                  *Value `json:"title_fa"`
	TitleEn                  *Value `json:"title_en"`
	Brand                    *Value `json:"brand"`
	Category                 *Value `json:"category"`
	Status                   *Value `json:"status"`
	SellingPrice             *Value `json:"selling_price"`
	RRPPrice                 *Value `json:"rrp_price"`
	Rating                   *Value `json:"rating"`
	RatingCount              *Value `json:"rating_count"`
	RecommendationPercentage *Value `json:"recommendation_percentage"`
	Color                    *Value `json:"color"`
	URL                      *Value `json:"url"`
}

// ResolveVariant picks the variant that carries the product's price.
// default_variant may be missing, an object, or a list of objects; a list
// resolves to its first element. Anything else resolves to an empty result.
func ResolveVariant(product gjson.Result) gjson.Result {
	v := product.Get("default_variant")
	if v.IsArray() {
		items := v.Array()
		if len(items) == 0 {
			return gjson.Result{}
		}
		return object(items[0])
	}
	return object(v)
}

// FlattenProduct extracts a ProductRecord from one entry of data.products.
func FlattenProduct(product gjson.Result) ProductRecord {
	// Nested mappings; a missing level reads as empty
	price := object(ResolveVariant(product).Get("price"))
	rating := object(product.Get("rating"))
	recommendation := object(object(product.Get("review")).Get("recommendation"))

	// Only the first listed color is kept
	var color *Value
	if colors := product.Get("colors"); colors.IsArray() {
		if items := colors.Array(); len(items) > 0 {
			color = optValue(object(items[0]).Get("title"))
		}
	}

	return ProductRecord{
		ID:                       optValue(product.Get("id")),
		TitleFa:                  optValue(product.Get("title_fa")),
		TitleEn:                  optValue(product.Get("title_en")),
		Brand:                    optValue(object(product.Get("brand")).Get("title_fa")),
		Category:                 optValue(object(product.Get("category")).Get("title_fa")),
		Status:                   optValue(product.Get("status")),
		SellingPrice:             optValue(price.Get("selling_price")),
		RRPPrice:                 optValue(price.Get("rrp_price")),
		Rating:                   optValue(rating.Get("rate")),
		RatingCount:              optValue(rating.Get("count")),
		RecommendationPercentage: optValue(recommendation.Get("recommended_percentage")),
		Color:                    color,
		URL:                      optValue(object(product.Get("url")).Get("uri")),
	}
}

// Key identifies the record when it is published.
func (p ProductRecord) Key() string {
	return p.ID.String()
}

// Row renders the record in ProductColumns order. Absent fields are empty cells.
func (p ProductRecord) Row() []string {
	return []string{
		p.ID.String(),
		p.TitleFa.String(),
		p.TitleEn.String(),
		p.Brand.String(),
		p.Category.String(),
		p.Status.String(),
		p.SellingPrice.String(),
		p.RRPPrice.String(),
		p.Rating.String(),
		p.RatingCount.String(),
		p.RecommendationPercentage.String(),
		p.Color.String(),
		p.URL.String(),
	}
}
