package scrapers

import (
	"fmt"
	"net/url"
	"strings"

	"digikala-scraper/internal/pacing"
)

// DigikalaConfig holds Digikala scraper configuration.
type DigikalaConfig struct {
	APIBaseURL      string // e.g. "https://api.digikala.com/v1"
	Category        string // e.g. "mobile-phone"
	Brand           string // e.g. "samsung"
	SearchCacheKey  string // opaque query pair appended to search URLs
	MaxProductPages int    // search pages 1..MaxProductPages are requested
	MaxCommentPages int    // upper bound on comment pages per product

	ProductsPause    pacing.Range // once, after the last search page
	CommentPagePause pacing.Range // between comment pages of one product
	ProductGap       pacing.Range // between products in the comment phase

	ProductsPath string
	CommentsPath string
}

// DefaultDigikalaConfig returns a DigikalaConfig for Samsung mobile phones.
func DefaultDigikalaConfig() DigikalaConfig {
	return DigikalaConfig{
		APIBaseURL:       "https://api.digikala.com/v1",
		Category:         "mobile-phone",
		Brand:            "samsung",
		SearchCacheKey:   "_rch=db340a7f7c4f",
		MaxProductPages:  45,
		MaxCommentPages:  45,
		ProductsPause:    pacing.Between(0.5, 1.2),
		CommentPagePause: pacing.Between(0.5, 1.2),
		ProductGap:       pacing.Between(1.0, 2.0),
		ProductsPath:     "samsung_products.csv",
		CommentsPath:     "samsung_comments.csv",
	}
}

// WithAPIBaseURL sets the API root and returns the config for chaining
func (c DigikalaConfig) WithAPIBaseURL(base string) DigikalaConfig {
	c.APIBaseURL = strings.TrimRight(base, "/")
	return c
}

// WithSearch sets the category, brand and cache key of the search endpoint
func (c DigikalaConfig) WithSearch(category, brand, cacheKey string) DigikalaConfig {
	c.Category = category
	c.Brand = brand
	c.SearchCacheKey = cacheKey
	return c
}

// WithMaxPages sets the page bounds for products and comments
func (c DigikalaConfig) WithMaxPages(productPages, commentPages int) DigikalaConfig {
	c.MaxProductPages = productPages
	c.MaxCommentPages = commentPages
	return c
}

// WithOutputs sets the paths of the two CSV files
func (c DigikalaConfig) WithOutputs(productsPath, commentsPath string) DigikalaConfig {
	c.ProductsPath = productsPath
	c.CommentsPath = commentsPath
	return c
}

// WithPauses sets the three random pause ranges
func (c DigikalaConfig) WithPauses(products, commentPage, productGap pacing.Range) DigikalaConfig {
	c.ProductsPause = products
	c.CommentPagePause = commentPage
	c.ProductGap = productGap
	return c
}

// SearchURL builds the brand/category search URL for page.
func (c DigikalaConfig) SearchURL(page int) string {
	u := fmt.Sprintf("%s/categories/%s/brands/%s/search/?page=%d", c.APIBaseURL, c.Category, c.Brand, page)
	if c.SearchCacheKey != "" {
		u += "&" + c.SearchCacheKey
	}
	return u
}

// CommentsURL builds the comments URL of product for page. productID is the
// id exactly as the search endpoint returned it.
func (c DigikalaConfig) CommentsURL(productID string, page int) string {
	return fmt.Sprintf("%s/product/%s/comments/?page=%d", c.APIBaseURL, url.PathEscape(productID), page)
}
