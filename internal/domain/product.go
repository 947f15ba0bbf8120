package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Price is a product price as received from the catalog service, which may be
// encoded as a JSON number or as a decimal string. Unparseable values degrade
// to zero rather than failing the whole product payload.
type Price float64

// UnmarshalJSON accepts a JSON number, a decimal string, or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = Price(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*p = 0
			return nil
		}
		*p = Price(v)
		return nil
	}

	// null or any other shape degrades to zero.
	*p = 0
	return nil
}

// Float64 returns the normalized numeric value.
func (p Price) Float64() float64 {
	return float64(p)
}

// ProductImage is an image reference attached to a product.
type ProductImage struct {
	ID        int64  `json:"image_id"`
	Name      string `json:"image_name"`
	Path      string `json:"image_path"`
	SortOrder int    `json:"image_sort"`
	ProductID int64  `json:"product_id"`
}

// Product is a catalog entity owned by the catalog service. The storefront
// treats it as immutable once fetched; the identifier is the sole equality key
// across cart, wishlist, and filtering.
type Product struct {
	ID           int64          `json:"product_id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Price        Price          `json:"price"`
	Category     string         `json:"c_category,omitempty"`
	Type         string         `json:"c_type,omitempty"`
	Manufacturer string         `json:"c_manufacturer,omitempty"`
	Featured     bool           `json:"if_featured,omitempty"`
	Images       []ProductImage `json:"images,omitempty"`
	// DateAdded is kept as the raw timestamp string supplied by the catalog;
	// the "newest" sort compares it lexicographically, so the catalog must
	// emit ISO-8601 or another lexicographically time-ordered format.
	DateAdded string  `json:"date_added,omitempty"`
	Sales     int     `json:"sales,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
}

// Sort keys accepted by the product list pipeline. The empty string means
// "featured", the storefront default.
const (
	SortFeatured    = "featured"
	SortPriceAsc    = "price_asc"
	SortPriceDesc   = "price_desc"
	SortNameAsc     = "name_asc"
	SortNameDesc    = "name_desc"
	SortBestSelling = "best_selling"
	SortNewest      = "newest"
)

// ValidSortKeys returns the set of accepted sort keys.
func ValidSortKeys() []string {
	return []string{SortFeatured, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortBestSelling, SortNewest}
}

// IsValidSort checks whether the given sort key is accepted. The empty string
// is valid and maps to the featured sort.
func IsValidSort(sort string) bool {
	if sort == "" {
		return true
	}
	for _, s := range ValidSortKeys() {
		if s == sort {
			return true
		}
	}
	return false
}

// Price bucket identifiers used as filter predicates.
const (
	BucketUnder25 = "under_25"
	Bucket25To50  = "25_50"
	Bucket50To100 = "50_100"
	BucketOver100 = "over_100"
)

// InBucket reports whether the given normalized price falls in the named
// bucket. Unknown bucket names match everything, so an unrecognized value
// never hides products.
func InBucket(bucket string, price float64) bool {
	switch bucket {
	case BucketUnder25:
		return price < 25
	case Bucket25To50:
		return price >= 25 && price <= 50
	case Bucket50To100:
		return price >= 50 && price <= 100
	case BucketOver100:
		return price > 100
	default:
		return true
	}
}

// FilterCriteria holds the active browse filters. Empty fields mean "no
// constraint". Criteria live only for the duration of a browsing session and
// are never persisted.
type FilterCriteria struct {
	Sort         string `json:"sort,omitempty"`
	Category     string `json:"category,omitempty"`
	Type         string `json:"type,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	PriceBucket  string `json:"price,omitempty"`
}

// IsZero reports whether no filter or sort is active.
func (c FilterCriteria) IsZero() bool {
	return c == FilterCriteria{}
}
