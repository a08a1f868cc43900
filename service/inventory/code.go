package inventory

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"unicode"

	"gorm.io/gorm"

	inventoryEntity "github.com/jhkimon/crimson-erp-sub000/model/entity/inventory"
)

// normalize strips all whitespace (internal included) and upper-cases.
func normalize(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// slug normalizes an option value; an empty option slugs to DEFAULT.
func slug(s string) string {
	n := normalize(s)
	if n == "" {
		return "DEFAULT"
	}
	return n
}

// BuildVariantCode derives the stable SKU code for a (product, option,
// detail option) triple.
//
// With a product code the result is "{CODE}-{OPTION}" plus "-{DETAIL}" when
// the detail option is non-empty. Without a product code and allowAuto set,
// a deterministic "-AUTO-" code is derived from the product name so that
// repeated imports of the same row never mint a second variant.
func BuildVariantCode(productCode, productName, option, detailOption string, allowAuto bool) (string, error) {
	productCode = strings.TrimSpace(productCode)
	if productCode != "" {
		code := normalize(productCode) + "-" + slug(option)
		if strings.TrimSpace(detailOption) != "" {
			code += "-" + slug(detailOption)
		}
		return code, nil
	}

	if !allowAuto {
		return "", ValidationError("product_code required")
	}

	key := normalize(productName)
	if key == "" {
		key = "PRD"
	} else {
		runes := []rune(key)
		if len(runes) > 3 {
			runes = runes[:3]
		}
		key = string(runes)
	}

	sum := sha1.Sum([]byte(key + "|" + normalize(option) + "|" + normalize(productName)))
	return key + "-AUTO-" + hex.EncodeToString(sum[:])[:8], nil
}

// ResolveVariant looks up an existing variant for (product, option, detail
// option, code): exact code match first, then the option pair, then the
// product's default (empty-option) variant. Returns nil when nothing
// matches; creation is the caller's responsibility.
func ResolveVariant(db *gorm.DB, productID uint, option, detailOption, code string) (*inventoryEntity.Variant, error) {
	if code != "" {
		var v inventoryEntity.Variant
		err := db.Where("variant_code = ?", code).First(&v).Error
		if err == nil {
			return &v, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	var v inventoryEntity.Variant
	err := db.Where("product_id = ? AND `option` = ? AND detail_option = ?", productID, option, detailOption).First(&v).Error
	if err == nil {
		return &v, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	err = db.Where("product_id = ? AND `option` = ?", productID, "").First(&v).Error
	if err == nil {
		return &v, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}
