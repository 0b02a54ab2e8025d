package persistence

import (
	"github.com/erp/catalog/internal/domain/catalog"
	"gorm.io/gorm"
)

// textSearchCondition lowercases on the database side, so case folding of
// non-ASCII letters follows the database collation. PostgreSQL with a UTF-8
// ICU or libc locale folds them; SQLite's built-in LOWER() folds only ASCII.
const textSearchCondition = `(LOWER(products.name) LIKE ? ESCAPE '\' ` +
	`OR LOWER(products.description) LIKE ? ESCAPE '\' ` +
	`OR LOWER(COALESCE(products.category_label, categories.name, '')) LIKE ? ESCAPE '\')`

// productFilterScope translates a ProductFilter into WHERE clauses on the products table.
// A text clause joins categories so id references match on the category name.
func productFilterScope(filter catalog.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		joined := false
		for _, c := range filter.Clauses() {
			switch c.Kind {
			case catalog.ClauseText:
				if !joined {
					db = db.Joins("LEFT JOIN categories ON categories.id = products.category_id")
					joined = true
				}
				pattern := containsPattern(c.Text)
				db = db.Where(textSearchCondition, pattern, pattern, pattern)
			case catalog.ClauseCompany:
				db = db.Where("products.company_id = ?", c.ID)
			case catalog.ClauseCategory:
				db = db.Where("products.category_id = ?", c.ID)
			case catalog.ClauseMinPrice:
				db = db.Where("products.price >= ?", c.Price)
			case catalog.ClauseMaxPrice:
				db = db.Where("products.price <= ?", c.Price)
			}
		}
		return db
	}
}
