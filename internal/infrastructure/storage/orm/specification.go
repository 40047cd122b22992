package orm

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"contractor/internal/domain/contractor"
	"contractor/internal/domain/filter"
)

// Specification narrows a contractor query. Specifications compose with
// gorm's Scopes and are ANDed.
type Specification func(db *gorm.DB) *gorm.DB

// associations maps search dimensions to the join aliases gorm assigns to
// the belongs-to associations of contractorRecord.
var associations = map[filter.Dimension]string{
	contractor.DimContractor: clause.CurrentTable,
	contractor.DimCountry:    "Country",
	contractor.DimIndustry:   "Industry",
	contractor.DimOrgForm:    "OrgForm",
}

// Spec builds the specification of one filter item. Invalid items surface
// as a query error rather than a panic.
func Spec(item filter.Item) Specification {
	return func(db *gorm.DB) *gorm.DB {
		table, ok := associations[item.Dimension]
		if !ok {
			_ = db.AddError(fmt.Errorf("unknown filter dimension: %s", item.Dimension))
			return db
		}
		if !contractor.Searchable(item.Dimension, item.Column) {
			_ = db.AddError(fmt.Errorf("invalid filter column: %s.%s", item.Dimension, item.Column))
			return db
		}

		col := clause.Column{Table: table, Name: item.Column}
		switch item.Operator {
		case filter.Equal:
			return db.Where(clause.Eq{Column: col, Value: item.Value})
		case filter.Like:
			return db.Where(clause.Like{Column: col, Value: item.Value})
		default:
			_ = db.AddError(fmt.Errorf("unsupported filter operator: %s", item.Operator))
			return db
		}
	}
}

// Specs converts filter items into scopes in order.
func Specs(items []filter.Item) []func(*gorm.DB) *gorm.DB {
	scopes := make([]func(*gorm.DB) *gorm.DB, 0, len(items))
	for _, item := range items {
		scopes = append(scopes, Spec(item))
	}
	return scopes
}
