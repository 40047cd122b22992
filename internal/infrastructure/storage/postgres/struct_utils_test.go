package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contractor/internal/domain/contractor"
)

func TestExtractDBColumns_Contractor(t *testing.T) {
	cols := ExtractDBColumns[contractor.Contractor]()

	assert.Equal(t, []string{
		"id", "parent_id", "name", "name_full", "inn", "ogrn",
		"country", "industry", "org_form", "active_main_borrower", "is_active",
		"create_date", "modify_date", "create_user_id", "modify_user_id",
	}, cols)
}

func TestExtractDBColumns_PointerType(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[contractor.Contractor](), ExtractDBColumns[*contractor.Contractor]())
}

func TestStructToMap_Contractor(t *testing.T) {
	now := time.Now().UTC()
	inn := "7701234567"
	c := &contractor.Contractor{
		ID:       "c1",
		Name:     "ACME",
		INN:      &inn,
		IsActive: true,
		Country:  &contractor.CountryRef{ID: "RUS", Name: "Russia"},
	}
	c.StampCreated("alice", now)

	m := StructToMap(c)

	assert.Equal(t, "c1", m["id"])
	assert.Equal(t, "ACME", m["name"])
	assert.Equal(t, &inn, m["inn"])
	assert.Equal(t, true, m["is_active"])
	assert.Equal(t, now, m["create_date"])
	assert.Equal(t, "alice", m["create_user_id"])
	assert.NotContains(t, m, "-")
	assert.Len(t, m, 15)
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
