package catalog_repo

import (
	"contractor/internal/domain/catalogs/country"
	"contractor/internal/domain/catalogs/industry"
	"contractor/internal/domain/catalogs/orgform"
	"contractor/internal/infrastructure/storage/postgres"
)

const (
	countryTable  = "country"
	industryTable = "industry"
	orgFormTable  = "org_form"
)

// CountryRepo implements country.Repository. Country ids are ISO codes
// supplied by the caller.
type CountryRepo struct {
	*BaseLookupRepo[*country.Country, string]
}

var _ country.Repository = (*CountryRepo)(nil)

// NewCountryRepo creates a new country repository.
func NewCountryRepo(txManager *postgres.TxManager) *CountryRepo {
	return &CountryRepo{
		BaseLookupRepo: NewBaseLookupRepo[*country.Country, string](
			txManager,
			countryTable,
			postgres.ExtractDBColumns[country.Country](),
			func() *country.Country { return &country.Country{} },
		),
	}
}

// IndustryRepo implements industry.Repository.
type IndustryRepo struct {
	*BaseLookupRepo[*industry.Industry, int64]
}

var _ industry.Repository = (*IndustryRepo)(nil)

// NewIndustryRepo creates a new industry repository.
func NewIndustryRepo(txManager *postgres.TxManager) *IndustryRepo {
	base := NewBaseLookupRepo[*industry.Industry, int64](
		txManager,
		industryTable,
		postgres.ExtractDBColumns[industry.Industry](),
		func() *industry.Industry { return &industry.Industry{} },
	).WithGeneratedKey(func(i *industry.Industry, id int64) { i.ID = id })

	return &IndustryRepo{BaseLookupRepo: base}
}

// OrgFormRepo implements orgform.Repository.
type OrgFormRepo struct {
	*BaseLookupRepo[*orgform.OrgForm, int64]
}

var _ orgform.Repository = (*OrgFormRepo)(nil)

// NewOrgFormRepo creates a new org form repository.
func NewOrgFormRepo(txManager *postgres.TxManager) *OrgFormRepo {
	base := NewBaseLookupRepo[*orgform.OrgForm, int64](
		txManager,
		orgFormTable,
		postgres.ExtractDBColumns[orgform.OrgForm](),
		func() *orgform.OrgForm { return &orgform.OrgForm{} },
	).WithGeneratedKey(func(o *orgform.OrgForm, id int64) { o.ID = id })

	return &OrgFormRepo{BaseLookupRepo: base}
}
