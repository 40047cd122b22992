package orm

import (
	"time"

	"contractor/internal/domain/contractor"
)

type countryRecord struct {
	ID       string `gorm:"column:id;primaryKey"`
	Name     string `gorm:"column:name;not null"`
	IsActive bool   `gorm:"column:is_active;not null"`
}

func (countryRecord) TableName() string { return "country" }

type industryRecord struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Name     string `gorm:"column:name;not null"`
	IsActive bool   `gorm:"column:is_active;not null"`
}

func (industryRecord) TableName() string { return "industry" }

type orgFormRecord struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	Name     string `gorm:"column:name;not null"`
	IsActive bool   `gorm:"column:is_active;not null"`
}

func (orgFormRecord) TableName() string { return "org_form" }

// contractorRecord maps the contractor table. Country, Industry and OrgForm
// are belongs-to associations joined by name in searches.
type contractorRecord struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	ParentID           *string    `gorm:"column:parent_id"`
	Name               string     `gorm:"column:name;not null"`
	NameFull           *string    `gorm:"column:name_full"`
	INN                *string    `gorm:"column:inn"`
	OGRN               *string    `gorm:"column:ogrn"`
	CountryID          *string    `gorm:"column:country"`
	IndustryID         *int64     `gorm:"column:industry"`
	OrgFormID          *int64     `gorm:"column:org_form"`
	ActiveMainBorrower bool       `gorm:"column:active_main_borrower;not null"`
	IsActive           bool       `gorm:"column:is_active;not null"`
	CreateDate         time.Time  `gorm:"column:create_date;not null"`
	ModifyDate         *time.Time `gorm:"column:modify_date"`
	CreateUserID       string     `gorm:"column:create_user_id;not null"`
	ModifyUserID       *string    `gorm:"column:modify_user_id"`

	Country  *countryRecord  `gorm:"foreignKey:CountryID;references:ID"`
	Industry *industryRecord `gorm:"foreignKey:IndustryID;references:ID"`
	OrgForm  *orgFormRecord  `gorm:"foreignKey:OrgFormID;references:ID"`
}

func (contractorRecord) TableName() string { return "contractor" }

func newContractorRecord(c *contractor.Contractor) contractorRecord {
	return contractorRecord{
		ID:                 c.ID,
		ParentID:           c.ParentID,
		Name:               c.Name,
		NameFull:           c.NameFull,
		INN:                c.INN,
		OGRN:               c.OGRN,
		CountryID:          c.CountryID,
		IndustryID:         c.IndustryID,
		OrgFormID:          c.OrgFormID,
		ActiveMainBorrower: c.ActiveMainBorrower,
		IsActive:           c.IsActive,
		CreateDate:         c.CreateDate,
		ModifyDate:         c.ModifyDate,
		CreateUserID:       c.CreateUserID,
		ModifyUserID:       c.ModifyUserID,
	}
}

// toDomain resolves lookup references from the joined associations. A
// reference is present whenever the foreign key is set.
func (r *contractorRecord) toDomain() contractor.Contractor {
	c := contractor.Contractor{
		ID:                 r.ID,
		ParentID:           r.ParentID,
		Name:               r.Name,
		NameFull:           r.NameFull,
		INN:                r.INN,
		OGRN:               r.OGRN,
		CountryID:          r.CountryID,
		IndustryID:         r.IndustryID,
		OrgFormID:          r.OrgFormID,
		ActiveMainBorrower: r.ActiveMainBorrower,
		IsActive:           r.IsActive,
	}
	c.CreateDate = r.CreateDate
	c.ModifyDate = r.ModifyDate
	c.CreateUserID = r.CreateUserID
	c.ModifyUserID = r.ModifyUserID

	if r.CountryID != nil {
		c.Country = &contractor.CountryRef{ID: *r.CountryID}
		if r.Country != nil {
			c.Country.Name = r.Country.Name
		}
	}
	if r.IndustryID != nil {
		c.Industry = &contractor.IndustryRef{ID: *r.IndustryID}
		if r.Industry != nil {
			c.Industry.Name = r.Industry.Name
		}
	}
	if r.OrgFormID != nil {
		c.OrgForm = &contractor.OrgFormRef{ID: *r.OrgFormID}
		if r.OrgForm != nil {
			c.OrgForm.Name = r.OrgForm.Name
		}
	}

	return c
}
