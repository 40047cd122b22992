package dto

import (
	"time"

	"contractor/internal/domain/contractor"
)

// --- Request DTOs ---

// SearchContractorsQuery is bound from the query string of the search
// endpoints. Empty values are treated as absent.
type SearchContractorsQuery struct {
	ID           *string `form:"id"`
	ParentID     *string `form:"parentId"`
	Name         *string `form:"name"`
	NameFull     *string `form:"nameFull"`
	INN          *string `form:"inn"`
	OGRN         *string `form:"ogrn"`
	Country      *string `form:"country"`
	IndustryID   *int64  `form:"industryId"`
	IndustryName *string `form:"industryName"`
	OrgForm      *string `form:"orgForm"`

	Page int `form:"page,default=0" binding:"min=0"`
	Size int `form:"size,default=10" binding:"min=1,max=1000"`
}

// ToCriteria converts the query to search criteria.
func (q *SearchContractorsQuery) ToCriteria() contractor.SearchCriteria {
	c := contractor.SearchCriteria{
		ID:                 blankToNil(q.ID),
		ParentID:           blankToNil(q.ParentID),
		Name:               blankToNil(q.Name),
		FullName:           blankToNil(q.NameFull),
		TaxNumber:          blankToNil(q.INN),
		RegistrationNumber: blankToNil(q.OGRN),
		Country:            blankToNil(q.Country),
		OrgForm:            blankToNil(q.OrgForm),
	}

	if q.IndustryID != nil || blankToNil(q.IndustryName) != nil {
		c.Industry = &contractor.IndustryCriteria{
			ID:   q.IndustryID,
			Name: blankToNil(q.IndustryName),
		}
	}
	return c
}

// ToPage returns the requested page.
func (q *SearchContractorsQuery) ToPage() contractor.Page {
	return contractor.Page{Number: q.Page, Size: q.Size}
}

// SaveContractorRequest is the body of PUT /contractor/save.
type SaveContractorRequest struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parentId"`
	Name     string  `json:"name" binding:"required"`
	NameFull *string `json:"nameFull"`
	INN      *string `json:"inn" binding:"omitempty,digits"`
	OGRN     *string `json:"ogrn" binding:"omitempty,digits"`
	Country  *string `json:"country"`
	Industry *int64  `json:"industry"`
	OrgForm  *int64  `json:"orgForm"`
	IsActive *bool   `json:"isActive"`
}

// ToEntity converts DTO to domain entity. Contractors are active unless the
// request says otherwise.
func (r *SaveContractorRequest) ToEntity() *contractor.Contractor {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &contractor.Contractor{
		ID:         r.ID,
		ParentID:   blankToNil(r.ParentID),
		Name:       r.Name,
		NameFull:   r.NameFull,
		INN:        blankToNil(r.INN),
		OGRN:       blankToNil(r.OGRN),
		CountryID:  blankToNil(r.Country),
		IndustryID: r.Industry,
		OrgFormID:  r.OrgForm,
		IsActive:   active,
	}
}

// MainBorrowerRequest is the body of PATCH /contractor/main-borrower.
type MainBorrowerRequest struct {
	ContractorID string `json:"contractorId" binding:"required"`
	HasMainDeals *bool  `json:"hasMainDeals" binding:"required"`
}

// ToUpdate converts DTO to the domain command.
func (r *MainBorrowerRequest) ToUpdate() contractor.MainBorrowerUpdate {
	return contractor.MainBorrowerUpdate{
		ContractorID: r.ContractorID,
		HasMainDeals: *r.HasMainDeals,
	}
}

// --- Response DTOs ---

// ContractorResponse is the API representation of a contractor.
type ContractorResponse struct {
	ID                 string                  `json:"id"`
	ParentID           *string                 `json:"parentId,omitempty"`
	Name               string                  `json:"name"`
	NameFull           *string                 `json:"nameFull,omitempty"`
	INN                *string                 `json:"inn,omitempty"`
	OGRN               *string                 `json:"ogrn,omitempty"`
	Country            *contractor.CountryRef  `json:"country,omitempty"`
	Industry           *contractor.IndustryRef `json:"industry,omitempty"`
	OrgForm            *contractor.OrgFormRef  `json:"orgForm,omitempty"`
	ActiveMainBorrower bool                    `json:"activeMainBorrower"`
	IsActive           bool                    `json:"isActive"`
	CreateDate         *time.Time              `json:"createDate,omitempty"`
	ModifyDate         *time.Time              `json:"modifyDate,omitempty"`
	CreateUserID       string                  `json:"createUserId,omitempty"`
	ModifyUserID       *string                 `json:"modifyUserId,omitempty"`
}

// FromContractor creates response DTO from domain entity.
func FromContractor(c *contractor.Contractor) ContractorResponse {
	resp := ContractorResponse{
		ID:                 c.ID,
		ParentID:           c.ParentID,
		Name:               c.Name,
		NameFull:           c.NameFull,
		INN:                c.INN,
		OGRN:               c.OGRN,
		Country:            c.Country,
		Industry:           c.Industry,
		OrgForm:            c.OrgForm,
		ActiveMainBorrower: c.ActiveMainBorrower,
		IsActive:           c.IsActive,
		ModifyDate:         c.ModifyDate,
		CreateUserID:       c.CreateUserID,
		ModifyUserID:       c.ModifyUserID,
	}
	if !c.CreateDate.IsZero() {
		created := c.CreateDate
		resp.CreateDate = &created
	}
	return resp
}

// FromContractors maps a result page, never returning nil.
func FromContractors(items []contractor.Contractor) []ContractorResponse {
	out := make([]ContractorResponse, 0, len(items))
	for i := range items {
		out = append(out, FromContractor(&items[i]))
	}
	return out
}
