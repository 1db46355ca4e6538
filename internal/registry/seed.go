package registry

import (
	id "provenio/pkg/domain"
)

// Model names owning canonical attributes.
const (
	ModelLegalEntity       = "LegalEntity"
	ModelComplianceProfile = "ComplianceProfile"
)

// Well-known group ids.
const (
	GroupRegisteredAddress id.GroupID = "registered_address"
	GroupIncorporation     id.GroupID = "incorporation"
)

// Seed returns the production field catalog. Field numbers are stable
// identifiers shared with questionnaire mappings and must never be reused.
func Seed() (*Registry, error) {
	defs := []FieldDefinition{
		{FieldNo: 1, Model: ModelLegalEntity, Field: "lei", FieldName: "LEI"},
		{FieldNo: 2, Model: ModelLegalEntity, Field: "jurisdiction", FieldName: "Jurisdiction of Incorporation"},
		{FieldNo: 3, Model: ModelLegalEntity, Field: "legalName", FieldName: "Legal Name"},
		{FieldNo: 4, Model: ModelLegalEntity, Field: "entityStatus", FieldName: "Entity Status"},
		{FieldNo: 5, Model: ModelLegalEntity, Field: "registrationNumber", FieldName: "Registration Number"},
		{FieldNo: 6, Model: ModelLegalEntity, Field: "incorporationDate", FieldName: "Date of Incorporation"},
		{FieldNo: 7, Model: ModelLegalEntity, Field: "legalForm", FieldName: "Legal Form"},

		{FieldNo: 10, Model: ModelLegalEntity, Field: "addressLine1", FieldName: "Registered Address Line 1"},
		{FieldNo: 11, Model: ModelLegalEntity, Field: "addressCity", FieldName: "Registered Address City"},
		{FieldNo: 12, Model: ModelLegalEntity, Field: "addressPostalCode", FieldName: "Registered Address Postal Code"},
		{FieldNo: 13, Model: ModelLegalEntity, Field: "addressCountry", FieldName: "Registered Address Country"},

		{FieldNo: 20, Model: ModelLegalEntity, Field: "sicCode", FieldName: "SIC Code"},
		// 21 is reserved for the composite industry classification; it has
		// no direct attribute today.
		{FieldNo: 21, Model: ModelLegalEntity, FieldName: "Industry Classification", Notes: "composite; no direct attribute"},

		{FieldNo: 69, Model: ModelComplianceProfile, Field: "legalName", FieldName: "Legal Name (as reported)"},
		{FieldNo: 70, Model: ModelComplianceProfile, Field: "taxResidency", FieldName: "Tax Residency"},
		{FieldNo: 71, Model: ModelComplianceProfile, Field: "regulatoryStatus", FieldName: "Regulatory Status"},
		{FieldNo: 72, Model: ModelComplianceProfile, Field: "fatcaClassification", FieldName: "FATCA Classification"},
	}

	groups := []FieldGroup{
		{GroupID: GroupRegisteredAddress, Label: "Registered Address", FieldNos: []id.FieldNo{10, 11, 12, 13}},
		{GroupID: GroupIncorporation, Label: "Incorporation Details", FieldNos: []id.FieldNo{5, 6, 2}},
	}

	return New(defs, groups)
}
