package entity

// Form type classification tags
const (
	FormTypeAssessment  = "assessment"
	FormTypeMaterials   = "materials"
	FormTypeLiability   = "liability"
	FormTypeCertificate = "certificate"
	FormTypeQuotation   = "quotation"
	FormTypeReport      = "report"
)

// Core form ids
const (
	FormIDNonCompliance        = "noncompliance-form"
	FormIDMaterialList         = "material-list-form"
	FormIDLiability            = "liability-form"
	FormIDClearanceCertificate = "clearance-certificate-form"
	FormIDABSA                 = "absa-form"
	FormIDDiscovery            = "discovery-form"
	FormIDSAHLCertificate      = "sahl-certificate-form"
)

// SystemUser is recorded as the creator of statically declared forms
const SystemUser = "system"
