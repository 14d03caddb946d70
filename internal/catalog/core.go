// Package catalog declares the core form definitions that ship with the service.
package catalog

import (
	"time"

	"github.com/garyjia/claim-forms/internal/domain/entity"
)

// Auto-fill source keys understood by the fill engine beyond raw job attributes
const (
	SourceCurrentDate       = "currentDate"
	SourceAssignedStaffName = "assignedStaffName"
	SourceClientName        = "clientName"
	SourceTitle             = "title"
	SourceClaimNo           = "claimNo"
)

var (
	yesNo      = []string{"Yes", "No"}
	geyserSize = []string{"150L", "200L", "250L", "300L", "Other"}
)

// LiabilityAssessmentItems are the check items offered on the liability waiver
var LiabilityAssessmentItems = []string{
	"Existing Pipes/Fittings",
	"Roof Entry",
	"Geyser Enclosure",
	"Wiring (Electrical/Alarm)",
	"Waterproofing",
	"Pipes Not Secured",
	"Increase/Decrease in Pressure",
	"Drip Tray Installation",
	"Vacuum Breaker Positioning",
	"Pressure Control Valve",
	"Non-Return Valve",
	"Safety Valve Operation",
	"Thermostat Calibration",
	"Element Condition",
	"Electrical Connections",
}

// CoreForms returns fresh copies of the core definitions stamped with now
func CoreForms(now time.Time) []*entity.FormDefinition {
	forms := []*entity.FormDefinition{
		nonCompliance(),
		materialList(),
		liability(),
		clearanceCertificate(),
		absa(),
		discovery(),
	}
	for _, f := range forms {
		f.CreatedBy = entity.SystemUser
		f.CreatedAt = now
		f.UpdatedAt = now
		if f.RestrictedToCompanies == nil {
			f.RestrictedToCompanies = []string{}
		}
	}
	return forms
}

// ValidationExempt lists core forms whose fields are all optional during filling
var ValidationExempt = map[string]bool{
	entity.FormIDNonCompliance: true,
	entity.FormIDMaterialList:  true,
	entity.FormIDLiability:     true,
}

func nonCompliance() *entity.FormDefinition {
	return &entity.FormDefinition{
		ID:          entity.FormIDNonCompliance,
		Name:        "Non Compliance Form",
		Description: "Assessment form for non-compliance issues and geyser replacement",
		PDFTemplate: "Noncompliance.pdf",
		FormType:    entity.FormTypeAssessment,
		Fields: []entity.FieldSchema{
			from(date("date", "Date"), SourceCurrentDate),
			from(text("insuranceName", "Insurance Name"), entity.JobUnderwriter),
			from(text("claimNumber", "Claim Number"), entity.JobClaimNo),
			from(text("clientName", "Client Name"), entity.JobInsuredName),
			text("clientSurname", "Client Surname"),
			from(text("installersName", "Installers Name"), SourceAssignedStaffName),
			choice("quotationSupplied", "Quotation Supplied?", yesNo...),
			choice("plumberIndemnity", "Plumber Indemnity", "Electric geyser", "Solar geyser", "Heat pump", "Pipe Repairs", "Assessment"),
			text("geyserMake", "Geyser Make"),
			text("geyserSerial", "Geyser Serial"),
			text("geyserCode", "Geyser Code"),
			check("selectedIssues", "Selected Compliance Issues"),
		},
	}
}

func materialList() *entity.FormDefinition {
	return &entity.FormDefinition{
		ID:          entity.FormIDMaterialList,
		Name:        "Material List Form",
		Description: "Comprehensive material list for geyser installation projects",
		PDFTemplate: "ML.pdf",
		FormType:    entity.FormTypeMaterials,
		Fields: []entity.FieldSchema{
			from(date("date", "Date"), SourceCurrentDate),
			from(text("plumber", "Plumber Name"), SourceAssignedStaffName),
			from(text("claimNumber", "Claim Number"), entity.JobClaimNo),
			from(text("insurance", "Insurance Company"), entity.JobUnderwriter),
			choice("geyserSize", "Geyser Size", "50L", "100L", "150L", "200L", "250L", "300L"),
			choice("geyserBrand", "Geyser Brand", "Kwikot", "Heat Tech", "Techron", "Other"),
			text("dripTraySize", "Drip Tray Size"),
			text("vacuumBreaker1", "Vacuum Breaker 1"),
			text("vacuumBreaker2", "Vacuum Breaker 2"),
			text("pressureControlValve", "Pressure Control Valve"),
			text("nonReturnValve", "Non Return Valve"),
			text("fogiPack", "Fogi Pack"),
			area("additionalMaterials", "Additional Materials"),
		},
	}
}

func liability() *entity.FormDefinition {
	excessAmount := text("excessAmount", "Excess Amount")
	excessAmount.AutoCalculate = true
	excessAmount.DependsOn = "wasExcessPaid"
	excessAmount.ShowWhen = "yes"
	excessAmount.Readonly = true

	beforeAfter := func(id, label string) []entity.FieldSchema {
		return []entity.FieldSchema{text(id+"Before", label+" Before"), text(id+"After", label+" After")}
	}

	return &entity.FormDefinition{
		ID:          entity.FormIDLiability,
		Name:        "Liability Form",
		Description: "Enhanced liability waiver form with comprehensive assessment",
		PDFTemplate: "liabWave.pdf",
		FormType:    entity.FormTypeLiability,
		Fields: concat(
			[]entity.FieldSchema{
				from(date("date", "Date"), SourceCurrentDate),
				from(text("insurance", "Insurance"), entity.JobUnderwriter),
				from(text("claimNumber", "Claim Number"), entity.JobClaimNo),
				from(text("client", "Client"), entity.JobInsuredName),
				from(text("plumber", "Plumber"), SourceAssignedStaffName),
				choice("wasExcessPaid", "Was Excess Paid?", "yes", "no"),
				excessAmount,
				check("selectedAssessmentItems", "Assessment Items", LiabilityAssessmentItems...),
			},
			beforeAfter("waterHammer", "Water Hammer"),
			beforeAfter("pressureTest", "Pressure Test"),
			beforeAfter("thermostatSetting", "Thermostat Setting"),
			beforeAfter("externalIsolator", "External Isolator"),
			beforeAfter("numberOfGeysers", "Number of Geysers"),
			beforeAfter("balancedSystem", "Balanced System"),
			beforeAfter("nonReturnValve", "Non Return Valve"),
			[]entity.FieldSchema{
				choice("pipeInstallation", "Pipe Installation Quality", "excellent", "good", "acceptable", "poor", "not-applicable"),
				choice("pipeInsulation", "Pipe Insulation", "adequate", "inadequate", "missing", "not-required"),
				choice("pressureRegulation", "Pressure Regulation", "within-limits", "too-high", "too-low", "not-tested"),
				choice("temperatureControl", "Temperature Control", "functioning", "erratic", "not-functioning", "needs-adjustment"),
				choice("safetyCompliance", "Safety Compliance", "compliant", "minor-issues", "major-issues", "non-compliant"),
				choice("workmanshipQuality", "Workmanship Quality", rating(false)...),
				choice("materialStandards", "Material Standards", "sabs-approved", "iso-certified", "non-standard", "unknown"),
				choice("installationCertificate", "Installation Certificate", "issued", "pending", "not-required", "rejected"),
				area("additionalComments", "Additional Comments"),
			},
		),
	}
}

func clearanceCertificate() *entity.FormDefinition {
	amount := text("amount", "Excess Amount")
	amount.AutoCalculate = true
	amount.Readonly = true

	quality := make([]entity.FieldSchema, 0, 6)
	for _, id := range []string{"cquality1", "cquality2", "cquality3", "cquality4", "cquality5"} {
		quality = append(quality, choice(id, "Quality Check "+id[len(id)-1:], yesNo...))
	}
	quality = append(quality, choice("cquality6", "Workmanship Rating", rating(true)...))

	return &entity.FormDefinition{
		ID:          entity.FormIDClearanceCertificate,
		Name:        "Clearance Certificate Form",
		Description: "BBP clearance certificate for geyser installations",
		PDFTemplate: "BBPClearanceCertificate.pdf",
		FormType:    entity.FormTypeCertificate,
		Fields: concat(
			section(entity.SectionStaff,
				from(text("cname", "Client Name"), entity.JobInsuredName),
				from(text("cref", "Claim Reference"), entity.JobClaimNo),
				from(text("caddress", "Client Address"), entity.JobRiskAddress),
				text("cdamage", "Cause of Damage"),
				area("gcomments", "General Comments"),
				area("scopework", "Scope of Work"),
				choice("oldgeyser", "Old Geyser", geyserSize...),
				choice("newgeyser", "New Geyser", geyserSize...),
				from(text("staff", "Staff Member"), SourceAssignedStaffName),
			),
			section(entity.SectionClient, quality...),
			section(entity.SectionClient,
				choice("excess", "Excess Paid", yesNo...),
				amount,
			),
		),
	}
}

func absa() *entity.FormDefinition {
	total := required(text("totalEstimate", "Total Estimate"))
	total.AutoCalculate = true
	total.SumOf = []string{"materialCost", "labourCost"}
	total.Readonly = true

	return &entity.FormDefinition{
		ID:          entity.FormIDABSA,
		Name:        "ABSA Form",
		Description: "ABSA home insurance assessment and authorisation form",
		PDFTemplate: "ABSA.pdf",
		FormType:    entity.FormTypeAssessment,
		Fields: concat(
			section(entity.SectionStaff,
				from(date("date", "Date"), SourceCurrentDate),
				from(text("insurance", "Insurance Company"), entity.JobUnderwriter),
				from(text("claimNumber", "Claim Number"), entity.JobClaimNo),
				from(text("client", "Client Name"), entity.JobInsuredName),
				from(text("plumber", "Technician/Plumber"), SourceAssignedStaffName),
				from(area("address", "Property Address"), entity.JobRiskAddress),
				from(text("absaAccountNumber", "ABSA Account Number"), entity.JobPolicyNo),
				text("branchCode", "Branch Code"),
				def(choice("productType", "Product Type", "Home Insurance", "Building Insurance", "Contents Insurance", "Comprehensive"), "Home Insurance"),
				def(choice("riskCategory", "Risk Category", "Low", "Standard", "High", "Special"), "Standard"),
				from(required(area("damageDescription", "Damage Description")), entity.JobDescription),
				required(area("causeOfDamage", "Cause of Damage")),
				from(date("assessmentDate", "Assessment Date"), SourceCurrentDate),
				def(choice("urgencyLevel", "Urgency Level", "Low", "Medium", "High", "Emergency"), "Medium"),
				number("materialCost", "Material Cost"),
				number("labourCost", "Labour Cost"),
				total,
				from(text("excessAmount", "Excess Amount"), entity.JobExcess),
				check("preExistingConditions", "Pre-existing conditions noted"),
				check("properMaintenance", "Proper maintenance evident"),
				check("standardsCompliance", "Standards compliance verified"),
				check("safetyRequirements", "Safety requirements met"),
			),
			section(entity.SectionClient,
				def(choice("workAuthorized", "Work Authorization Status", "Authorized", "Pending", "Declined", "Conditional"), "Pending"),
				text("authorizedBy", "Authorized By"),
				date("authorizationDate", "Authorization Date"),
				area("limitationNotes", "Limitations/Notes"),
				check("workCompleted", "Work completed satisfactorily"),
				check("qualityVerified", "Quality verified and tested"),
				choice("clientSatisfaction", "Client Satisfaction", "Very Satisfied", "Satisfied", "Neutral", "Dissatisfied"),
				check("followUpRequired", "Follow-up required"),
				area("additionalRemarks", "Additional Remarks"),
			),
		),
	}
}

func discovery() *entity.FormDefinition {
	return &entity.FormDefinition{
		ID:          entity.FormIDDiscovery,
		Name:        "Discovery Form",
		Description: "Discovery insurance incident investigation and scope of work",
		PDFTemplate: "Discovery.pdf",
		FormType:    entity.FormTypeReport,
		Fields: concat(
			section(entity.SectionStaff,
				from(date("date", "Date"), SourceCurrentDate),
				from(text("insurance", "Insurance Company"), entity.JobUnderwriter),
				from(text("claimNumber", "Claim Number"), entity.JobClaimNo),
				from(text("client", "Client Name"), entity.JobInsuredName),
				from(text("plumber", "Technician/Plumber"), SourceAssignedStaffName),
				from(area("address", "Property Address"), entity.JobRiskAddress),
				from(text("discoveryMemberNumber", "Discovery Member Number"), entity.JobPolicyNo),
				def(choice("membershipType", "Membership Type", "Core", "Classic", "Comprehensive", "Elite"), "Core"),
				def(choice("discoveryVitality", "Vitality Status", "Active", "Inactive", "Suspended"), "Active"),
				def(choice("claimType", "Claim Type", "Property Damage", "Water Damage", "Plumbing Issues", "Electrical", "Other"), "Property Damage"),
				from(date("incidentDate", "Incident Date"), entity.JobIncidentDate),
				from(date("discoveryDate", "Discovery Date"), SourceCurrentDate),
				def(required(choice("investigationMethod", "Investigation Method", "On-site Inspection", "Remote Assessment", "Video Call", "Document Review", "Combined Approach")), "On-site Inspection"),
				area("evidenceCollected", "Evidence Collected"),
				required(area("rootCause", "Root Cause Analysis")),
				area("contributingFactors", "Contributing Factors"),
				def(choice("preventabilityAssessment", "Preventability", "Preventable", "Partially Preventable", "Unpreventable", "Under Investigation"), "Unpreventable"),
				def(choice("riskRating", "Risk Rating", "Low", "Medium", "High", "Critical"), "Medium"),
				from(required(area("workScope", "Scope of Work")), entity.JobDescription),
				area("materialsRequired", "Materials Required"),
				text("timeEstimate", "Time Estimate"),
				area("costBreakdown", "Cost Breakdown"),
			),
			section(entity.SectionClient,
				def(choice("clientConsultation", "Client Consultation", "Conducted", "Pending", "Not Required", "Scheduled"), "Conducted"),
				check("expectationsManaged", "Client expectations managed"),
				area("communicationNotes", "Communication Notes"),
				area("deliverables", "Deliverables"),
				area("acceptanceCriteria", "Acceptance Criteria"),
				def(choice("warrantyCoverage", "Warranty Coverage", "Standard", "Extended", "Limited", "None"), "Standard"),
				area("maintenanceRecommendations", "Maintenance Recommendations"),
				area("additionalObservations", "Additional Observations"),
			),
		),
	}
}
