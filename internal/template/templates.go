package template

import "claimscan/internal/transform"

// Builtin template ids.
const (
	StandardTemplateID = "standard"
	V2TemplateID       = "rental_agreement_v2"
	LegacyTemplateID   = "legacy_contract"
)

// Shared capture fragments.
const (
	personName    = `([A-Za-z][A-Za-z.,'\- ]*[A-Za-z.])`
	dateValue     = `(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2}|[A-Za-z]{3,9}\.? \d{1,2}, \d{4})`
	yesNoValue    = `(ACCEPTED|DECLINED|YES|NO|Y|N)\b`
	vinValue      = `([A-HJ-NPR-Z0-9]{17})`
	looseVINValue = `([A-Z0-9][A-Z0-9\-]{10,19})`
)

var defaultRegistry = mustNewRegistry(transform.Default(), BuiltinTemplates(), BuiltinSignatures(), StandardTemplateID)

// Default returns the registry of builtin templates.
func Default() *Registry {
	return defaultRegistry
}

func mustNewRegistry(lib *transform.Library, defs []TemplateDefinition, sigs []VersionSignature, baseID string) *Registry {
	r, err := NewRegistry(lib, defs, sigs, baseID)
	if err != nil {
		panic(err)
	}
	return r
}

// BuiltinTemplates returns fresh copies of the builtin template definitions.
func BuiltinTemplates() []TemplateDefinition {
	return []TemplateDefinition{standardTemplate(), v2Template(), legacyTemplate()}
}

func standardTemplate() TemplateDefinition {
	return TemplateDefinition{
		ID:          StandardTemplateID,
		Name:        "Standard Rental Agreement",
		Description: "Generic vehicle rental agreement with renter, vehicle, period and coverage sections",
		Version:     "1.0",
		Fields: []FieldDefinition{
			{
				Name:        "raNumber",
				DisplayName: "Rental Agreement Number",
				Description: "Agreement number printed in the document header",
				Required:    true,
				Patterns: Patterns(
					`(?i)RENTAL AGREEMENT NUMBER\s*[:#]?\s*(\d{6,10})`,
					`(?i)RENTAL AGREEMENT\s*(?:NO\.?|#)\s*:?\s*(\d{6,10})`,
					`(?i)\bRA\s*(?:NO\.?|#|NUMBER)\s*:?\s*(\d{6,10})`,
				),
				Transformations: []string{"trim"},
				Validations:     []string{"isNotEmpty", "isNumeric"},
			},
			{
				Name:        "customerName",
				DisplayName: "Renter Name",
				Description: "Primary renter as printed on the agreement",
				Required:    true,
				Patterns: Patterns(
					`(?im)RENTER NAME[ \t]*:?[ \t]*`+personName+`[ \t]*$`,
					`(?im)CUSTOMER(?: NAME)?[ \t]*:[ \t]*`+personName+`[ \t]*$`,
					`(?im)^NAME[ \t]*:[ \t]*`+personName+`[ \t]*$`,
				),
				Transformations: []string{"normalizeWhitespace", "toTitleCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "customerPhone",
				DisplayName: "Phone",
				Description: "Renter contact number",
				Patterns: Patterns(
					`(?i)(?:HOME|CELL|MOBILE|CONTACT)?[ \t]*PHONE(?:[ \t]*(?:NO\.?|NUMBER|#))?[ \t]*:?[ \t]*(\+?[\d(][\d \t().\-]{8,}\d)`,
					`(?i)\bTEL(?:EPHONE)?\.?[ \t]*:?[ \t]*(\+?[\d(][\d \t().\-]{8,}\d)`,
				),
				Transformations: []string{"formatPhone"},
				Validations:     []string{"isValidPhone"},
			},
			{
				Name:        "customerEmail",
				DisplayName: "Email",
				Description: "Renter email address",
				Patterns: Patterns(
					`(?i)E-?MAIL(?:[ \t]*ADDRESS)?[ \t]*:?[ \t]*([^\s@]+@[^\s@]+\.[A-Za-z]{2,})`,
					`([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`,
				),
				Transformations: []string{"trim", "toLowerCase"},
				Validations:     []string{"isValidEmail"},
			},
			{
				Name:        "customerAddress",
				DisplayName: "Address",
				Description: "Renter home address",
				Patterns: Patterns(
					`(?im)^(?:HOME )?ADDRESS[ \t]*:?[ \t]*(.+)$`,
				),
				Transformations: []string{"normalizeWhitespace"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "driverLicense",
				DisplayName: "Driver License",
				Description: "Renter driver license number",
				Patterns: Patterns(
					`(?i)DRIVER'?S?[ \t]+LICEN[CS]E(?:[ \t]*(?:NO\.?|#|NUMBER))?[ \t]*:?[ \t]*([A-Z0-9\-]{5,20})`,
					`(?i)\bDL[ \t]*(?:NO\.?|#)?[ \t]*:?[ \t]*([A-Z0-9\-]{5,20})`,
				),
				Transformations: []string{"toUpperCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "carVIN",
				DisplayName: "Vehicle Identification Number",
				Description: "17-character VIN of the rented vehicle",
				Patterns: Patterns(
					`(?i)\bVIN\b[ \t]*(?:NO\.?|#|NUMBER)?[ \t]*:?[ \t]*`+vinValue,
					`(?i)\bVIN\b[ \t]*(?:NO\.?|#|NUMBER)?[ \t]*:?[ \t]*`+looseVINValue,
				),
				Transformations: []string{"normalizeVIN"},
				Validations:     []string{"isValidVIN"},
			},
			{
				Name:        "carMake",
				DisplayName: "Make",
				Description: "Vehicle manufacturer",
				Patterns: Patterns(
					`(?i)\bMAKE[ \t]*:?[ \t]*([A-Za-z][A-Za-z\-]+)`,
				),
				Transformations: []string{"toTitleCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "carModel",
				DisplayName: "Model",
				Description: "Vehicle model",
				Patterns: Patterns(
					`(?i)\bMODEL[ \t]*:?[ \t]*([A-Za-z0-9][A-Za-z0-9\-]*)`,
				),
				Transformations: []string{"toUpperCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "carYear",
				DisplayName: "Year",
				Description: "Vehicle model year",
				Patterns: Patterns(
					`(?i)\bYEAR[ \t]*:?[ \t]*((?:19|20)\d{2})\b`,
				),
				Transformations: []string{"parseNumber"},
				Validations:     []string{"isNumeric"},
			},
			{
				Name:        "licensePlate",
				DisplayName: "License Plate",
				Description: "Vehicle registration plate",
				Patterns: Patterns(
					`(?i)LICENSE[ \t]+PLATE(?:[ \t]*(?:NO\.?|#))?[ \t]*:?[ \t]*([A-Z0-9][A-Z0-9\-]{1,9})`,
					`(?i)\b(?:PLATE|TAG)[ \t]*(?:NO\.?|#)?[ \t]*:?[ \t]*([A-Z0-9][A-Z0-9\-]{1,9})`,
				),
				Transformations: []string{"toUpperCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "pickupDate",
				DisplayName: "Pickup Date",
				Description: "Date the vehicle left the rental location",
				Required:    true,
				Patterns: Patterns(
					`(?i)PICK[ \t]*-?UP(?:[ \t]+DATE)?[ \t]*:?[ \t]*`+dateValue,
					`(?i)(?:DATE[ \t]+OUT|CHECK[ \t-]*OUT)(?:[ \t]+DATE)?[ \t]*:?[ \t]*`+dateValue,
				),
				Transformations: []string{"formatDate"},
				Validations:     []string{"isValidDate"},
			},
			{
				Name:        "returnDate",
				DisplayName: "Return Date",
				Description: "Date the vehicle was or is due to be returned",
				Patterns: Patterns(
					`(?i)RETURN(?:[ \t]+DATE)?[ \t]*:?[ \t]*`+dateValue,
					`(?i)(?:DATE[ \t]+IN|CHECK[ \t-]*IN|DUE[ \t]+BACK)(?:[ \t]+DATE)?[ \t]*:?[ \t]*`+dateValue,
				),
				Transformations: []string{"formatDate"},
				Validations:     []string{"isValidDate"},
			},
			{
				Name:        "pickupLocation",
				DisplayName: "Pickup Location",
				Description: "Branch where the rental started",
				Patterns: Patterns(
					`(?im)(?:PICK[ \t]*-?UP|RENTAL)[ \t]+LOCATION[ \t]*:?[ \t]*(.+)$`,
				),
				Transformations: []string{"normalizeWhitespace"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "damageWaiver",
				DisplayName: "Damage Waiver",
				Description: "Whether LDW/CDW coverage was accepted",
				Patterns: Patterns(
					`(?i)(?:LDW|CDW|LOSS DAMAGE WAIVER|COLLISION DAMAGE WAIVER)[^\n:]*:[ \t]*`+yesNoValue,
				),
				Transformations: []string{"parseBoolean"},
			},
			{
				Name:        "supplementalLiability",
				DisplayName: "Supplemental Liability",
				Description: "Whether SLI/LIS coverage was accepted",
				Patterns: Patterns(
					`(?i)(?:\bSLI\b|\bLIS\b|SUPPLEMENTAL LIABILITY)[^\n:]*:[ \t]*`+yesNoValue,
				),
				Transformations: []string{"parseBoolean"},
			},
			{
				Name:        "personalAccident",
				DisplayName: "Personal Accident Insurance",
				Description: "Whether PAI coverage was accepted",
				Patterns: Patterns(
					`(?i)(?:\bPAI\b|PERSONAL ACCIDENT)[^\n:]*:[ \t]*`+yesNoValue,
				),
				Transformations: []string{"parseBoolean"},
			},
		},
	}
}

func v2Template() TemplateDefinition {
	return TemplateDefinition{
		ID:          V2TemplateID,
		Name:        "Rental Agreement v2",
		Description: "Sectioned layout with RA # header, vehicle information block and claim reference",
		Version:     "2.0",
		ParentID:    StandardTemplateID,
		Fields: []FieldDefinition{
			{
				Name:        "raNumber",
				DisplayName: "RA Number",
				Description: "Agreement number from the RA # header",
				Required:    true,
				Patterns: Patterns(
					`(?i)\bRA\s*#\s*:?\s*([A-Z]{0,2}\d{6,10})`,
					`(?i)RENTAL AGREEMENT NUMBER\s*[:#]?\s*(\d{6,10})`,
				),
				Transformations: []string{"trim", "toUpperCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "carVIN",
				DisplayName: "Vehicle Identification Number",
				Description: "17-character VIN from the vehicle information block",
				Patterns: Patterns(
					`(?i)VEHICLE[ \t]+ID(?:ENTIFICATION)?(?:[ \t]+(?:NUMBER|NO\.?))?[ \t]*:?[ \t]*`+vinValue,
					`(?i)\bVIN\b[ \t]*(?:NO\.?|#|NUMBER)?[ \t]*:?[ \t]*`+vinValue,
					`(?i)\bVIN\b[ \t]*(?:NO\.?|#|NUMBER)?[ \t]*:?[ \t]*`+looseVINValue,
				),
				Transformations: []string{"normalizeVIN"},
				Validations:     []string{"isValidVIN"},
			},
			{
				Name:        "claimNumber",
				DisplayName: "Claim Number",
				Description: "Damage claim reference printed on the agreement",
				Patterns: Patterns(
					`(?i)CLAIM[ \t]*(?:NUMBER|NO\.?|#)[ \t]*:?[ \t]*([A-Z0-9][A-Z0-9\-]{3,19})`,
				),
				Transformations: []string{"toUpperCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "odometerOut",
				DisplayName: "Odometer Out",
				Description: "Odometer reading at pickup",
				Patterns: Patterns(
					`(?i)(?:MILEAGE|ODOMETER|KM)[ \t]*OUT[ \t]*:?[ \t]*(\d[\d,]{0,8})`,
				),
				Transformations: []string{"parseNumber"},
				Validations:     []string{"isNumeric"},
			},
		},
	}
}

func legacyTemplate() TemplateDefinition {
	return TemplateDefinition{
		ID:          LegacyTemplateID,
		Name:        "Legacy Rental Contract",
		Description: "Older contract-number layout with a reduced field set",
		Version:     "1.0",
		Fields: []FieldDefinition{
			{
				Name:        "contractNumber",
				DisplayName: "Contract Number",
				Description: "Contract number printed in the header",
				Required:    true,
				Patterns: Patterns(
					`(?i)CONTRACT[ \t]*(?:NO\.?|NUMBER|#)[ \t]*:?[ \t]*(\d{5,10})`,
				),
				Transformations: []string{"trim"},
				Validations:     []string{"isNotEmpty", "isNumeric"},
			},
			{
				Name:        "customerName",
				DisplayName: "Name",
				Description: "Renter name",
				Required:    true,
				Patterns: Patterns(
					`(?im)^NAME[ \t]*:[ \t]*`+personName+`[ \t]*$`,
				),
				Transformations: []string{"normalizeWhitespace", "toTitleCase"},
				Validations:     []string{"isNotEmpty"},
			},
			{
				Name:        "carVIN",
				DisplayName: "VIN",
				Description: "Vehicle identification number",
				Patterns: Patterns(
					`(?i)\bVIN\b[ \t]*:?[ \t]*`+looseVINValue,
				),
				Transformations: []string{"normalizeVIN"},
				Validations:     []string{"isValidVIN"},
			},
			{
				Name:        "pickupDate",
				DisplayName: "Date Out",
				Description: "Date the vehicle left the lot",
				Patterns: Patterns(
					`(?i)DATE[ \t]+OUT[ \t]*:?[ \t]*` + dateValue,
				),
				Transformations: []string{"formatDate"},
				Validations:     []string{"isValidDate"},
			},
			{
				Name:        "returnDate",
				DisplayName: "Date In",
				Description: "Date the vehicle came back",
				Patterns: Patterns(
					`(?i)DATE[ \t]+IN[ \t]*:?[ \t]*` + dateValue,
				),
				Transformations: []string{"formatDate"},
				Validations:     []string{"isValidDate"},
			},
		},
	}
}
