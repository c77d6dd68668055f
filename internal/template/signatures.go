package template

// BuiltinSignatures returns the known layout signatures. Feature names refer to
// fields of the standard template.
func BuiltinSignatures() []VersionSignature {
	return []VersionSignature{
		{
			ID:         V2TemplateID,
			Body:       Compile(`(?is)RENTER INFORMATION.*VEHICLE INFORMATION`),
			Weight:     1.0,
			Features:   []string{"raNumber", "carVIN", "pickupDate"},
			TemplateID: V2TemplateID,
		},
		{
			ID:         StandardTemplateID,
			Body:       Compile(`(?i)RENTAL AGREEMENT`),
			Weight:     0.8,
			Features:   []string{"raNumber", "customerName", "pickupDate", "returnDate"},
			TemplateID: StandardTemplateID,
		},
		{
			ID:         LegacyTemplateID,
			Body:       Compile(`(?i)RENTAL CONTRACT`),
			Weight:     0.6,
			Features:   []string{"customerName", "carVIN"},
			TemplateID: LegacyTemplateID,
		},
	}
}
