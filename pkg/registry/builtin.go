package registry

import (
	"fmt"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/types"
)

// Built-in standard names.
const (
	StandardFDA21CFR820 = "FDA_21_CFR_820"
	StandardFDA21CFR11  = "FDA_21_CFR_11"
	StandardISO13485    = "ISO_13485"
	StandardIEC62304    = "IEC_62304"
	StandardGDPR        = "GDPR"
	StandardHIPAA       = "HIPAA"
	StandardIEC60601    = "IEC_60601"
	StandardIEC62366    = "IEC_62366"
)

// builtinStandard describes one standard seeded into a built-in registry.
type builtinStandard struct {
	name    string
	clauses []types.Clause
}

// builtinStandards defines the standards available without any custom
// registration. Patterns are keyword substrings; expressions augment them
// with regular expressions for citation forms like "21 CFR 820".
var builtinStandards = []builtinStandard{
	{
		name: StandardFDA21CFR820,
		clauses: []types.Clause{
			{
				ID:          "design_controls",
				Citation:    "820.30(a)",
				Description: "Design control procedures for medical device development",
				Patterns:    []string{"design control", "design input", "design output", "design verification", "design validation"},
				Expressions: []string{`21\s*CFR\s*820`, `quality\s*system\s*regulation`},
				Evidence:    []string{"design input", "design output", "verification", "validation"},
			},
			{
				ID:          "risk_management",
				Citation:    "820.30(g)",
				Description: "Risk analysis as part of design validation",
				Patterns:    []string{"risk", "hazard", "patient safety"},
				Evidence:    []string{"risk assessment", "hazard analysis"},
			},
			{
				ID:          "corrective_action",
				Citation:    "820.100",
				Description: "Corrective and preventive action procedures",
				Patterns:    []string{"corrective action", "preventive action", "capa"},
				Evidence:    []string{"corrective action", "preventive action"},
			},
		},
	},
	{
		name: StandardFDA21CFR11,
		clauses: []types.Clause{
			{
				ID:          "electronic_records",
				Citation:    "11.10(a)",
				Description: "Validation and integrity controls for electronic records",
				Patterns:    []string{"electronic record", "record integrity", "audit trail"},
				Expressions: []string{`21\s*CFR\s*11`},
				Evidence:    []string{"audit trail", "record integrity"},
			},
			{
				ID:          "electronic_signatures",
				Citation:    "11.50",
				Description: "Signed electronic records and signature manifestations",
				Patterns:    []string{"electronic signature", "digital signature", "authentication"},
				Evidence:    []string{"signature", "authentication"},
			},
		},
	},
	{
		name: StandardISO13485,
		clauses: []types.Clause{
			{
				ID:          "design_development",
				Citation:    "7.3",
				Description: "Design and development planning, inputs, outputs, and review",
				Patterns:    []string{"design and development", "development planning", "design review"},
				Expressions: []string{`ISO\s*13485`},
				Evidence:    []string{"design plan", "design review"},
			},
			{
				ID:          "quality_management",
				Citation:    "4.1",
				Description: "Quality management system general requirements",
				Patterns:    []string{"quality management", "quality system", "medical device"},
				Evidence:    []string{"quality record"},
			},
			{
				ID:          "risk_management",
				Citation:    "7.1",
				Description: "Risk management in product realization",
				Patterns:    []string{"risk management", "risk analysis"},
				Evidence:    []string{"risk management file"},
			},
		},
	},
	{
		name: StandardIEC62304,
		clauses: []types.Clause{
			{
				ID:          "software_lifecycle",
				Citation:    "5.1",
				Description: "Software development life cycle processes",
				Patterns:    []string{"software life cycle", "software development plan", "medical device software"},
				Expressions: []string{`IEC\s*62304`},
				Evidence:    []string{"software development plan", "life cycle"},
			},
			{
				ID:          "safety_classification",
				Citation:    "4.3",
				Description: "Software safety classification",
				Patterns:    []string{"safety classification", "software safety", "software risk"},
				Evidence:    []string{"safety class", "risk analysis"},
			},
		},
	},
	{
		name: StandardGDPR,
		clauses: []types.Clause{
			{
				ID:          "consent",
				Citation:    "Article 7",
				Description: "Conditions for consent to personal data processing",
				Patterns:    []string{"consent", "data subject"},
				Evidence:    []string{"consent"},
			},
			{
				ID:          "data_protection_by_design",
				Citation:    "Article 25",
				Description: "Data protection by design and by default",
				Patterns:    []string{"privacy by design", "data protection", "personal data"},
				Expressions: []string{`GDPR`, `general\s*data\s*protection\s*regulation`},
				Evidence:    []string{"privacy", "data protection"},
			},
			{
				ID:          "security_of_processing",
				Citation:    "Article 32",
				Description: "Security of personal data processing",
				Patterns:    []string{"encryption", "pseudonymization", "access control"},
				Evidence:    []string{"encryption", "access control"},
			},
		},
	},
	{
		name: StandardHIPAA,
		clauses: []types.Clause{
			{
				ID:          "privacy_rule",
				Citation:    "164.502",
				Description: "Uses and disclosures of protected health information",
				Patterns:    []string{"protected health information", "phi", "patient information", "medical record"},
				Expressions: []string{`HIPAA`, `health\s*insurance\s*portability`},
				Evidence:    []string{"phi", "privacy"},
			},
			{
				ID:          "security_rule",
				Citation:    "164.312",
				Description: "Technical safeguards for electronic health information",
				Patterns:    []string{"access control", "audit log", "healthcare data", "transmission security"},
				Evidence:    []string{"access control", "audit log"},
			},
		},
	},
	{
		name: StandardIEC60601,
		clauses: []types.Clause{
			{
				ID:          "basic_safety",
				Citation:    "4.1",
				Description: "Basic safety and essential performance of medical electrical equipment",
				Patterns:    []string{"medical electrical", "basic safety", "essential performance", "medical equipment"},
				Expressions: []string{`IEC\s*60601`},
				Evidence:    []string{"safety test"},
			},
		},
	},
	{
		name: StandardIEC62366,
		clauses: []types.Clause{
			{
				ID:          "usability_engineering",
				Citation:    "5.1",
				Description: "Usability engineering process for medical devices",
				Patterns:    []string{"usability", "human factors", "user interface", "use error"},
				Expressions: []string{`IEC\s*62366`},
				Evidence:    []string{"usability test", "use error"},
			},
		},
	},
}

// Builtin returns a registry seeded with the built-in standards. Callers add
// custom standards on top via RegisterStandard.
func Builtin() (*Registry, error) {
	r := NewRegistry()
	for _, std := range builtinStandards {
		if err := r.RegisterStandard(std.name, std.clauses, false); err != nil {
			return nil, fmt.Errorf("seeding built-in standard %s: %w", std.name, err)
		}
	}
	return r, nil
}
