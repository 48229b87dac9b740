package industry

// MedicalAesthetics builds the medical aesthetics vertical: clinics,
// distributors and training providers around injectable treatments.
func MedicalAesthetics() Policy {
	return &policy{
		name: "Medical Aesthetics",
		keywords: []string{
			"botox", "dermal fillers", "hyaluronic acid",
			"restylane", "juvederm", "profhilo", "gouri",
			"aesthetic medicine", "cosmetic treatments", "anti aging",
			"facial aesthetics", "injectable treatments",
			"aesthetic clinic", "cosmetic surgery", "beauty clinic",
			"medical spa", "dermatology clinic", "plastic surgery",
		},
		searchTerms: []string{
			"medical supplies", "healthcare equipment", "surgical instruments",
			"aesthetic supplies", "dermal fillers", "botox supplies",
			"medical aesthetics", "cosmetic surgery supplies", "beauty clinic equipment",
			"injection supplies", "hyaluronic acid", "aesthetic training",
		},
		indicators: []string{
			"aesthetic", "beauty", "cosmetic", "dermal", "botox",
			"filler", "clinic", "medical spa", "anti aging",
			"skin care", "facial", "injection", "treatment",
			"restylane", "juvederm", "sculptra", "radiesse",
			"belotero", "teosyal", "profhilo", "gouri",
			"distributor", "supplier", "training", "equipment",
		},
		negatives: []string{
			"hospital", "university", "school", "government",
			"insurance", "pharmacy chain", "drugstore",
		},
		queryClause: "(clinic OR aesthetic OR beauty OR medical OR supplies OR distributor)",
		emailProfile: EmailContext{
			Industry:         "medical aesthetics",
			Products:         []string{"dermal fillers", "botox", "hyaluronic acid"},
			Services:         []string{"distribution", "training", "technical support"},
			TargetAudience:   "aesthetic clinics and medical professionals",
			ValueProposition: "premium products with medical certification",
			Tone:             "professional but approachable",
		},
	}
}
