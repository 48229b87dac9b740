package industry

// RealEstate builds the real estate vertical: agencies, property
// managers and developers.
func RealEstate() Policy {
	return &policy{
		name: "Real Estate",
		keywords: []string{
			"real estate agency", "property management", "estate agent",
			"realtor", "property developer", "luxury real estate",
			"commercial real estate", "residential properties",
			"property investment", "real estate broker",
		},
		searchTerms: []string{
			"real estate services", "property listings", "estate agencies",
			"property valuation", "rental management", "new developments",
			"commercial property", "real estate consulting",
		},
		indicators: []string{
			"real estate", "property", "realty", "realtor", "estate agent",
			"homes", "apartments", "broker", "listings", "development",
			"residential", "commercial", "rentals", "inmobiliaria", "villa",
		},
		negatives: []string{
			"government", "council", "university", "school",
			"bank", "insurance", "mortgage lender",
		},
		queryClause: "(agency OR property OR realty OR broker OR developer)",
		emailProfile: EmailContext{
			Industry:         "real estate",
			Products:         []string{"property listings", "market analytics", "lead capture tools"},
			Services:         []string{"marketing", "lead generation", "consulting"},
			TargetAudience:   "real estate agencies and independent brokers",
			ValueProposition: "qualified buyer leads and market visibility",
			Tone:             "confident and consultative",
		},
	}
}
