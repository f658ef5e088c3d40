package catalog

import "github.com/edudubai/platform/backend/internal/domain/model"

// SeedCourses is the production catalog. Prices are list prices in USD;
// the payment provider's order remains authoritative for charged amounts.
func SeedCourses() []model.Course {
	return []model.Course{
		{
			ID:            "aml-specialist",
			Slug:          "anti-money-laundering-specialist",
			Title:         "Anti-Money Laundering Specialist",
			Description:   "AML/CTF training covering risk-based frameworks, transaction monitoring, investigations, and regulatory compliance.",
			Category:      model.CategoryAMLCFT,
			DeliveryModes: []model.DeliveryMode{model.DeliveryLiveVirtual, model.DeliveryInPerson, model.DeliverySelfPaced},
			Level:         "INTERMEDIATE",
			DurationHours: 40,
			PriceUsd:      650,
			Currency:      "USD",
			Featured:      true,
		},
		{
			ID:            "fatca-crs-specialist",
			Slug:          "fatca-crs-specialist",
			Title:         "FATCA & CRS Specialist (FCS)",
			Description:   "Certification for implementing and managing FATCA and CRS compliance frameworks: registration, documentation, due diligence, reporting.",
			Category:      model.CategoryFATCACRS,
			DeliveryModes: []model.DeliveryMode{model.DeliveryLiveVirtual, model.DeliveryInPerson, model.DeliverySelfPaced},
			Level:         "INTERMEDIATE",
			DurationHours: 16,
			PriceUsd:      774,
			Currency:      "USD",
			Featured:      true,
		},
		{
			ID:            "sanctions-compliance-specialist",
			Slug:          "sanctions-compliance-specialist",
			Title:         "Sanctions Compliance Specialist (SCS)",
			Description:   "Global sanctions regimes, counter-proliferation finance, screening systems, and sanctions risk management.",
			Category:      model.CategorySanctions,
			DeliveryModes: []model.DeliveryMode{model.DeliveryLiveVirtual, model.DeliveryInPerson, model.DeliverySelfPaced},
			Level:         "INTERMEDIATE",
			DurationHours: 30,
			PriceUsd:      849,
			Currency:      "USD",
			Featured:      true,
		},
		{
			ID:            "regulatory-compliance-specialist",
			Slug:          "regulatory-compliance-specialist",
			Title:         "Regulatory Compliance Specialist (RCS)",
			Description:   "Designing and running a regulatory compliance function: governance, monitoring, regulatory change management.",
			Category:      model.CategoryRegulatory,
			DeliveryModes: []model.DeliveryMode{model.DeliveryLiveVirtual, model.DeliveryInPerson},
			Level:         "INTERMEDIATE",
			DurationHours: 24,
			PriceUsd:      849,
			Currency:      "USD",
		},
		{
			ID:            "know-your-customer-specialist",
			Slug:          "know-your-customer-specialist",
			Title:         "Know Your Customer Specialist (KYC Specialist)",
			Description:   "Customer due diligence, enhanced due diligence, beneficial ownership, and ongoing monitoring.",
			Category:      model.CategoryKYC,
			DeliveryModes: []model.DeliveryMode{model.DeliveryLiveVirtual, model.DeliveryInPerson},
			Level:         "INTERMEDIATE",
			DurationHours: 20,
			PriceUsd:      550,
			Currency:      "USD",
		},
		{
			ID:            "certified-compliance-manager",
			Slug:          "certified-compliance-manager",
			Title:         "Certified Compliance Manager (CCM)",
			Description:   "Management-level compliance certification with proctored exam, covering the full compliance lifecycle.",
			Category:      model.CategoryRegulatory,
			DeliveryModes: []model.DeliveryMode{model.DeliveryLiveVirtual, model.DeliveryInPerson, model.DeliverySelfPaced},
			Level:         "ADVANCED",
			DurationHours: 40,
			PriceUsd:      1399,
			Currency:      "USD",
			Featured:      true,
		},
		{
			ID:            "cams-exam-prep",
			Slug:          "cams",
			Title:         "CAMS",
			Description:   "Exam preparation track for the Certified Anti-Money Laundering Specialist credential.",
			Category:      model.CategoryExamPrep,
			DeliveryModes: []model.DeliveryMode{model.DeliveryLiveVirtual, model.DeliverySelfPaced},
			Level:         "ADVANCED",
			DurationHours: 32,
			PriceUsd:      1095,
			Currency:      "USD",
		},
	}
}
