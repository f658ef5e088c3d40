package model

type DeliveryMode string

const (
	DeliveryLiveVirtual DeliveryMode = "LIVE_VIRTUAL"
	DeliveryInPerson    DeliveryMode = "IN_PERSON"
	DeliverySelfPaced   DeliveryMode = "SELF_PACED"
)

type Category string

const (
	CategoryAMLCFT     Category = "AML_CFT"
	CategoryFATCACRS   Category = "FATCA_CRS"
	CategorySanctions  Category = "SANCTIONS"
	CategoryRegulatory Category = "REGULATORY"
	CategoryKYC        Category = "KYC"
	CategoryExamPrep   Category = "EXAM_PREP"
)

type Course struct {
	ID            string
	Slug          string
	Title         string
	Description   string
	Category      Category
	DeliveryModes []DeliveryMode
	Level         string
	DurationHours int
	PriceUsd      float64
	Currency      string
	Featured      bool
}

// DefaultDeliveryMode is the mode an enrollment falls back to when the
// course declares none.
func (c Course) DefaultDeliveryMode() DeliveryMode {
	if len(c.DeliveryModes) > 0 {
		return c.DeliveryModes[0]
	}
	return DeliveryLiveVirtual
}
