package domain

type Category string

const (
	CategoryPWD                 Category = "pwd"
	CategorySeniorCitizens      Category = "senior_citizens"
	CategorySoloParents         Category = "solo_parents"
	CategoryFinancialAssistance Category = "financial_assistance"
	CategoryEarlyChildhood      Category = "early_childhood"
	CategoryYouth               Category = "youth"
	CategoryWomensSector        Category = "womens_sector"
)

var Categories = []Category{
	CategoryPWD,
	CategorySeniorCitizens,
	CategorySoloParents,
	CategoryFinancialAssistance,
	CategoryEarlyChildhood,
	CategoryYouth,
	CategoryWomensSector,
}

var serviceCatalogue = map[Category][]string{
	CategoryPWD: {
		"PWD ID",
		"PWD Booklet",
		"Assistive Device Request",
	},
	CategorySeniorCitizens: {
		"Senior Citizen ID",
		"Social Pension",
		"Purchase Booklet",
	},
	CategorySoloParents: {
		"Solo Parent ID",
		"Solo Parent Renewal",
	},
	CategoryFinancialAssistance: {
		"Medical Assistance",
		"Burial Assistance",
		"Educational Assistance",
	},
	CategoryEarlyChildhood: {
		"Child Development Center Enrollment",
		"Supplementary Feeding",
	},
	CategoryYouth: {
		"Youth Scholarship",
		"Out-of-School Youth Program",
	},
	CategoryWomensSector: {
		"Women's Livelihood Program",
		"VAWC Assistance",
	},
}

func (c Category) Valid() bool {
	_, ok := serviceCatalogue[c]
	return ok
}

func ServicesFor(c Category) []string {
	out := make([]string, len(serviceCatalogue[c]))
	copy(out, serviceCatalogue[c])
	return out
}

func (c Category) Offers(service string) bool {
	for _, s := range serviceCatalogue[c] {
		if s == service {
			return true
		}
	}
	return false
}
