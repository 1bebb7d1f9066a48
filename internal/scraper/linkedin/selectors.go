package linkedin

// Selectors locate job cards and their fields in the rendered search page.
// Field selectors are tried in order; the first one matching inside the card wins.
type Selectors struct {
	Card          string   `yaml:"card" validate:"required"`
	ListContainer string   `yaml:"list_container"`
	Title         []string `yaml:"title" validate:"min=1"`
	Company       []string `yaml:"company" validate:"min=1"`
	Location      []string `yaml:"location" validate:"min=1"`
	Status        []string `yaml:"status"`
	Link          []string `yaml:"link" validate:"min=1"`
	Posted        []string `yaml:"posted"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Card:          "li.scaffold-layout__list-item, li.jobs-search-results__list-item",
		ListContainer: ".scaffold-layout__list > div, .jobs-search-results-list",
		Title: []string{
			".job-card-list__title--link strong",
			".job-card-list__title strong",
			"a.job-card-container__link span[aria-hidden=true]",
			"a.job-card-container__link",
		},
		Company: []string{
			".artdeco-entity-lockup__subtitle",
			".job-card-container__primary-description",
			".job-card-container__company-name",
		},
		Location: []string{
			".job-card-container__metadata-wrapper li",
			".artdeco-entity-lockup__caption li",
			".job-card-container__metadata-item",
		},
		Status: []string{
			".job-card-container__metadata-item--workplace-type",
			".job-card-container__footer-item",
			".job-card-list__footer-wrapper li",
		},
		Link: []string{
			"a.job-card-container__link",
			"a.job-card-list__title--link",
		},
		Posted: []string{"time"},
	}
}

const (
	NoTitle    = "no title available"
	NoCompany  = "no company available"
	NoLocation = "no location available"
	NoStatus   = "no status available"
	NoLink     = "no link available"
)
