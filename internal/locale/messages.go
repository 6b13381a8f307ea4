package locale

// Message keys.
const (
	KeyExpired   = "expiry.expired"
	KeyToday     = "expiry.today"
	KeyTomorrow  = "expiry.tomorrow"
	KeyDays      = "expiry.days"
	KeyFood      = "category.food"
	KeyHousehold = "category.household"
)

var tables = map[string]map[string]string{
	English: {
		KeyExpired:   "Expired",
		KeyToday:     "Today",
		KeyTomorrow:  "Tomorrow",
		KeyFood:      "Food",
		KeyHousehold: "Household",
	},
	Slovenian: {
		KeyExpired:   "Poteklo",
		KeyToday:     "Danes",
		KeyTomorrow:  "Jutri",
		KeyFood:      "Hrana",
		KeyHousehold: "Gospodinjstvo",
	},
}

// pluralTables hold one format per plural form, indexed by pluralRules.
var pluralTables = map[string]map[string][]string{
	English: {
		KeyDays: {"%d day", "%d days"},
	},
	Slovenian: {
		KeyDays: {"%d dan", "%d dneva", "%d dnevi", "%d dni"},
	},
}

// pluralRules map a count to an index into the language's plural forms.
var pluralRules = map[string]func(n int) int{
	English: func(n int) int {
		if n == 1 || n == -1 {
			return 0
		}
		return 1
	},
	// Slovenian has singular, dual, plural (3-4) and the rest, decided by
	// the last two digits.
	Slovenian: func(n int) int {
		if n < 0 {
			n = -n
		}
		switch n % 100 {
		case 1:
			return 0
		case 2:
			return 1
		case 3, 4:
			return 2
		}
		return 3
	},
}

var categoryKeys = map[string]string{
	"food":      KeyFood,
	"household": KeyHousehold,
}
