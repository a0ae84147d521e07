package history

import "strings"

// regionTerms maps a state abbreviation to the place-name tokens that count
// as in-region mentions: the abbreviation itself, the state's full name, and
// its major cities. Only Texas is populated today; other states fall back to
// abbreviation plus full name.
var regionTerms = map[string][]string{
	"TX": {
		"TX", "Texas",
		"Houston", "San Antonio", "Dallas", "Austin", "Fort Worth",
		"El Paso", "Arlington", "Corpus Christi", "Plano", "Laredo",
		"Lubbock", "Garland", "Irving", "Amarillo", "Grand Prairie",
		"Brownsville", "Pasadena", "McKinney", "Mesquite", "McAllen",
		"Killeen", "Frisco", "Waco", "Carrollton", "Denton",
		"Midland", "Abilene", "Beaumont", "Round Rock", "Odessa",
		"Wichita Falls", "Richardson", "Lewisville", "Tyler",
		"College Station", "Pearland", "San Angelo", "Allen",
		"League City", "Sugar Land", "Longview", "Edinburg",
		"Mission", "Bryan", "Baytown", "Pharr", "Temple",
		"Missouri City", "Flower Mound", "Harlingen",
	},
}

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut",
	"DE": "Delaware", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
	"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan",
	"MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
	"NY": "New York", "NC": "North Carolina", "ND": "North Dakota",
	"OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania",
	"RI": "Rhode Island", "SC": "South Carolina", "SD": "South Dakota",
	"TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont",
	"VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming",
}

// termsForState returns the in-region tokens for a state abbreviation.
func termsForState(state string) []string {
	abbr := strings.ToUpper(strings.TrimSpace(state))
	if terms, ok := regionTerms[abbr]; ok {
		return terms
	}
	terms := []string{abbr}
	if full, ok := stateNames[abbr]; ok {
		terms = append(terms, full)
	}
	return terms
}
