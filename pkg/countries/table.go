package countries

// entry maps a country name, as spelled in OpenFlights airport records, to
// its ISO 3166-1 codes.
type entry struct {
	name   string
	alpha3 string
	alpha2 string
}

var table = []entry{
	// Major countries
	{"United States", "USA", "US"},
	{"United Kingdom", "GBR", "GB"},
	{"Canada", "CAN", "CA"},
	{"Australia", "AUS", "AU"},
	{"Germany", "DEU", "DE"},
	{"France", "FRA", "FR"},
	{"Spain", "ESP", "ES"},
	{"Italy", "ITA", "IT"},
	{"Japan", "JPN", "JP"},
	{"China", "CHN", "CN"},
	{"India", "IND", "IN"},
	{"Brazil", "BRA", "BR"},
	{"Mexico", "MEX", "MX"},
	{"Russia", "RUS", "RU"},

	// Europe
	{"Netherlands", "NLD", "NL"},
	{"Switzerland", "CHE", "CH"},
	{"Austria", "AUT", "AT"},
	{"Belgium", "BEL", "BE"},
	{"Denmark", "DNK", "DK"},
	{"Finland", "FIN", "FI"},
	{"Ireland", "IRL", "IE"},
	{"Norway", "NOR", "NO"},
	{"Poland", "POL", "PL"},
	{"Sweden", "SWE", "SE"},
	{"Czech Republic", "CZE", "CZ"},
	{"Hungary", "HUN", "HU"},
	{"Romania", "ROU", "RO"},
	{"Portugal", "PRT", "PT"},
	{"Greece", "GRC", "GR"},
	{"Iceland", "ISL", "IS"},
	{"Luxembourg", "LUX", "LU"},
	{"Malta", "MLT", "MT"},
	{"Croatia", "HRV", "HR"},
	{"Slovenia", "SVN", "SI"},
	{"Slovakia", "SVK", "SK"},
	{"Bulgaria", "BGR", "BG"},
	{"Serbia", "SRB", "RS"},
	{"Bosnia and Herzegovina", "BIH", "BA"},
	{"Albania", "ALB", "AL"},
	{"Macedonia", "MKD", "MK"},
	{"Montenegro", "MNE", "ME"},
	{"Estonia", "EST", "EE"},
	{"Latvia", "LVA", "LV"},
	{"Lithuania", "LTU", "LT"},
	{"Ukraine", "UKR", "UA"},
	{"Belarus", "BLR", "BY"},
	{"Moldova", "MDA", "MD"},
	{"Cyprus", "CYP", "CY"},

	// Asia
	{"Singapore", "SGP", "SG"},
	{"South Korea", "KOR", "KR"},
	{"Thailand", "THA", "TH"},
	{"Indonesia", "IDN", "ID"},
	{"Malaysia", "MYS", "MY"},
	{"Philippines", "PHL", "PH"},
	{"Vietnam", "VNM", "VN"},
	{"Turkey", "TUR", "TR"},
	{"Israel", "ISR", "IL"},
	{"Pakistan", "PAK", "PK"},
	{"Bangladesh", "BGD", "BD"},
	{"Sri Lanka", "LKA", "LK"},
	{"Taiwan", "TWN", "TW"},
	{"Hong Kong", "HKG", "HK"},
	{"Macau", "MAC", "MO"},
	{"Mongolia", "MNG", "MN"},
	{"Nepal", "NPL", "NP"},
	{"Cambodia", "KHM", "KH"},
	{"Laos", "LAO", "LA"},
	{"Myanmar", "MMR", "MM"},
	{"Brunei", "BRN", "BN"},
	{"Maldives", "MDV", "MV"},
	{"Bhutan", "BTN", "BT"},
	{"Kazakhstan", "KAZ", "KZ"},
	{"Uzbekistan", "UZB", "UZ"},
	{"Turkmenistan", "TKM", "TM"},
	{"Kyrgyzstan", "KGZ", "KG"},
	{"Tajikistan", "TJK", "TJ"},
	{"Afghanistan", "AFG", "AF"},
	{"Armenia", "ARM", "AM"},
	{"Azerbaijan", "AZE", "AZ"},
	{"Georgia", "GEO", "GE"},

	// Middle East
	{"United Arab Emirates", "ARE", "AE"},
	{"Saudi Arabia", "SAU", "SA"},
	{"Qatar", "QAT", "QA"},
	{"Kuwait", "KWT", "KW"},
	{"Bahrain", "BHR", "BH"},
	{"Oman", "OMN", "OM"},
	{"Jordan", "JOR", "JO"},
	{"Lebanon", "LBN", "LB"},
	{"Iraq", "IRQ", "IQ"},
	{"Iran", "IRN", "IR"},
	{"Syria", "SYR", "SY"},
	{"Yemen", "YEM", "YE"},

	// Africa
	{"South Africa", "ZAF", "ZA"},
	{"Egypt", "EGY", "EG"},
	{"Morocco", "MAR", "MA"},
	{"Kenya", "KEN", "KE"},
	{"Nigeria", "NGA", "NG"},
	{"Ethiopia", "ETH", "ET"},
	{"Ghana", "GHA", "GH"},
	{"Tanzania", "TZA", "TZ"},
	{"Uganda", "UGA", "UG"},
	{"Algeria", "DZA", "DZ"},
	{"Tunisia", "TUN", "TN"},
	{"Libya", "LBY", "LY"},
	{"Sudan", "SDN", "SD"},
	{"Senegal", "SEN", "SN"},
	{"Ivory Coast", "CIV", "CI"},
	{"Cameroon", "CMR", "CM"},
	{"Zimbabwe", "ZWE", "ZW"},
	{"Zambia", "ZMB", "ZM"},
	{"Mozambique", "MOZ", "MZ"},
	{"Botswana", "BWA", "BW"},
	{"Namibia", "NAM", "NA"},
	{"Mauritius", "MUS", "MU"},
	{"Seychelles", "SYC", "SC"},
	{"Rwanda", "RWA", "RW"},
	{"Angola", "AGO", "AO"},
	{"Madagascar", "MDG", "MG"},

	// Americas
	{"Argentina", "ARG", "AR"},
	{"Chile", "CHL", "CL"},
	{"Colombia", "COL", "CO"},
	{"Peru", "PER", "PE"},
	{"Venezuela", "VEN", "VE"},
	{"Ecuador", "ECU", "EC"},
	{"Bolivia", "BOL", "BO"},
	{"Paraguay", "PRY", "PY"},
	{"Uruguay", "URY", "UY"},
	{"Costa Rica", "CRI", "CR"},
	{"Panama", "PAN", "PA"},
	{"Guatemala", "GTM", "GT"},
	{"Honduras", "HND", "HN"},
	{"Nicaragua", "NIC", "NI"},
	{"El Salvador", "SLV", "SV"},
	{"Cuba", "CUB", "CU"},
	{"Dominican Republic", "DOM", "DO"},
	{"Jamaica", "JAM", "JM"},
	{"Trinidad and Tobago", "TTO", "TT"},
	{"Bahamas", "BHS", "BS"},
	{"Barbados", "BRB", "BB"},
	{"Haiti", "HTI", "HT"},
	{"Belize", "BLZ", "BZ"},
	{"Guyana", "GUY", "GY"},
	{"Suriname", "SUR", "SR"},

	// Oceania
	{"New Zealand", "NZL", "NZ"},
	{"Fiji", "FJI", "FJ"},
	{"Papua New Guinea", "PNG", "PG"},
	{"Solomon Islands", "SLB", "SB"},
	{"Vanuatu", "VUT", "VU"},
	{"Samoa", "WSM", "WS"},
	{"Tonga", "TON", "TO"},
	{"Palau", "PLW", "PW"},
	{"Micronesia", "FSM", "FM"},
	{"Marshall Islands", "MHL", "MH"},
	{"Kiribati", "KIR", "KI"},
	{"Nauru", "NRU", "NR"},
	{"Tuvalu", "TUV", "TV"},
}
