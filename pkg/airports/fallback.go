package airports

// fallbackAirports keeps the application usable when neither the remote
// dataset nor a cached copy is available.
var fallbackAirports = []Airport{
	{Code: "JFK", Name: "John F. Kennedy International Airport", City: "New York", Country: "United States", CountryCode: "USA", Lat: 40.6413, Lon: -73.7781},
	{Code: "LHR", Name: "Heathrow Airport", City: "London", Country: "United Kingdom", CountryCode: "GBR", Lat: 51.4700, Lon: -0.4543},
	{Code: "DXB", Name: "Dubai International Airport", City: "Dubai", Country: "United Arab Emirates", CountryCode: "ARE", Lat: 25.2532, Lon: 55.3657},
	{Code: "HND", Name: "Haneda Airport", City: "Tokyo", Country: "Japan", CountryCode: "JPN", Lat: 35.5494, Lon: 139.7798},
	{Code: "SYD", Name: "Sydney Kingsford Smith Airport", City: "Sydney", Country: "Australia", CountryCode: "AUS", Lat: -33.9399, Lon: 151.1753},
	{Code: "CDG", Name: "Charles de Gaulle Airport", City: "Paris", Country: "France", CountryCode: "FRA", Lat: 49.0097, Lon: 2.5479},
	{Code: "SIN", Name: "Singapore Changi Airport", City: "Singapore", Country: "Singapore", CountryCode: "SGP", Lat: 1.3644, Lon: 103.9915},
	{Code: "LAX", Name: "Los Angeles International Airport", City: "Los Angeles", Country: "United States", CountryCode: "USA", Lat: 33.9416, Lon: -118.4085},
	{Code: "SFO", Name: "San Francisco International Airport", City: "San Francisco", Country: "United States", CountryCode: "USA", Lat: 37.6213, Lon: -122.3790},
	{Code: "FRA", Name: "Frankfurt Airport", City: "Frankfurt", Country: "Germany", CountryCode: "DEU", Lat: 50.0379, Lon: 8.5622},
	{Code: "AMS", Name: "Amsterdam Airport Schiphol", City: "Amsterdam", Country: "Netherlands", CountryCode: "NLD", Lat: 52.3105, Lon: 4.7683},
	{Code: "ORD", Name: "O'Hare International Airport", City: "Chicago", Country: "United States", CountryCode: "USA", Lat: 41.9742, Lon: -87.9073},
}

// Fallback returns a copy of the built-in list of major airports.
func Fallback() []Airport {
	out := make([]Airport, len(fallbackAirports))
	copy(out, fallbackAirports)
	return out
}
