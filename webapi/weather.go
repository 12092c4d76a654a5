package webapi

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// CurrentWeather is open-meteo's current_weather block.
type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
}

// WeatherReport is the resolved place plus its current conditions.
type WeatherReport struct {
	Place   string
	Current CurrentWeather
}

type geoResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Weather geocodes the city name, then fetches current conditions for the
// best match.
func (c *Client) Weather(city string) (*WeatherReport, error) {
	var geo struct {
		Results []geoResult `json:"results"`
	}
	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")
	if err := c.getJSON(c.eps.Geocoding, params, &geo); err != nil {
		return nil, errors.Wrap(err, "failed geocoding city")
	}
	if len(geo.Results) == 0 {
		return nil, errors.Errorf("no location found for %q", city)
	}
	loc := geo.Results[0]

	var forecast struct {
		CurrentWeather CurrentWeather `json:"current_weather"`
	}
	params = url.Values{}
	params.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	params.Set("current_weather", "true")
	params.Set("timezone", "auto")
	if err := c.getJSON(c.eps.Weather, params, &forecast); err != nil {
		return nil, errors.Wrap(err, "failed fetching forecast")
	}

	place := loc.Name
	if loc.Country != "" {
		place += ", " + loc.Country
	}

	return &WeatherReport{Place: place, Current: forecast.CurrentWeather}, nil
}
