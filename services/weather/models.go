package weather

import "fmt"

// QueryKind selects how a provider query is keyed.
type QueryKind string

const (
	ByCity        QueryKind = "city"
	ByCoordinates QueryKind = "coordinates"
)

// Query is a single lookup request: either a city name or a lat/lon pair.
type Query struct {
	Kind QueryKind
	City string
	Lat  float64
	Lon  float64
}

func CityQuery(city string) Query {
	return Query{Kind: ByCity, City: city}
}

func CoordinatesQuery(lat, lon float64) Query {
	return Query{Kind: ByCoordinates, Lat: lat, Lon: lon}
}

func (q Query) String() string {
	if q.Kind == ByCoordinates {
		return fmt.Sprintf("%.5f,%.5f", q.Lat, q.Lon)
	}
	return q.City
}

// RawPayload mirrors the provider's current-weather response. Every field the
// formatter reads is optional; pointers distinguish absent from zero.
type RawPayload struct {
	Name    *string `json:"name"`
	Weather []struct {
		Main        *string `json:"main"`
		Description *string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
	Timezone *int64 `json:"timezone"`
}

// Reading is the flattened, display-ready view of one provider response.
type Reading struct {
	LocationName     string
	Category         string
	Description      string
	TemperatureC     *float64
	FeelsLikeC       *float64
	HumidityPct      *float64
	PressureHPa      *float64
	WindSpeedMS      *float64
	SunriseTS        *int64
	SunsetTS         *int64
	UTCOffsetSeconds int64
}

// Reading applies the fallbacks once so formatting never has to check for missing sub-objects.
func (p RawPayload) Reading() Reading {
	r := Reading{LocationName: DefaultLocationName}
	if p.Name != nil && *p.Name != "" {
		r.LocationName = *p.Name
	}
	if len(p.Weather) > 0 {
		w := p.Weather[0]
		if w.Main != nil {
			r.Category = *w.Main
		}
		if w.Description != nil {
			r.Description = *w.Description
		}
	}
	if p.Main != nil {
		r.TemperatureC = p.Main.Temp
		r.FeelsLikeC = p.Main.FeelsLike
		r.HumidityPct = p.Main.Humidity
		r.PressureHPa = p.Main.Pressure
	}
	if p.Wind != nil {
		r.WindSpeedMS = p.Wind.Speed
	}
	if p.Sys != nil {
		r.SunriseTS = p.Sys.Sunrise
		r.SunsetTS = p.Sys.Sunset
	}
	if p.Timezone != nil {
		r.UTCOffsetSeconds = *p.Timezone
	}
	return r
}
