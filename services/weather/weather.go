package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AbdulWasayUl/go-weather-bot/internal/api"
	"github.com/AbdulWasayUl/go-weather-bot/internal/config"
	"github.com/AbdulWasayUl/go-weather-bot/internal/logger"
	"github.com/pkg/errors"
)

// Units is fixed; the reply layout assumes °C and m/s.
const Units = "metric"

type Service struct {
	Config *config.Config
	Client *api.Client
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		Config: cfg,
		Client: api.NewClient(cfg.OWMTimeout),
	}
}

// FetchByCity requests current weather for a city name.
func (s *Service) FetchByCity(ctx context.Context, city string) ([]byte, error) {
	return s.FetchData(ctx, CityQuery(city))
}

// FetchByCoordinates requests current weather for a latitude/longitude pair.
func (s *Service) FetchByCoordinates(ctx context.Context, lat, lon float64) ([]byte, error) {
	return s.FetchData(ctx, CoordinatesQuery(lat, lon))
}

func (s *Service) FetchData(ctx context.Context, q Query) ([]byte, error) {
	params := url.Values{}
	switch q.Kind {
	case ByCity:
		params.Set("q", q.City)
	case ByCoordinates:
		params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		params.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	default:
		return nil, fmt.Errorf("unsupported query kind %q", q.Kind)
	}
	params.Set("appid", s.Config.OWMAPIKey)
	params.Set("units", Units)
	params.Set("lang", s.Config.OWMLang)

	logger.Debug("[weather] fetching %s %q", q.Kind, q.String())
	return s.Client.Do(ctx, s.Config.OWMAPIBaseURL+"?"+params.Encode(), nil)
}

func (s *Service) ParseData(data []byte) (Reading, error) {
	var resp RawPayload
	if err := json.Unmarshal(data, &resp); err != nil {
		return Reading{}, errors.Wrap(err, "failed to parse weather data")
	}
	return resp.Reading(), nil
}

// Lookup fetches and decodes one query.
func (s *Service) Lookup(ctx context.Context, q Query) (Reading, error) {
	data, err := s.FetchData(ctx, q)
	if err != nil {
		return Reading{}, err
	}
	return s.ParseData(data)
}
