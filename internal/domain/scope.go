package domain

import "context"

type cityScopeKey struct{}

// WithCityScope restricts ctx to the city with the given name. Point of
// interest operations under any other city fail with ErrForbidden.
func WithCityScope(ctx context.Context, cityName string) context.Context {
	return context.WithValue(ctx, cityScopeKey{}, cityName)
}

// CityScope returns the city name ctx is restricted to, if any.
func CityScope(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(cityScopeKey{}).(string)
	return name, ok && name != ""
}
