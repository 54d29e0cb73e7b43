package assistant

import "fmt"

// RouteKind tags which adapter family serves a provider.
type RouteKind int

const (
	RouteNative RouteKind = iota + 1
	RouteOpenAICompatible
)

// Route is the tagged variant the orchestrators dispatch on.
type Route struct {
	Kind     RouteKind
	Provider Provider
}

// RouteFor resolves the adapter family for a provider id.
func RouteFor(p Provider) (Route, error) {
	switch p {
	case ProviderGemini:
		return Route{Kind: RouteNative, Provider: p}, nil
	case ProviderGroq, ProviderMistral, ProviderOpenRouter:
		return Route{Kind: RouteOpenAICompatible, Provider: p}, nil
	default:
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
}
