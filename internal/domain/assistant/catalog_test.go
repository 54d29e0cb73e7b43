package assistant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePersonaAcceptsValueAndKey(t *testing.T) {
	p, err := ParsePersona("Sarcastic Comedian")
	require.NoError(t, err)
	require.Equal(t, PersonaComedian, p)

	p, err = ParsePersona("meteorologist")
	require.NoError(t, err)
	require.Equal(t, PersonaMeteorologist, p)

	_, err = ParsePersona("Pirate")
	require.ErrorIs(t, err, ErrUnknownPersona)
}

func TestParseProviderAndRoute(t *testing.T) {
	p, err := ParseProvider(" OpenRouter ")
	require.NoError(t, err)
	require.Equal(t, ProviderOpenRouter, p)

	_, err = ParseProvider("anthropic")
	require.ErrorIs(t, err, ErrUnknownProvider)

	route, err := RouteFor(ProviderGemini)
	require.NoError(t, err)
	require.Equal(t, RouteNative, route.Kind)

	for _, provider := range []Provider{ProviderGroq, ProviderMistral, ProviderOpenRouter} {
		route, err := RouteFor(provider)
		require.NoError(t, err)
		require.Equal(t, RouteOpenAICompatible, route.Kind)
	}

	_, err = RouteFor("cohere")
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestParseLanguageDefaultsToEnglish(t *testing.T) {
	require.Equal(t, LanguageIndonesian, ParseLanguage("ID"))
	require.Equal(t, LanguageEnglish, ParseLanguage("fr"))
	require.Equal(t, LanguageEnglish, ParseLanguage(""))
}

func TestCatalogDefaultsAndCopies(t *testing.T) {
	require.Equal(t, "llama3-8b-8192", ProviderGroq.DefaultModel())
	require.Empty(t, Provider("nope").DefaultModel())

	c := Catalog()
	require.Len(t, c, 4)
	c[0].Models[0].ID = "mutated"
	require.Equal(t, "gemini-2.5-flash", ProviderGemini.DefaultModel())
	require.Len(t, Personas(), 5)
}

func TestResolveCredential(t *testing.T) {
	key, err := ResolveCredential("  user  ", "env")
	require.NoError(t, err)
	require.Equal(t, "user", key)

	key, err = ResolveCredential("", "env")
	require.NoError(t, err)
	require.Equal(t, "env", key)

	_, err = ResolveCredential(" ", "")
	require.True(t, errors.Is(err, ErrMissingCredential))
}

func TestHTTPErrorMessage(t *testing.T) {
	err := error(&HTTPError{Provider: ProviderMistral, Status: 429, Body: "rate limited"})
	require.Equal(t, "mistral error: status=429 body=rate limited", err.Error())

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, 429, httpErr.Status)
}
