package service_test

import (
	"context"
	"testing"

	"table-ordering/order-svc/internal/domain"
	"table-ordering/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Defaults(t *testing.T) {
	_, cache := newTestCache(t)
	settings := service.NewSettings(cache, discardLogger())
	settings.Load(context.Background())

	assert.Equal(t, domain.LanguageEnglish, settings.Language())
	assert.Equal(t, domain.ThemeSystem, settings.Theme())
}

func TestSettings_Set(t *testing.T) {
	tests := []struct {
		name     string
		language string
		theme    string
		wantErr  bool
	}{
		{name: "turkish dark", language: "tr", theme: "dark"},
		{name: "english light", language: "en", theme: "light"},
		{name: "unknown language", language: "de", theme: "dark", wantErr: true},
		{name: "unknown theme", language: "en", theme: "sepia", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, cache := newTestCache(t)
			ctx := context.Background()
			settings := service.NewSettings(cache, discardLogger())

			langErr := settings.SetLanguage(ctx, testCase.language)
			themeErr := settings.SetTheme(ctx, testCase.theme)

			if testCase.wantErr {
				assert.ErrorIs(t, errorsOf(langErr, themeErr), domain.ErrInvalidSetting)
				return
			}
			require.NoError(t, langErr)
			require.NoError(t, themeErr)

			reloaded := service.NewSettings(cache, discardLogger())
			reloaded.Load(ctx)
			assert.Equal(t, domain.Language(testCase.language), reloaded.Language())
			assert.Equal(t, domain.Theme(testCase.theme), reloaded.Theme())
		})
	}
}

func TestSettings_InvalidStoredValuesIgnored(t *testing.T) {
	_, cache := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, service.KeyLanguage, []byte("klingon")))
	require.NoError(t, cache.Set(ctx, service.KeyTheme, []byte("dark")))

	settings := service.NewSettings(cache, discardLogger())
	settings.Load(ctx)

	assert.Equal(t, domain.LanguageEnglish, settings.Language())
	assert.Equal(t, domain.ThemeDark, settings.Theme())
}

func errorsOf(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
