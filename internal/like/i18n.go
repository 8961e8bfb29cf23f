package like

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"

	"github.com/AlibekovAA/storefront/internal/common/constants"
)

const (
	LabelLike   = "likeButton"
	LabelUnlike = "unlikeButton"
)

var catalogue = map[string]map[string]string{
	"es": {
		LabelLike:   "Me gusta",
		LabelUnlike: "Ya no me gusta",
	},
	"en": {
		LabelLike:   "Like",
		LabelUnlike: "Unlike",
	},
}

// Labels resolves button labels for a locale, falling back to the default
// locale when the requested one has no translations.
type Labels struct {
	uni       *ut.UniversalTranslator
	namespace string
}

func NewLabels(defaultLocale string) (*Labels, error) {
	supported := map[string]locales.Translator{
		"es": es.New(),
		"en": en.New(),
	}
	fallback, ok := supported[defaultLocale]
	if !ok {
		return nil, fmt.Errorf("unsupported default locale %q", defaultLocale)
	}

	uni := ut.New(fallback, es.New(), en.New())
	l := &Labels{uni: uni, namespace: constants.LikeTranslationSpace}

	for locale, entries := range catalogue {
		trans, _ := uni.GetTranslator(locale)
		for key, text := range entries {
			if err := trans.Add(l.qualified(key), text, false); err != nil {
				return nil, fmt.Errorf("failed to add %s/%s: %w", locale, key, err)
			}
		}
	}
	if err := uni.VerifyTranslations(); err != nil {
		return nil, fmt.Errorf("translations incomplete: %w", err)
	}
	return l, nil
}

// Label returns the translated text for key, or key itself when it has no
// translation.
func (l *Labels) Label(locale, key string) string {
	trans, _ := l.uni.FindTranslator(locale, baseLanguage(locale))
	text, err := trans.T(l.qualified(key))
	if err != nil {
		return key
	}
	return text
}

func (l *Labels) qualified(key string) string {
	return l.namespace + "." + key
}

// baseLanguage turns "es-MX" or "es_MX" into "es".
func baseLanguage(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}
