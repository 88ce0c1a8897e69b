package utils

import (
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

var messageFiles = []string{"en.yaml", "zh_tw.yaml"}

var bundle *i18n.Bundle

// InitI18NBundle loads the message files under dir
func InitI18NBundle(dir string) error {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for _, name := range messageFiles {
		if _, err := b.LoadMessageFile(path.Join(dir, name)); err != nil {
			return err
		}
	}

	bundle = b
	return nil
}

func NewLocalizer(langs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, langs...)
}

// Localize translates messageID for an Accept-Language value and returns
// fallback when no bundle is loaded or no translation exists.
func Localize(acceptLanguage, messageID, fallback string) string {
	if bundle == nil {
		return fallback
	}

	msg, err := NewLocalizer(acceptLanguage).Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}
