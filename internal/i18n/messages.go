package i18n

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// DefaultLang is used when a requested language has no catalog entry.
// The product's user base is Chinese, matching the original message set.
const DefaultLang = "zh_CN"

// Message keys for user-facing confirmation messages
const (
	MsgPageCreated = "page.created"
	MsgPageUpdated = "page.updated"
	MsgPageDeleted = "page.deleted"
)

// Catalog holds localized user-facing messages keyed by language and message key.
type Catalog struct {
	messages map[string]map[string]string
}

// LoadCatalog parses the embedded message catalog
func LoadCatalog() (*Catalog, error) {
	var messages map[string]map[string]string
	if err := yaml.Unmarshal(messagesYAML, &messages); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}

	if _, ok := messages[DefaultLang]; !ok {
		return nil, fmt.Errorf("message catalog missing default language %q", DefaultLang)
	}

	return &Catalog{messages: messages}, nil
}

// Message returns the localized message for lang and key, falling back to
// the default language and finally to the key itself.
func (c *Catalog) Message(lang, key string) string {
	if msgs, ok := c.messages[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := c.messages[DefaultLang][key]; ok {
		return msg
	}
	return key
}
