// internal/i18n/i18n.go
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var (
	instance *catalog
	once     sync.Once
)

// Initialize loads every <lang>.json file found in localesPath. Adding a
// language is dropping a file in the directory; no code change needed.
func Initialize(localesPath string) error {
	var err error
	once.Do(func() {
		instance = &catalog{
			translations: make(map[string]map[string]string),
			defaultLang:  "en",
		}
		err = instance.load(localesPath)
	})
	return err
}

func (c *catalog) load(localesPath string) error {
	entries, err := os.ReadDir(localesPath)
	if err != nil {
		return fmt.Errorf("failed to read locales directory %s: %w", localesPath, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(entry.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(localesPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", entry.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to parse locale file %s: %w", entry.Name(), err)
		}

		c.mu.Lock()
		c.translations[lang] = translations
		c.mu.Unlock()
		loaded++
	}

	if loaded == 0 {
		return fmt.Errorf("no locale files found in %s", localesPath)
	}
	return nil
}

func (c *catalog) lookup(lang, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if translations, ok := c.translations[lang]; ok {
		if text, ok := translations[key]; ok {
			return text, true
		}
	}
	if lang != c.defaultLang {
		if translations, ok := c.translations[c.defaultLang]; ok {
			if text, ok := translations[key]; ok {
				return text, true
			}
		}
	}
	return "", false
}

// T translates key for lang, falling back to the default language and
// finally to the key itself. Safe to call before Initialize.
func T(lang, key string, args ...interface{}) string {
	if instance == nil {
		return key
	}

	text, ok := instance.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

func GetSupportedLanguages() []string {
	if instance == nil {
		return []string{"en"}
	}

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	langs := make([]string, 0, len(instance.translations))
	for lang := range instance.translations {
		langs = append(langs, lang)
	}
	return langs
}
