// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package menutest

import (
	"sync"

	"github.com/bureau-foundation/tray/lib/menu"
)

// RecordingNotifier records every forwarded id.
type RecordingNotifier struct {
	mutex sync.Mutex
	ids   []string
}

func (notifier *RecordingNotifier) Notify(itemID string) {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	notifier.ids = append(notifier.ids, itemID)
}

// IDs returns a copy of the forwarded ids in order.
func (notifier *RecordingNotifier) IDs() []string {
	notifier.mutex.Lock()
	defer notifier.mutex.Unlock()
	result := make([]string, len(notifier.ids))
	copy(result, notifier.ids)
	return result
}

// RecordingOpener records every URL passed to OpenURL. Err, when set,
// is returned from every call.
type RecordingOpener struct {
	Err  error
	URLs []string
}

func (opener *RecordingOpener) OpenURL(url string) error {
	opener.URLs = append(opener.URLs, url)
	return opener.Err
}

// LanguageRecorder is a menu.LanguageStore that keeps every saved
// language.
type LanguageRecorder struct {
	Saved []string
}

func (recorder *LanguageRecorder) SaveLanguage(language string) error {
	recorder.Saved = append(recorder.Saved, language)
	return nil
}

// Catalog is a map-backed localizer: language → key → text. Missing
// keys fall back to the "en" table, then to the key itself.
type Catalog map[string]map[string]string

func (catalog Catalog) Resolve(key, language string) string {
	if text, ok := catalog[language][key]; ok {
		return text
	}
	if text, ok := catalog["en"][key]; ok {
		return text
	}
	return key
}

var (
	_ menu.Notifier        = (*RecordingNotifier)(nil)
	_ menu.URLOpener       = (*RecordingOpener)(nil)
	_ menu.LanguageStore   = (*LanguageRecorder)(nil)
	_ menu.Localizer       = Catalog(nil)
	_ menu.Toolkit         = (*FakeToolkit)(nil)
	_ menu.CheckWidget     = (*Widget)(nil)
	_ menu.ContainerWidget = (*Widget)(nil)
)
