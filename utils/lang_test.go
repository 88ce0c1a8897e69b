package utils

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalizeWithoutBundle(t *testing.T) {
	bundle = nil
	assert.Equal(t, "fallback", Localize("zh-TW", "error_999", "fallback"))
}

func TestLocalize(t *testing.T) {
	defer func() { bundle = nil }()

	dir, err := ioutil.TempDir("", "i18n")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	require.NoError(t, ioutil.WriteFile(path.Join(dir, "en.yaml"), []byte("greeting: hello\n"), 0600))
	require.NoError(t, ioutil.WriteFile(path.Join(dir, "zh_tw.yaml"), []byte("greeting: 你好\n"), 0600))
	require.NoError(t, InitI18NBundle(dir))

	assert.Equal(t, "你好", Localize("zh-TW", "greeting", "x"))
	assert.Equal(t, "hello", Localize("en-US,en;q=0.9", "greeting", "x"))
	assert.Equal(t, "hello", Localize("", "greeting", "x"))
	assert.Equal(t, "x", Localize("en", "missing", "x"))
}

func TestInitI18NBundleMissingDir(t *testing.T) {
	defer func() { bundle = nil }()
	assert.Error(t, InitI18NBundle("/nonexistent"))
	assert.Nil(t, bundle)
}

func TestBundledMessages(t *testing.T) {
	defer func() { bundle = nil }()
	require.NoError(t, InitI18NBundle("../i18n"))

	assert.Equal(t, "help request not found", Localize("en", "error_1200", ""))
	assert.Equal(t, "找不到求助請求", Localize("zh-TW", "error_1200", ""))
}
