//go:build unit

package entities_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/checkver/internal/domain/entities"
)

func TestResolveTemplate(t *testing.T) {
	t.Parallel()

	t.Run("should replace tokens and old values with the new values", func(t *testing.T) {
		t.Parallel()

		// given
		content := "v={{version}} ({{sha}})"
		placeholders := entities.PlaceholderMap{
			{Key: "version", New: "2.0.0", Old: "1.0.0"},
			{Key: "sha", New: "deadbee", Old: "cafebee"},
		}

		// when
		result := entities.ResolveTemplate(content, placeholders)

		// then
		assert.Equal(t, "v=2.0.0 (deadbee)", result)
	})

	t.Run("should accept every token spelling", func(t *testing.T) {
		t.Parallel()

		// given
		content := "$version$ {{version}} {version}"
		placeholders := entities.PlaceholderMap{{Key: "version", New: "3.1.0"}}

		// when
		result := entities.ResolveTemplate(content, placeholders)

		// then
		assert.Equal(t, "3.1.0 3.1.0 3.1.0", result)
	})

	t.Run("should rewrite literal occurrences of the old value", func(t *testing.T) {
		t.Parallel()

		// given
		content := "ARG APP_VERSION=1.4.2\nRUN echo 1.4.2\n"
		placeholders := entities.NewPlaceholderMap(
			entities.VersionPair{Version: "1.4.2", SHA: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
			entities.VersionPair{Version: "1.5.0", SHA: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"},
		)

		// when
		result := entities.ResolveTemplate(content, placeholders)

		// then
		assert.Equal(t, "ARG APP_VERSION=1.5.0\nRUN echo 1.5.0\n", result)
	})

	t.Run("should leave unknown tokens untouched", func(t *testing.T) {
		t.Parallel()

		// given
		content := "{{version}} {{unknown}} $other$"
		placeholders := entities.PlaceholderMap{{Key: "version", New: "1.0.0"}}

		// when
		result := entities.ResolveTemplate(content, placeholders)

		// then
		assert.Equal(t, "1.0.0 {{unknown}} $other$", result)
	})

	t.Run("should return content unchanged for an empty map", func(t *testing.T) {
		t.Parallel()

		// given
		content := "FROM alpine:{{version}}"

		// when
		result := entities.ResolveTemplate(content, nil)

		// then
		assert.Equal(t, content, result)
	})

	t.Run("should be idempotent once applied", func(t *testing.T) {
		t.Parallel()

		// given
		placeholders := entities.NewPlaceholderMap(
			entities.VersionPair{Version: "1.0.0", SHA: "1111111111111111111111111111111111111111"},
			entities.VersionPair{Version: "2.0.0", SHA: "2222222222222222222222222222222222222222"},
		)
		once := entities.ResolveTemplate("image: app:{{version}}@{{fullSha}}", placeholders)

		// when
		twice := entities.ResolveTemplate(once, placeholders)

		// then
		assert.Equal(t, once, twice)
		assert.Equal(t, "image: app:2.0.0@2222222222222222222222222222222222222222", twice)
	})

	t.Run("should rewrite the short sha inside the old full sha first", func(t *testing.T) {
		t.Parallel()

		// given
		oldSHA := "abcdef0" + strings.Repeat("1", 33)
		newSHA := "9999999" + strings.Repeat("2", 33)
		placeholders := entities.NewPlaceholderMap(
			entities.VersionPair{Version: "1.0.0", SHA: oldSHA},
			entities.VersionPair{Version: "1.0.0", SHA: newSHA},
		)

		// when
		result := entities.ResolveTemplate(oldSHA, placeholders)

		// then
		assert.Equal(t, "9999999"+strings.Repeat("1", 33), result)
	})
}
