package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/qtrix/the-final-stake/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxIdentityLength = 128

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("gamename", func(fl validator.FieldLevel) bool {
			_, err := validateGameName(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("identity", func(fl validator.FieldLevel) bool {
			_, err := validateIdentity(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("minigame", func(fl validator.FieldLevel) bool {
			return game.MiniGameType(fl.Field().String()).Valid()
		})
	})
}

func validateGameName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("name is required")
	}
	if utf8.RuneCountInString(trimmed) > game.MaxGameNameLength {
		return "", fmt.Errorf("name must be %d characters or fewer", game.MaxGameNameLength)
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) {
			return "", errors.New("name contains unsupported characters")
		}
	}
	return trimmed, nil
}

// validateIdentity accepts opaque account ids as issued by the gateway.
func validateIdentity(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", errors.New("identity is required")
	}
	if len(trimmed) > maxIdentityLength {
		return "", fmt.Errorf("identity must be %d characters or fewer", maxIdentityLength)
	}
	for _, r := range trimmed {
		if r > 127 || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return "", errors.New("identity contains unsupported characters")
		}
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}
