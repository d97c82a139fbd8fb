package command

import (
	"errors"
	"fmt"

	"ffdash/internal/encodeconfig"
	"ffdash/internal/services"
)

// ErrUnsupportedCombination is the sentinel wrapped into every error Build
// returns when a (backend, mode, codec) tuple has no entry in the
// rate-control emission table.
var ErrUnsupportedCombination = errors.New("command: unsupported backend/mode/codec combination")

func unsupportedCombination(cfg encodeconfig.Config) error {
	detail := fmt.Sprintf("codec=%s backend=%s mode=%s", cfg.CodecFamily, cfg.Backend, cfg.RateControlMode)
	return services.Wrap(services.ErrValidation, "command", "build", detail, ErrUnsupportedCombination)
}
