package command

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"golang.org/x/term"

	"github.com/stolasapp/facet/internal/config"
	"github.com/stolasapp/facet/internal/storage"
)

type configKey struct{}

// prompt asks a question on stderr when attached to a terminal and reads a
// single trimmed line of reply from in.
func prompt(in io.Reader, question string) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if _, err := os.Stderr.WriteString(question); err != nil {
			return "", err
		}
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

func configFrom(ctx context.Context) (*config.Config, *slog.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, errors.New("config file resolution failed")
	}
	return cfg, slog.Default(), nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage.DB, error) {
	return storage.NewDB(ctx, cfg.DBFilepath, logger)
}
