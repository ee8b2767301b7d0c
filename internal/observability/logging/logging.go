package logging

import (
	"io"
	"log/slog"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module labels log records with the owning subsystem.
type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

// NewHandler builds the process-wide slog handler: human-readable text in
// dev, JSON with service attributes everywhere else.
func NewHandler(w io.Writer, level slog.Level, env Environment, svc ServiceInfo) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	if env == EnvDev {
		return slog.NewTextHandler(w, opts)
	}

	attrs := []slog.Attr{
		slog.String("service", svc.Name),
		slog.String("version", svc.Version),
	}
	if svc.Revision != "" {
		attrs = append(attrs, slog.String("revision", svc.Revision))
	}

	return slog.NewJSONHandler(w, opts).WithAttrs(attrs)
}
