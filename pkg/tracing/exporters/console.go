package exporters

import (
	"os"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
)

// NewConsoleExporter writes spans to stdout, for local development only.
func NewConsoleExporter() (*stdouttrace.Exporter, error) {
	return stdouttrace.New(
		stdouttrace.WithWriter(os.Stdout),
		stdouttrace.WithPrettyPrint(),
	)
}
